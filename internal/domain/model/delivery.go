package model

// Channel is a delivery channel.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// String returns the string representation of the channel.
func (c Channel) String() string {
	return string(c)
}

// SendResult is what every channel sender returns for one recipient.
// Provider-side failures are reported here, never as Go errors.
type SendResult struct {
	Succeeded bool
	MessageID string
	Error     string
	// Simulated marks results produced without contacting the provider (SMS test mode).
	Simulated bool
}

// Failed builds a failed SendResult carrying msg.
func Failed(msg string) SendResult {
	return SendResult{Error: msg}
}

// Delivered builds a successful SendResult.
func Delivered(messageID string) SendResult {
	return SendResult{Succeeded: true, MessageID: messageID}
}

// DeliveryOutcome captures one attempted send to one recipient on one channel.
type DeliveryOutcome struct {
	Recipient     string  `json:"recipient"`
	RecipientName string  `json:"recipientName,omitempty"`
	Channel       Channel `json:"channel"`
	Succeeded     bool    `json:"success"`
	MessageID     string  `json:"messageId,omitempty"`
	Error         string  `json:"error,omitempty"`
	Simulated     bool    `json:"simulated,omitempty"`
}

// NewOutcome combines a recipient with the channel's send result.
func NewOutcome(channel Channel, recipient, name string, res SendResult) DeliveryOutcome {
	return DeliveryOutcome{
		Recipient:     recipient,
		RecipientName: name,
		Channel:       channel,
		Succeeded:     res.Succeeded,
		MessageID:     res.MessageID,
		Error:         res.Error,
		Simulated:     res.Simulated,
	}
}

// AggregateResult is the reduction over every outcome of one dispatch.
type AggregateResult struct {
	AlertID   string
	Outcomes  []DeliveryOutcome
	Succeeded bool
}

// NewAggregateResult computes the aggregate: it succeeds iff at least one
// outcome on any channel succeeded.
func NewAggregateResult(alertID string, outcomes []DeliveryOutcome) *AggregateResult {
	res := &AggregateResult{AlertID: alertID, Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Succeeded {
			res.Succeeded = true
			break
		}
	}
	return res
}

// ByChannel returns the outcomes for one channel, preserving order.
func (r *AggregateResult) ByChannel(ch Channel) []DeliveryOutcome {
	out := make([]DeliveryOutcome, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		if o.Channel == ch {
			out = append(out, o)
		}
	}
	return out
}

// SMS returns the SMS outcomes.
func (r *AggregateResult) SMS() []DeliveryOutcome { return r.ByChannel(ChannelSMS) }

// Email returns the email outcomes.
func (r *AggregateResult) Email() []DeliveryOutcome { return r.ByChannel(ChannelEmail) }

// ChannelSucceeded reports whether any outcome on ch succeeded.
func (r *AggregateResult) ChannelSucceeded(ch Channel) bool {
	for _, o := range r.Outcomes {
		if o.Channel == ch && o.Succeeded {
			return true
		}
	}
	return false
}

// FailedCount returns the number of failed outcomes.
func (r *AggregateResult) FailedCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			n++
		}
	}
	return n
}
