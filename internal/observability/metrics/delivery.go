// Package metrics holds the metric names and tag conventions for notification delivery.
package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/beeseek/notify-api/internal/observability/errors"
	"github.com/beeseek/notify-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultPartial = "partial"
	ResultSkipped = "skipped"
)

// Metric names.
const (
	MetricDispatch         = "sos.dispatch"
	MetricDispatchDuration = "sos.dispatch.duration"
	MetricDeliveryAttempt  = "delivery.attempt"
	MetricDeliveryDuration = "delivery.duration"
	MetricAuditWrite       = "audit.write"
	MetricHealthProbe      = "health.probe"
	MetricMessageSend      = "message.send"
)

// DispatchMetric summarises one SOS fan-out.
type DispatchMetric struct {
	Kind      string
	Attempted int
	Failed    int
	Duration  time.Duration
}

// Result derives the dispatch result tag from the attempt counts.
func (m DispatchMetric) Result() string {
	switch {
	case m.Attempted == 0:
		return ResultSkipped
	case m.Failed == 0:
		return ResultSuccess
	case m.Failed == m.Attempted:
		return ResultError
	default:
		return ResultPartial
	}
}

// EmitDispatch records the outcome of an SOS fan-out.
func EmitDispatch(sink statsd.Sink, in DispatchMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{"kind": in.Kind, "result": in.Result()}
	sink.Count(MetricDispatch, 1, tags)
	sink.Gauge(MetricDispatch+".failed", float64(in.Failed), CloneTags(tags))
	if in.Duration > 0 {
		sink.Timing(MetricDispatchDuration, in.Duration, CloneTags(tags))
	}
}

// AttemptMetric captures one provider send.
type AttemptMetric struct {
	Channel   string
	Target    string
	Succeeded bool
	Simulated bool
	Duration  time.Duration
}

// EmitDeliveryAttempt records a single send on a channel.
func EmitDeliveryAttempt(sink statsd.Sink, in AttemptMetric) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"channel":   in.Channel,
		"result":    resultOf(in.Succeeded),
		"simulated": strconv.FormatBool(in.Simulated),
	}
	if in.Target != "" {
		tags["target"] = in.Target
	}
	sink.Count(MetricDeliveryAttempt, 1, tags)
	if in.Duration > 0 {
		sink.Timing(MetricDeliveryDuration, in.Duration, CloneTags(tags))
	}
}

// EmitAuditWrite records an audit insert; a write error is tagged by class.
func EmitAuditWrite(sink statsd.Sink, status string, err error) {
	if sink == nil {
		return
	}
	tags := map[string]string{"status": status, "result": resultOf(err == nil)}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count(MetricAuditWrite, 1, tags)
}

// EmitHealthProbe records the result of one provider probe.
func EmitHealthProbe(sink statsd.Sink, provider string, err error, d time.Duration) {
	if sink == nil {
		return
	}
	tags := map[string]string{"provider": provider, "result": resultOf(err == nil)}
	if err != nil {
		tags["error_class"] = obserrors.Classify(err)
	}
	sink.Count(MetricHealthProbe, 1, tags)
	if d > 0 {
		sink.Timing(MetricHealthProbe+".duration", d, CloneTags(tags))
	}
}

// EmitMessageSend records a transactional message send by kind.
func EmitMessageSend(sink statsd.Sink, kind string, succeeded bool) {
	if sink == nil {
		return
	}
	sink.Count(MetricMessageSend, 1, map[string]string{"kind": kind, "result": resultOf(succeeded)})
}

// CloneTags creates a shallow copy of a tag map.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func resultOf(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultError
}
