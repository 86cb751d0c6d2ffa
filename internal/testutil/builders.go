package testutil

import (
	"time"

	"github.com/beeseek/notify-api/internal/domain/model"
)

// AlertEventBuilder provides a fluent interface for building AlertEvent values in tests.
type AlertEventBuilder struct {
	ev model.AlertEvent
}

// NewAlertEvent returns a builder seeded with a valid user alert in Lagos
// and no recipients.
func NewAlertEvent() *AlertEventBuilder {
	return &AlertEventBuilder{
		ev: model.AlertEvent{
			AlertID:     "sos-test-1",
			Kind:        model.AlertKindUser,
			SubjectName: "Tunde Bakare",
			Location: model.Location{
				Latitude:  Float64Ptr(6.5244),
				Longitude: Float64Ptr(3.3792),
				Address:   "12 Marina Road, Lagos",
			},
		},
	}
}

// WithAlertID sets the alert id.
func (b *AlertEventBuilder) WithAlertID(id string) *AlertEventBuilder {
	b.ev.AlertID = id
	return b
}

// WithKind sets the alert kind.
func (b *AlertEventBuilder) WithKind(kind model.AlertKind) *AlertEventBuilder {
	b.ev.Kind = kind
	return b
}

// WithSubject sets the person who raised the alert.
func (b *AlertEventBuilder) WithSubject(name string) *AlertEventBuilder {
	b.ev.SubjectName = name
	return b
}

// WithTask sets the related task id.
func (b *AlertEventBuilder) WithTask(id string) *AlertEventBuilder {
	b.ev.TaskID = id
	return b
}

// WithAddress sets the address.
func (b *AlertEventBuilder) WithAddress(addr string) *AlertEventBuilder {
	b.ev.Location.Address = addr
	return b
}

// WithoutCoordinates clears both coordinates.
func (b *AlertEventBuilder) WithoutCoordinates() *AlertEventBuilder {
	b.ev.Location.Latitude = nil
	b.ev.Location.Longitude = nil
	return b
}

// WithoutLatitude clears the latitude only.
func (b *AlertEventBuilder) WithoutLatitude() *AlertEventBuilder {
	b.ev.Location.Latitude = nil
	return b
}

// WithoutLongitude clears the longitude only.
func (b *AlertEventBuilder) WithoutLongitude() *AlertEventBuilder {
	b.ev.Location.Longitude = nil
	return b
}

// WithContacts appends emergency contacts.
func (b *AlertEventBuilder) WithContacts(contacts ...model.Contact) *AlertEventBuilder {
	b.ev.Contacts = append(b.ev.Contacts, contacts...)
	return b
}

// WithAdmins appends admin email recipients.
func (b *AlertEventBuilder) WithAdmins(emails ...string) *AlertEventBuilder {
	b.ev.AdminEmails = append(b.ev.AdminEmails, emails...)
	return b
}

// Build returns the constructed event.
func (b *AlertEventBuilder) Build() model.AlertEvent {
	return b.ev
}

// Contact is shorthand for a model.Contact literal.
func Contact(name, phone string) model.Contact {
	return model.Contact{Name: name, Phone: phone}
}

// Float64Ptr returns a pointer to the given float64 value.
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr returns a pointer to the given string value.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to the given int value.
func IntPtr(i int) *int {
	return &i
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}
