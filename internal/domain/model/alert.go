// Package model holds the domain types exchanged between the dispatch core,
// the channel adapters, the audit store and the HTTP layer.
package model

import (
	"fmt"
	"strings"
)

// AlertKind identifies who raised a safety alert.
type AlertKind string

const (
	AlertKindUser  AlertKind = "user"
	AlertKindAgent AlertKind = "agent"
)

// Valid returns true if the alert kind is valid.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertKindUser, AlertKindAgent:
		return true
	default:
		return false
	}
}

// Label returns the human readable label used in admin notifications.
func (k AlertKind) Label() string {
	if k == AlertKindUser {
		return "User Emergency"
	}
	return "Agent Emergency"
}

// Location is where the alert was raised. Coordinates are pointers so an
// absent value can be told apart from 0.
type Location struct {
	Latitude  *float64
	Longitude *float64
	Address   string
}

// MapsLink returns a Google Maps link to the coordinates, or "" when either is absent.
func (l Location) MapsLink() string {
	if l.Latitude == nil || l.Longitude == nil {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/maps?q=%s,%s", FormatCoordinate(*l.Latitude), FormatCoordinate(*l.Longitude))
}

// Coordinates renders "lat, lon" for display.
func (l Location) Coordinates() string {
	if l.Latitude == nil || l.Longitude == nil {
		return ""
	}
	return FormatCoordinate(*l.Latitude) + ", " + FormatCoordinate(*l.Longitude)
}

// FormatCoordinate formats a coordinate without trailing zeros.
func FormatCoordinate(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.7f", v), "0"), ".")
}

// Contact is an emergency contact that receives the alert by SMS.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// NormalizedPhone returns the phone in canonical international form: trimmed,
// inner spaces removed and prefixed with "+" when the prefix is missing.
func (c Contact) NormalizedPhone() string {
	return NormalizePhone(c.Phone)
}

// NormalizePhone applies the canonical international form to a raw number.
func NormalizePhone(raw string) string {
	phone := strings.Join(strings.Fields(raw), "")
	if phone == "" {
		return ""
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}

// AlertEvent is one safety alert to fan out. It is built per inbound request
// and discarded when the dispatch returns.
type AlertEvent struct {
	AlertID     string
	Kind        AlertKind
	SubjectName string
	PersonID    string
	Location    Location
	TaskID      string
	Contacts    []Contact
	AdminEmails []string
}

// HasContacts reports whether any emergency contact was supplied.
func (e *AlertEvent) HasContacts() bool {
	return len(e.Contacts) > 0
}
