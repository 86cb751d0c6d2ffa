// Package templates renders the transactional emails and the SOS text message.
// Every EmailKind resolves to a subject strategy and a named template here, so
// callers never branch on message type.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/beeseek/notify-api/internal/domain/model"
)

//go:embed email/*.html sms/*.txt
var files embed.FS

// ErrUnknownKind is returned when no template is registered for an EmailKind.
var ErrUnknownKind = errors.New("unknown email kind")

// Links holds the absolute URLs embedded in rendered messages.
type Links struct {
	AdminDashboardURL  string
	AgentVerifyURLBase string
}

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Links Links
	// Location is used for timestamps shown to admins. Defaults to Africa/Lagos.
	Location *time.Location
	// Now is overridable for tests.
	Now func() time.Time
}

// Renderer renders messages from the embedded templates. It is safe for concurrent use.
type Renderer struct {
	email *htmltemplate.Template
	sms   *texttemplate.Template
	links Links
	loc   *time.Location
	now   func() time.Time
}

// kindSpec resolves one EmailKind: its subject and any fields derived from the request.
type kindSpec struct {
	heading string
	subject func(f map[string]any) string
	prepare func(f map[string]any, links Links)
}

func fixed(s string) func(map[string]any) string {
	return func(map[string]any) string { return s }
}

func withField(prefix, key string) func(map[string]any) string {
	return func(f map[string]any) string { return prefix + str(f[key]) }
}

var kinds = map[model.EmailKind]kindSpec{
	model.EmailKindVerification: {
		heading: "Verify Your Account",
		subject: fixed("Verify Your BeeSeek Account"),
	},
	model.EmailKindPasswordReset: {
		heading: "Reset Your Password",
		subject: fixed("Reset Your Password"),
	},
	model.EmailKindWelcome: {
		heading: "Welcome to BeeSeek",
		subject: fixed("Welcome to BeeSeek"),
	},
	model.EmailKindNotification: {
		subject: func(f map[string]any) string { return str(f["subject"]) },
		prepare: func(f map[string]any, _ Links) { f["heading"] = f["subject"] },
	},
	model.EmailKindAgentMagicLink: {
		heading: "Verify Your Agent Account",
		subject: fixed("Verify Your Agent Account"),
		prepare: func(f map[string]any, links Links) {
			f["magicLink"] = MagicLink(links.AgentVerifyURLBase, str(f["agentId"]))
		},
	},
	model.EmailKindAutoApprovalWarning: {
		heading: "Payment Release Reminder",
		subject: withField("Payment Release Reminder - ", "activityTitle"),
		prepare: defaultActivityType,
	},
	model.EmailKindAutoApprovalUser: {
		heading: "Payment Automatically Released",
		subject: withField("Payment Released - ", "activityTitle"),
		prepare: defaultActivityType,
	},
	model.EmailKindAutoApprovalAgent: {
		heading: "Payment Released",
		subject: withField("Payment Released - ", "activityTitle"),
		prepare: defaultActivityType,
	},
	model.EmailKindBookingConfirmation: {
		heading: "Booking Confirmed",
		subject: withField("Booking Confirmed - ", "activityTitle"),
		prepare: func(f map[string]any, links Links) {
			defaultActivityType(f, links)
			f["isAgent"] = str(f["userType"]) == "agent"
			f["headingColor"] = "#10b981"
		},
	},
	model.EmailKindTaskCancellation: {
		heading: "Task Cancelled",
		subject: withField("Task Cancelled - ", "taskTitle"),
	},
	model.EmailKindAgentWelcomeKYC: {
		heading: "Welcome to BeeSeek!",
		subject: fixed("Welcome to BeeSeek - Verify Your Identity"),
	},
	model.EmailKindAccountSuspension: {
		heading: "Account Suspended",
		subject: fixed("Account Suspended"),
		prepare: func(f map[string]any, _ Links) {
			f["isAgent"] = str(f["userType"]) == "agent"
			f["headingColor"] = "#dc2626"
			duration := str(f["duration"])
			switch duration {
			case "":
				f["durationText"] = "suspended"
			case "permanently":
				f["durationText"] = "permanently suspended"
			default:
				f["durationText"] = "suspended for " + duration
				f["reactivates"] = true
			}
		},
	},
	model.EmailKindAccountDeletion: {
		heading: "Account Deleted",
		subject: fixed("Account Deleted - We'll Miss You"),
		prepare: func(f map[string]any, _ Links) { f["isAgent"] = str(f["userType"]) == "agent" },
	},
	model.EmailKindCourtSession: {
		heading: "Court Session Scheduled",
		subject: fixed("Court Session Scheduled - Action Required"),
		prepare: func(f map[string]any, _ Links) { f["headingColor"] = "#dc2626" },
	},
}

func defaultActivityType(f map[string]any, _ Links) {
	if str(f["activityType"]) == "" {
		f["activityType"] = "task"
	}
}

// NewRenderer parses the embedded templates.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	funcs := htmltemplate.FuncMap{"dict": dict}
	email, err := htmltemplate.New("email").Funcs(funcs).ParseFS(files, "email/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	sms, err := texttemplate.New("sms").ParseFS(files, "sms/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse sms templates: %w", err)
	}

	for kind := range kinds {
		if email.Lookup(string(kind)) == nil {
			return nil, fmt.Errorf("missing email template %q", kind)
		}
	}

	loc := opts.Location
	if loc == nil {
		loc = LagosLocation()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Renderer{email: email, sms: sms, links: opts.Links, loc: loc, now: now}, nil
}

// Email renders the email for kind from the request fields.
func (r *Renderer) Email(kind model.EmailKind, to string, fields map[string]any) (model.EmailMessage, error) {
	tmpl, ok := kinds[kind]
	if !ok {
		return model.EmailMessage{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	data := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		data[k] = v
	}
	if tmpl.heading != "" {
		data["heading"] = tmpl.heading
	}
	if tmpl.prepare != nil {
		tmpl.prepare(data, r.links)
	}

	body, err := r.executeHTML(string(kind), data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	return model.EmailMessage{To: to, Subject: tmpl.subject(data), HTMLBody: body}, nil
}

// SOSEmail renders the admin notification for an alert.
func (r *Renderer) SOSEmail(ev *model.AlertEvent, to string) (model.EmailMessage, error) {
	data := r.sosData(ev)
	data["heading"] = "Safety Alert"
	data["headingColor"] = "#dc2626"
	data["signature"] = "BeeSeek Safety Team"
	data["kind"] = string(ev.Kind)
	data["kindLabel"] = ev.Kind.Label()
	data["coordinates"] = ev.Location.Coordinates()
	data["taskId"] = ev.TaskID
	data["timestamp"] = r.now().In(r.loc).Format("02/01/2006, 15:04:05 WAT")
	data["dashboardUrl"] = r.links.AdminDashboardURL
	data["contacts"] = ev.Contacts

	body, err := r.executeHTML(string(model.EmailKindSOSAlert), data)
	if err != nil {
		return model.EmailMessage{}, err
	}
	return model.EmailMessage{
		To:       to,
		Subject:  SOSSubject(ev.SubjectName),
		HTMLBody: body,
	}, nil
}

// SOSSMS renders the text message sent to emergency contacts.
func (r *Renderer) SOSSMS(ev *model.AlertEvent) (string, error) {
	var buf bytes.Buffer
	if err := r.sms.ExecuteTemplate(&buf, "sos_alert.txt", r.sosData(ev)); err != nil {
		return "", fmt.Errorf("render sos sms: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// SOSSubject is the admin email subject for an alert raised by person.
func SOSSubject(person string) string {
	return "Safety Alert: " + person + " - Assistance Requested"
}

// MagicLink builds the agent verification URL.
func MagicLink(base, agentID string) string {
	return base + "?agentId=" + url.QueryEscape(agentID)
}

// LagosLocation returns the Africa/Lagos zone, falling back to a fixed WAT offset
// when the tz database is unavailable.
func LagosLocation() *time.Location {
	if loc, err := time.LoadLocation("Africa/Lagos"); err == nil {
		return loc
	}
	return time.FixedZone("WAT", 60*60)
}

func (r *Renderer) sosData(ev *model.AlertEvent) map[string]any {
	return map[string]any{
		"alertId":    ev.AlertID,
		"personName": ev.SubjectName,
		"address":    ev.Location.Address,
		"mapsLink":   ev.Location.MapsLink(),
	}
}

func (r *Renderer) executeHTML(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.email.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
