package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{"notify", "sos.dispatch", "notify.sos.dispatch"},
		{"", " delivery/attempt ", "delivery_attempt"},
		{"..notify..", "audit..write", "notify.audit.write"},
		{"notify", "", ""},
	}
	for _, tt := range tests {
		if got := MetricName(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("MetricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestLineMergesAndSortsTags(t *testing.T) {
	t.Parallel()

	c := &Client{
		prefix:     "notify",
		globalTags: map[string]string{"env": "prod", "service": "notify-api"},
	}

	got := c.Line("delivery.attempt", "1", "c", map[string]string{
		"channel": " sms ",
		"":        "ignored",
		"env":     "stage",
	})
	want := "notify.delivery.attempt:1|c|#channel:sms,env:stage,service:notify-api"
	if got != want {
		t.Fatalf("Line mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := (&Client{}).Line("x", "2", "g", nil); got != "x:2|g" {
		t.Fatalf("untagged line = %q", got)
	}
}

func TestClientWritesDatagram(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	c := &Client{prefix: "notify", conn: clientConn, globalTags: map[string]string{}}
	if !c.Enabled() {
		t.Fatal("expected client with connection to be enabled")
	}

	done := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		n, _ := peerConn.Read(buf)
		done <- string(buf[:n])
	}()

	c.Timing("sos.dispatch.duration", 1500*time.Microsecond, map[string]string{"result": "success"})

	select {
	case line := <-done:
		if line != "notify.sos.dispatch.duration:1.5|ms|#result:success" {
			t.Fatalf("unexpected datagram %q", line)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for datagram")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected disabled after Close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close error: %v", err)
	}
}

func TestNilAndDisabledClients(t *testing.T) {
	t.Parallel()

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	if nilClient.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := nilClient.Close(); err != nil {
		t.Fatalf("nil Close error: %v", err)
	}

	c, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected client without address to stay disabled")
	}
	c.Count("ignored", 1, nil)
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil || !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("expected dial error, got %v", err)
	}
}

func TestMemorySum(t *testing.T) {
	t.Parallel()

	var m Memory
	m.Count("delivery.attempt", 1, map[string]string{"channel": "sms", "result": "success"})
	m.Count("delivery.attempt", 1, map[string]string{"channel": "sms", "result": "error"})
	m.Count("delivery.attempt", 1, map[string]string{"channel": "email", "result": "success"})

	if got := m.Sum("delivery.attempt", map[string]string{"channel": "sms"}); got != 2 {
		t.Fatalf("sms attempts = %v, want 2", got)
	}
	if got := m.Sum("delivery.attempt", map[string]string{"result": "success"}); got != 2 {
		t.Fatalf("successful attempts = %v, want 2", got)
	}
	if len(m.Points()) != 3 {
		t.Fatalf("expected 3 points")
	}
}
