package testutil

import "testing"

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults to local test database", func(t *testing.T) {
		for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(key, "")
		}

		cfg := DefaultTestDBConfig()

		if cfg.Host != "localhost" {
			t.Errorf("expected Host=localhost, got %s", cfg.Host)
		}
		if cfg.Port != "55432" {
			t.Errorf("expected Port=55432, got %s", cfg.Port)
		}
		if cfg.User != "notify" || cfg.Password != "notify" {
			t.Errorf("expected notify/notify credentials, got %s/%s", cfg.User, cfg.Password)
		}
		if cfg.DBName != "notify_test" {
			t.Errorf("expected DBName=notify_test, got %s", cfg.DBName)
		}
	})

	t.Run("respects CI overrides", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("TEST_DB_NAME", "ci")

		cfg := DefaultTestDBConfig()

		if cfg.Host != "postgres" || cfg.Port != "5432" || cfg.DBName != "ci" {
			t.Errorf("unexpected config %+v", cfg)
		}
	})
}

func TestAlertEventBuilder(t *testing.T) {
	ev := NewAlertEvent().
		WithContacts(Contact("Ada", "8030000000")).
		WithAdmins("ops@example.com").
		WithoutCoordinates().
		Build()

	if ev.Location.Latitude != nil || ev.Location.Longitude != nil {
		t.Errorf("expected coordinates to be cleared")
	}
	if len(ev.Contacts) != 1 || len(ev.AdminEmails) != 1 {
		t.Errorf("unexpected recipients: %+v", ev)
	}
}
