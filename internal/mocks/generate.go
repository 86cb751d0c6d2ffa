// Package mocks provides gomock implementations of the core ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	sms := mocks.NewMockSMSSender(ctrl)
//	sms.EXPECT().SendSMS(gomock.Any(), "+2348030000000", gomock.Any()).Return(model.Delivered("m-1"))
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sms_sender_mock.go github.com/beeseek/notify-api/internal/core SMSSender
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=email_sender_mock.go github.com/beeseek/notify-api/internal/core EmailSender
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_repository_mock.go github.com/beeseek/notify-api/internal/core AuditRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=health_cache_mock.go github.com/beeseek/notify-api/internal/core HealthCache
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=provider_prober_mock.go github.com/beeseek/notify-api/internal/core ProviderProber
