package errors

import (
	"context"
	goerrors "errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/beeseek/notify-api/internal/errors"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "app error", err: apperrors.Unavailable("audit storage is disabled"), want: "app_unavailable"},
		{name: "wrapped app error", err: fmt.Errorf("insert: %w", apperrors.Validation("bad")), want: "app_validation"},
		{name: "deadline", err: fmt.Errorf("send: %w", context.DeadlineExceeded), want: "timeout"},
		{name: "canceled", err: context.Canceled, want: "canceled"},
		{name: "plain", err: goerrors.New("boom"), want: "errors_errorstring"},
		{name: "innermost type", err: fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Err: goerrors.New("refused")}), want: "errors_errorstring"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
