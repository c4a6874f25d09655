package store

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryWithBackoff(t *testing.T) {
	saved := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = saved }()

	netErr := &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}
	plain := stderrors.New("wrong type")

	tests := []struct {
		name     string
		errs     []error
		wantErr  error
		wantRuns int
	}{
		{"success", []error{nil}, nil, 1},
		{"recovers", []error{netErr, nil}, nil, 2},
		{"gives up", []error{netErr, netErr, netErr}, netErr, 3},
		{"permanent", []error{plain}, plain, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := 0
			err := retryWithBackoff(context.Background(), func() error {
				err := tt.errs[runs]
				runs++
				return retryable(err)
			})
			assert.Equal(t, tt.wantRuns, runs)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, isRetryable(err))
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retryWithBackoff(ctx, func() error {
		return retryable(&net.OpError{Op: "read", Err: stderrors.New("reset")})
	})
	assert.ErrorIs(t, err, context.Canceled)
}
