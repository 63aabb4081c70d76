package httputil

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, Delay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestPolicyDo(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		attempts  int
		fail      int // number of leading failures
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success first try", 3, 0, true, 1, false},
		{"success after retry", 3, 1, true, 2, false},
		{"exhausted", 3, 5, true, 3, true},
		{"non-retryable stops", 3, 5, false, 1, true},
		{"zero attempts runs once", 0, 5, true, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := fastPolicy(tt.attempts).Do(ctx, func(attempt int) error {
				calls++
				if attempt != calls {
					t.Errorf("attempt = %d, want %d", attempt, calls)
				}
				if calls <= tt.fail {
					if tt.retryable {
						return Retryable(errTransient)
					}
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestPolicyDoContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Policy{Attempts: 3, Delay: time.Hour}.Do(ctx, func(int) error {
		return Retryable(errTransient)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("abcd"), 4)
	if err != nil || string(data) != "abcd" {
		t.Errorf("ReadLimited at limit = %q, %v", data, err)
	}

	if _, err := ReadLimited(strings.NewReader("abcde"), 4); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadLimited over limit error = %v, want ErrTooLarge", err)
	}

	data, err = ReadLimited(strings.NewReader("unbounded"), 0)
	if err != nil || string(data) != "unbounded" {
		t.Errorf("ReadLimited without limit = %q, %v", data, err)
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		retryable bool
	}{
		{http.StatusOK, false, false},
		{http.StatusNoContent, false, false},
		{http.StatusNotFound, true, false},
		{http.StatusForbidden, true, false},
		{http.StatusTooManyRequests, true, true},
		{http.StatusBadGateway, true, true},
	}
	for _, tt := range tests {
		err := CheckStatus("https://example.org", tt.code)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckStatus(%d) = %v, wantErr %v", tt.code, err, tt.wantErr)
		}
		if IsRetryable(err) != tt.retryable {
			t.Errorf("CheckStatus(%d) retryable = %v, want %v", tt.code, IsRetryable(err), tt.retryable)
		}
	}

	var se *StatusError
	if !errors.As(CheckStatus("u", 404), &se) || se.Code != 404 {
		t.Errorf("CheckStatus(404) should be a StatusError")
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient(time.Minute)
	if c.Timeout != time.Minute {
		t.Errorf("Timeout = %v", c.Timeout)
	}
	if c.Transport == nil {
		t.Error("Transport should be set")
	}
}
