package httputil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrTooLarge is returned by ReadLimited when the body exceeds the limit.
var ErrTooLarge = errors.New("body exceeds size limit")

// ReadLimited reads all of r but fails once more than limit bytes arrive.
// A limit of zero or less reads without bound.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// StatusError describes a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// CheckStatus returns nil for 2xx, a retryable StatusError for 5xx and 429,
// and a plain StatusError otherwise.
func CheckStatus(url string, code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 500, code == http.StatusTooManyRequests:
		return Retryable(&StatusError{URL: url, Code: code})
	default:
		return &StatusError{URL: url, Code: code}
	}
}
