package device42

import (
	"errors"
	"fmt"
)

// ErrUpstreamFetch matches every failure to retrieve devices from Device42
var ErrUpstreamFetch = errors.New("device42 fetch failed")

// FetchError describes a failed request. Either StatusCode is set (the API
// answered with a non-2xx status) or Err holds the transport/decode failure.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("%s: %s: %s: %s", ErrUpstreamFetch, e.URL, e.Status, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %s: %s", ErrUpstreamFetch, e.URL, e.Status)
	case e.URL != "":
		return fmt.Sprintf("%s: %s: %v", ErrUpstreamFetch, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %v", ErrUpstreamFetch, e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUpstreamFetch) hold for any FetchError
func (e *FetchError) Is(target error) bool {
	return target == ErrUpstreamFetch
}
