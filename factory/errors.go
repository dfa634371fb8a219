package factory

import "fmt"

// APIError reports a PIX call whose status code indicates failure,
// carrying the service's stated reason.
type APIError struct {
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("pix: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("pix: %s (status %d)", e.Reason, e.StatusCode)
}

// Err returns an *APIError when the response status indicates failure,
// nil otherwise. The reason is the HTTP status line; services that state
// a richer reason do so in the payload, which callers inspect themselves.
func (r *Response) Err() error {
	if r.StatusCode < 400 {
		return nil
	}
	return &APIError{StatusCode: r.StatusCode, Reason: r.Status}
}
