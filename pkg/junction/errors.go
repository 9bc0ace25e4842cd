package junction

import (
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 2048

type HTTPError struct {
	URL, Status string
	StatusCode  int
	Body        string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: %s", e.URL, e.Status)
	}
	return fmt.Sprintf("%s: %s: %s", e.URL, e.Status, e.Body)
}

// Check closes the body and returns an *HTTPError for 4xx and 5xx responses
func Check(r *http.Response) error {
	if r.StatusCode >= 400 && r.StatusCode < 600 {
		body, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
		_, _ = io.Copy(io.Discard, r.Body)
		r.Body.Close()

		return &HTTPError{
			URL:        r.Request.URL.Redacted(),
			Status:     r.Status,
			StatusCode: r.StatusCode,
			Body:       string(body),
		}
	}
	return nil
}
