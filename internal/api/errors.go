package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// HTTPError is a non-success response from the backend. Fields carries the
// decoded JSON error body when the response declared one.
type HTTPError struct {
	StatusCode int
	StatusText string
	URL        string
	Fields     map[string]interface{}
}

// Error renders the body's key/value pairs when a JSON error body was
// returned, otherwise a generic line naming the URL and status.
func (e *HTTPError) Error() string {
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: '%v', ", k, e.Fields[k])
		}
		return b.String()
	}
	return fmt.Sprintf("API call to %s failed with %d %s", e.URL, e.StatusCode, e.StatusText)
}

// NetworkError is a transport-level failure where no response was received.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("API call to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newHTTPError(statusCode int, statusText, url, contentType string, body []byte) *HTTPError {
	httpErr := &HTTPError{
		StatusCode: statusCode,
		StatusText: statusText,
		URL:        url,
	}
	if isJSON(contentType) && len(body) > 0 {
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err == nil {
			httpErr.Fields = fields
		}
	}
	return httpErr
}

// ErrorDecode turns any failure from this package into a displayable string:
// the structured error body when one exists, then a short HTTP summary, then
// the error's own message.
func ErrorDecode(err error) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if len(httpErr.Fields) > 0 {
			return httpErr.Error()
		}
		return fmt.Sprintf("HTTP %d: API call failed: %s", httpErr.StatusCode, httpErr.URL)
	}
	return err.Error()
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "json")
}
