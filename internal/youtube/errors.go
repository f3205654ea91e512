package youtube

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

// ValidationError reports a missing required input. It is always raised
// before any network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// UpstreamError carries the video API's own failure message for a single
// outbound call.
type UpstreamError struct {
	Op         string // "search", "videos", "categories"
	StatusCode int    // 0 when the transport failed before a response
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s call failed with status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s call failed: %s", e.Op, e.Message)
}

func upstreamError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = gerr.Error()
		}
		return &UpstreamError{Op: op, StatusCode: gerr.Code, Message: msg}
	}
	return &UpstreamError{Op: op, Message: err.Error()}
}
