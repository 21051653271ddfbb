package movas

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a new request is issued while another one is still
// in flight. The pending request is never aborted; callers retry once it
// completes.
var ErrBusy = errors.New("another request is already in progress")

// ErrNoJourneyDetails is returned for journey IDs that were not assigned by
// the most recent completed search.
var ErrNoJourneyDetails = errors.New("no journey details found")

// ProtocolError means the reply could not be understood at the document
// level: empty body, malformed JSON or a missing discriminator field.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("cannot parse reply from the server: %s", e.Message)
}

// BackendError means the backend explicitly signalled an error status. Code
// carries the backend-provided error code.
type BackendError struct {
	Code string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned an error: %s", e.Code)
}
