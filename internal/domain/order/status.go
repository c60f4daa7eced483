package order

import "github.com/go-faster/errors"

// ErrInvalidStatus is returned when a status string does not name a known
// order state.
var ErrInvalidStatus = errors.New("invalid order status")

// Status is the lifecycle state of an order.
//
// The customer flow is pending -> processing -> completed, with pending or
// processing orders cancellable. Completed and cancelled are terminal for the
// customer flow; the admin surface may still move an order between any two
// states (including reopening a cancelled order), which is a deliberate
// policy choice rather than a missing guard.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus converts a wire string into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", errors.Wrapf(ErrInvalidStatus, "%q", s)
	}
}

// Valid reports whether the status names a known state.
func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Terminal reports whether the customer flow defines no further transition
// out of this state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string {
	return string(s)
}
