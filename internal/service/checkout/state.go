package checkout

import "fmt"

// State is a checkout workflow state.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateValidating
	StateSubmitting
	StateConfirmed
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:       "idle",
	StateCollecting: "collecting",
	StateValidating: "validating",
	StateSubmitting: "submitting",
	StateConfirmed:  "confirmed",
	StateFailed:     "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Command is an input to Workflow.Dispatch.
type Command interface {
	command()
}

// Begin opens the customer form. Refused while the cart is empty.
type Begin struct{}

// Submit validates the form and places the order.
type Submit struct {
	Form Form
}

// Cancel closes the form without submitting.
type Cancel struct{}

// Contact consumes the last confirmation and returns a WhatsApp link for it.
type Contact struct{}

func (Begin) command()   {}
func (Submit) command()  {}
func (Cancel) command()  {}
func (Contact) command() {}

// Form holds the customer's contact fields.
type Form struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
	Notes   string `json:"notes"`
}
