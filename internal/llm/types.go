// Package llm provides the language-model gateway: a ranked list of model
// backends tried in order until one returns a usable completion.
package llm

import "context"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one chat message sent to a backend.
type Message struct {
	Role    Role
	Content string
}

// Request is a single completion request.
type Request struct {
	Messages []Message

	// WantsJSON asks for a strict-JSON response mode. Advisory: the gateway
	// forwards it only to backends whose capability flag says they honor it,
	// so callers must still parse defensively.
	WantsJSON bool

	// Temperature overrides the backend default when non-nil.
	Temperature *float32
}

// Backend is one externally hosted model endpoint in the gateway's ranked
// list.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// SupportsJSONMode reports whether the backend honors a strict-JSON
	// request mode. Declared as a capability flag rather than inferred from
	// the backend name.
	SupportsJSONMode() bool

	// Complete sends the request and returns the completion text.
	Complete(ctx context.Context, req Request) (string, error)
}
