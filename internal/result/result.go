// Package result defines the uniform outcome shape returned by collaborators
// such as the subscription manager and the role-fix routine.
package result

// Result reports whether a collaborator operation succeeded. Message and Data
// are optional and are relayed to API callers verbatim.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// OK builds a successful Result.
func OK(message string, data any) Result {
	return Result{Success: true, Message: message, Data: data}
}

// Fail builds a failed Result carrying a caller-facing message.
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
