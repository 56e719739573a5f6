// Package domain defines the core models of the smsauth session client.
package domain

// Result is the outcome of a session operation as reported to its caller.
// Message is empty on success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Succeeded returns a successful Result.
func Succeeded() Result {
	return Result{Success: true}
}

// Failed returns a failed Result carrying msg.
func Failed(msg string) Result {
	return Result{Success: false, Message: msg}
}
