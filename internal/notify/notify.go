// Package notify delivers candidate-facing emails. Notifiers never return an
// error: delivery failure is data, reported through Result, so a failed send
// can be recorded per candidate without aborting a batch.
package notify

import (
	"context"
	"strings"
)

// Message is one outbound email.
type Message struct {
	To       string
	Subject  string
	Body     string
	FromName string
}

// Result reports the outcome of a delivery attempt.
type Result struct {
	Success bool
	Message string
}

// Notifier is the email-delivery collaborator.
type Notifier interface {
	Send(ctx context.Context, msg Message) Result
}

// HTMLBody converts a plain-text draft into the HTML body that is actually
// sent. Newlines become <br> tags; no other markup is added.
func HTMLBody(body string) string {
	return strings.ReplaceAll(body, "\n", "<br>")
}
