// Package provider abstracts the hosted text-generation API.
package provider

import (
	"context"
	"strings"
)

// Provider produces a grounded reply to userMessage using contextText as
// the only admissible source material.
type Provider interface {
	Reply(ctx context.Context, userMessage, contextText string) (string, error)
}

// Greeting phrases answered with a canned reply, no model call.
var greetings = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

const GreetingReply = "Hello! I'm your campus assistant. How can I help you today?"

// IsGreeting reports whether msg is an exact, case-insensitive greeting.
func IsGreeting(msg string) bool {
	return greetings[strings.ToLower(strings.TrimSpace(msg))]
}
