// Package conversation holds the transcript state for a single chat session.
package conversation

import "strings"

// Role identifies who produced a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fixed assistant texts used when a turn cannot settle with a real reply.
const (
	// FallbackNoReply is appended when the service answered but the reply
	// field was missing or unusable.
	FallbackNoReply = "Sorry, I didn't receive a proper response. Please try again."
	// FallbackFailure is appended when the request itself failed (network
	// error or non-success status).
	FallbackFailure = "Sorry, something went wrong reaching the nutrition service. Please try again."
)

// Message is a single transcript entry. Messages are immutable once appended
// and ordering is conversation order.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserMessage creates a user message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// AssistantMessage creates an assistant message.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: text}
}

// Conversation owns the append-only message sequence and the awaiting-reply
// flag for one chat view. It is created when the view mounts and discarded
// with it; nothing persists across restarts.
//
// A turn moves Idle -> Sending (Begin) -> Idle (Resolve). While Sending,
// further Begin calls are rejected, so at most one request is outstanding.
type Conversation struct {
	messages []Message
	busy     bool
}

// New creates an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Begin validates and records a user turn. It returns the trimmed text and
// whether the turn was accepted. Empty or whitespace-only input and
// submissions while a reply is outstanding are rejected without touching
// the transcript. On acceptance the user message is appended before any
// network call happens and the awaiting-reply flag is set.
func (c *Conversation) Begin(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || c.busy {
		return "", false
	}
	c.messages = append(c.messages, UserMessage(trimmed))
	c.busy = true
	return trimmed, true
}

// Resolve settles the outstanding turn. Exactly one assistant message is
// appended (the reply text or one of the fixed fallbacks) and the
// awaiting-reply flag is cleared. Callers must invoke Resolve on every
// settle path: success, HTTP error, network error, or malformed reply.
func (c *Conversation) Resolve(content string) Message {
	msg := AssistantMessage(content)
	c.messages = append(c.messages, msg)
	c.busy = false
	return msg
}

// Note appends an assistant message outside the submit lifecycle, e.g. a
// health diagnostic. The awaiting-reply flag is left untouched.
func (c *Conversation) Note(content string) Message {
	msg := AssistantMessage(content)
	c.messages = append(c.messages, msg)
	return msg
}

// Busy reports whether a reply is outstanding.
func (c *Conversation) Busy() bool {
	return c.busy
}

// Len returns the number of transcript messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Messages returns a copy of the transcript in conversation order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}
