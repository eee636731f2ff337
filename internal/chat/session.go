// Package chat models the conversation with the backend assistant: one
// conversation id per process and an ordered transcript with pending
// placeholder turns. The backend owns context memory; the transcript here
// is display state only.
package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/i18n"
)

// Sender identifies who produced a turn.
type Sender int

const (
	SenderUser Sender = iota
	SenderAI
)

// Turn is one transcript entry. Pending marks the placeholder shown while
// a reply is in flight.
type Turn struct {
	Sender  Sender
	Text    string
	Sources []string
	Pending bool
	At      time.Time
}

// Session groups chat turns under a single conversation id minted at
// construction and never rotated.
type Session struct {
	id      string
	turns   []Turn
	greeted bool
}

// NewSession mints a session with a fresh conversation id.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the conversation identifier sent with every chat request.
func (s *Session) ID() string {
	return s.id
}

// Open seeds the localized greeting the first time the chat panel opens.
// The greeting is purely local and never sent to the backend. Returns
// true when the greeting was added.
func (s *Session) Open(lang string) bool {
	if s.greeted {
		return false
	}
	s.greeted = true
	s.turns = append(s.turns, Turn{
		Sender: SenderAI,
		Text:   i18n.T(lang, "greeting"),
		At:     time.Now(),
	})
	return true
}

// AppendUser records a user turn followed by a pending AI placeholder and
// returns the placeholder index for later resolution.
func (s *Session) AppendUser(text string) int {
	now := time.Now()
	s.turns = append(s.turns,
		Turn{Sender: SenderUser, Text: text, At: now},
		Turn{Sender: SenderAI, Pending: true, At: now},
	)
	return len(s.turns) - 1
}

// Resolve replaces the placeholder at index with the assistant's reply.
func (s *Session) Resolve(index int, reply gateway.ChatReply) {
	if index < 0 || index >= len(s.turns) || !s.turns[index].Pending {
		return
	}
	s.turns[index] = Turn{
		Sender:  SenderAI,
		Text:    reply.Reply,
		Sources: reply.Sources,
		At:      time.Now(),
	}
}

// Fail replaces the placeholder at index with a locally generated
// apologetic turn. Failures are not retried automatically.
func (s *Session) Fail(index int, lang string) {
	if index < 0 || index >= len(s.turns) || !s.turns[index].Pending {
		return
	}
	s.turns[index] = Turn{
		Sender: SenderAI,
		Text:   i18n.T(lang, "chat_failure"),
		At:     time.Now(),
	}
}

// Turns returns a copy of the transcript in order.
func (s *Session) Turns() []Turn {
	return append([]Turn(nil), s.turns...)
}
