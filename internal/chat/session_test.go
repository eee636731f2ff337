package chat

import (
	"testing"

	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/i18n"
)

func TestConversationIDIsStable(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if s.ID() == "" {
		t.Fatal("expected a conversation id")
	}
	if s.ID() != s.ID() {
		t.Fatal("conversation id must not rotate")
	}
	if NewSession().ID() == s.ID() {
		t.Fatal("sessions should get distinct ids")
	}
}

func TestOpenSeedsGreetingOnce(t *testing.T) {
	t.Parallel()

	s := NewSession()
	if !s.Open("es") {
		t.Fatal("first open should seed the greeting")
	}
	if s.Open("es") {
		t.Fatal("second open must not seed again")
	}

	turns := s.Turns()
	if len(turns) != 1 || turns[0].Sender != SenderAI {
		t.Fatalf("unexpected transcript: %#v", turns)
	}
	if turns[0].Text != i18n.T("es", "greeting") {
		t.Fatalf("greeting not localized: %q", turns[0].Text)
	}
}

func TestSubmitFlowOrdersTurns(t *testing.T) {
	t.Parallel()

	s := NewSession()
	s.Open("en")
	idx := s.AppendUser("What is JWST?")

	turns := s.Turns()
	if len(turns) != 3 {
		t.Fatalf("expected greeting, user turn and placeholder, got %d", len(turns))
	}
	if turns[1].Sender != SenderUser || turns[1].Text != "What is JWST?" {
		t.Fatalf("user turn wrong: %#v", turns[1])
	}
	if !turns[2].Pending {
		t.Fatal("placeholder should be pending")
	}

	s.Resolve(idx, gateway.ChatReply{Reply: "A space telescope.", Sources: []string{"https://nasa.gov"}})
	turns = s.Turns()
	if turns[2].Pending || turns[2].Text != "A space telescope." {
		t.Fatalf("placeholder not replaced: %#v", turns[2])
	}
	if len(turns[2].Sources) != 1 {
		t.Fatalf("sources dropped: %#v", turns[2])
	}
}

func TestFailReplacesPlaceholderLocally(t *testing.T) {
	t.Parallel()

	s := NewSession()
	idx := s.AppendUser("hello")
	s.Fail(idx, "en")

	turns := s.Turns()
	last := turns[len(turns)-1]
	if last.Pending {
		t.Fatal("placeholder should be resolved")
	}
	if last.Text != i18n.T("en", "chat_failure") {
		t.Fatalf("expected localized failure turn, got %q", last.Text)
	}

	// Resolving after failure must not clobber the failure turn.
	s.Resolve(idx, gateway.ChatReply{Reply: "late"})
	turns = s.Turns()
	if turns[len(turns)-1].Text == "late" {
		t.Fatal("late reply should not replace a resolved turn")
	}
}
