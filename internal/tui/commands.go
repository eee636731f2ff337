package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmehta/aionex/internal/detail"
	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/speech"
)

// Backend is the slice of the gateway client the TUI consumes. The
// detail coordinator shares its subset so one fake serves every test.
type Backend interface {
	detail.Gateway
	Search(ctx context.Context, query string) ([]gateway.SearchResult, error)
	Chat(ctx context.Context, message, conversationID string) (gateway.ChatReply, error)
}

func searchCmd(backend Backend, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
		defer cancel()
		results, err := backend.Search(ctx, query)
		return searchResultMsg{query: query, results: results, err: err}
	}
}

func loadDetailCmd(coord *detail.Coordinator, token int, link, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailTimeout)
		defer cancel()
		view, err := coord.Load(ctx, link, lang)
		return detailResultMsg{token: token, link: link, view: view, err: err}
	}
}

func localizeCmd(coord *detail.Coordinator, token int, view *detail.View, lang string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), detailTimeout)
		defer cancel()
		return localizeResultMsg{token: token, view: coord.Localize(ctx, view, lang)}
	}
}

func askCmd(coord *detail.Coordinator, view *detail.View, index int, question string) tea.Cmd {
	link := view.Article.Link
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
		defer cancel()
		answer, err := coord.Ask(ctx, view, question)
		return answerResultMsg{link: link, index: index, answer: answer, err: err}
	}
}

func chatCmd(backend Backend, conversationID string, index int, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		reply, err := backend.Chat(ctx, message, conversationID)
		return chatReplyMsg{index: index, reply: reply, err: err}
	}
}

// speakCmd starts an utterance and blocks its command goroutine until the
// speaker's observer fires, so cancellation from a later keypress still
// resolves this command with a speechDoneMsg.
func speakCmd(speaker *speech.Speaker, text, lang string) tea.Cmd {
	return func() tea.Msg {
		done := make(chan struct{})
		speaker.Start(text, lang, func() { close(done) })
		<-done
		return speechDoneMsg{}
	}
}
