package tui

import (
	"time"

	"github.com/dmehta/aionex/internal/detail"
	"github.com/dmehta/aionex/internal/gateway"
)

type stage int

const (
	stageQuery stage = iota
	stageSearching
	stageResults
	stageDetail
	stageDashboard
	stageChat
)

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
)

const heroTagline = "Search, summarize and question research articles."

const (
	searchTimeout = 20 * time.Second
	detailTimeout = 45 * time.Second
	askTimeout    = 30 * time.Second
	chatTimeout   = 60 * time.Second
)

type sortMode int

const (
	sortRelevance sortMode = iota
	sortNewest
	sortOldest
	sortTitle
)

func (m sortMode) label() string {
	switch m {
	case sortNewest:
		return "newest"
	case sortOldest:
		return "oldest"
	case sortTitle:
		return "title"
	default:
		return "relevance"
	}
}

func nextSortMode(m sortMode) sortMode {
	switch m {
	case sortRelevance:
		return sortNewest
	case sortNewest:
		return sortOldest
	case sortOldest:
		return sortTitle
	default:
		return sortRelevance
	}
}

type dashboardTab int

const (
	tabHistory dashboardTab = iota
	tabSaved
)

type qaExchange struct {
	Question string
	Answer   string
	Error    string
	Pending  bool
	AskedAt  time.Time
}

type searchResultMsg struct {
	query   string
	results []gateway.SearchResult
	err     error
}

type detailResultMsg struct {
	token int
	link  string
	view  *detail.View
	err   error
}

type localizeResultMsg struct {
	token int
	view  *detail.View
}

type answerResultMsg struct {
	link   string
	index  int
	answer string
	err    error
}

type chatReplyMsg struct {
	index int
	reply gateway.ChatReply
	err   error
}

type speechDoneMsg struct{}
