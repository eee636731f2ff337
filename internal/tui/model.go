// Package tui is the terminal front end: search, result list, article
// detail with reputation and translation overlays, the local dashboard,
// and the chat panel.
package tui

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dmehta/aionex/internal/chat"
	"github.com/dmehta/aionex/internal/detail"
	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/i18n"
	"github.com/dmehta/aionex/internal/logging"
	"github.com/dmehta/aionex/internal/speech"
	"github.com/dmehta/aionex/internal/store"
)

// Config wires runtime collaborators into the TUI program.
type Config struct {
	Backend         Backend
	Store           *store.Store
	Speaker         *speech.Speaker
	DefaultLanguage string
	// Language overrides the persisted language when set.
	Language string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	queryInput := textinput.New()
	queryInput.Placeholder = "Search research articles…"
	queryInput.Focus()
	queryInput.CharLimit = 200
	queryInput.Width = 60

	questionInput := textinput.New()
	questionInput.CharLimit = 200
	questionInput.Width = 60

	chatInput := textinput.New()
	chatInput.Placeholder = "Message the assistant…"
	chatInput.CharLimit = 400
	chatInput.Width = 60

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	lang := config.Language
	if !i18n.Valid(lang) && config.Store != nil {
		lang = config.Store.Language()
	}
	if !i18n.Valid(lang) {
		lang = config.DefaultLanguage
	}
	if !i18n.Valid(lang) {
		lang = i18n.Default
	}

	speaker := config.Speaker
	if speaker == nil {
		speaker = speech.New(nil)
	}

	return &model{
		config:        config,
		coord:         detail.New(config.Backend, config.DefaultLanguage),
		session:       chat.NewSession(),
		speaker:       speaker,
		lang:          lang,
		stage:         stageQuery,
		queryInput:    queryInput,
		questionInput: questionInput,
		chatInput:     chatInput,
		spinner:       spin,
		viewport:      vp,
		disabled:      map[string]bool{},
		viewportDirty: true,
		infoMessage:   "Type a query and press Enter.",
	}
}

type model struct {
	config  Config
	coord   *detail.Coordinator
	session *chat.Session
	speaker *speech.Speaker
	lang    string

	queryInput    textinput.Model
	questionInput textinput.Model
	chatInput     textinput.Model
	spinner       spinner.Model
	viewport      viewport.Model

	stage     stage
	prevStage stage

	searchQuery string
	results     []gateway.SearchResult
	sorted      []gateway.SearchResult
	sortMode    sortMode
	cursor      int
	disabled    map[string]bool

	navToken      int
	view          *detail.View
	detailLoading bool
	qaHistory     []qaExchange
	asking        bool

	dashTab    dashboardTab
	dashCursor int

	chatPending bool
	speaking    bool

	viewportDirty bool
	infoMessage   string
	errorMessage  string
	width         int
	height        int
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.stage == stageSearching || m.detailLoading || m.chatPending || m.questionPending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.markViewportDirty()
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageDetail || m.stage == stageChat {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		newWidth := msg.Width - viewportHorizontalPadding
		if newWidth < minViewportWidth {
			newWidth = minViewportWidth
		}
		m.viewport.Width = newWidth
		height := msg.Height - 8
		if height < 5 {
			height = 5
		}
		m.viewport.Height = height
		m.markViewportDirty()
		return m, nil
	case searchResultMsg:
		return m.applySearchResult(msg)
	case detailResultMsg:
		return m.applyDetailResult(msg)
	case localizeResultMsg:
		if msg.token != m.navToken || m.view == nil {
			return m, nil
		}
		m.view = msg.view
		m.detailLoading = false
		m.markViewportDirty()
		m.infoMessage = "Language: " + i18n.Label(m.lang)
		return m, nil
	case answerResultMsg:
		return m.applyAnswerResult(msg)
	case chatReplyMsg:
		m.chatPending = false
		if msg.err != nil {
			logging.Warn("chat request failed", "err", msg.err)
			m.session.Fail(msg.index, m.lang)
		} else {
			m.session.Resolve(msg.index, msg.reply)
		}
		m.markViewportDirty()
		return m, nil
	case speechDoneMsg:
		m.speaking = false
		return m, nil
	}
	return m, nil
}

func (m *model) questionPending() bool {
	for _, exchange := range m.qaHistory {
		if exchange.Pending {
			return true
		}
	}
	return false
}

func (m *model) applySearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.searchQuery || m.stage != stageSearching {
		return m, nil
	}
	if msg.err != nil {
		m.stage = stageQuery
		m.errorMessage = presentError(msg.err)
		m.infoMessage = "Try the search again."
		m.queryInput.Focus()
		return m, nil
	}
	m.results = msg.results
	m.sortMode = sortRelevance
	m.sorted = sortResults(m.results, m.sortMode)
	m.cursor = 0
	m.stage = stageResults
	m.errorMessage = ""
	if len(m.results) == 0 {
		m.infoMessage = i18n.T(m.lang, "empty_results")
	} else {
		m.infoMessage = "Enter opens an article. o cycles sorting."
	}
	return m, nil
}

func (m *model) applyDetailResult(msg detailResultMsg) (tea.Model, tea.Cmd) {
	if msg.token != m.navToken {
		logging.Debug("dropping stale detail response", "link", msg.link)
		return m, nil
	}
	m.detailLoading = false
	if msg.err != nil {
		m.stage = stageResults
		if errors.Is(msg.err, gateway.ErrNoAbstract) {
			m.disabled[msg.link] = true
			m.errorMessage = i18n.T(m.lang, "no_abstract")
		} else {
			m.errorMessage = presentError(msg.err)
		}
		return m, nil
	}
	m.view = msg.view
	m.qaHistory = nil
	m.asking = false
	m.errorMessage = ""
	m.infoMessage = "v saves the article, a asks a question, L cycles language."
	m.viewport.SetYOffset(0)
	m.markViewportDirty()
	return m, nil
}

func (m *model) applyAnswerResult(msg answerResultMsg) (tea.Model, tea.Cmd) {
	if m.view == nil || m.view.Article.Link != msg.link {
		return m, nil
	}
	if msg.index < 0 || msg.index >= len(m.qaHistory) {
		return m, nil
	}
	entry := &m.qaHistory[msg.index]
	entry.Pending = false
	if msg.err != nil {
		entry.Error = presentError(msg.err)
		m.infoMessage = "Question failed. Press a to retry."
	} else {
		answer := msg.answer
		if answer == "" {
			answer = i18n.T(m.lang, "answer_missing")
		}
		entry.Answer = answer
		m.infoMessage = "Answer ready. Ask another with a."
	}
	m.markViewportDirty()
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageQuery:
		return m.handleQueryKey(key)
	case stageSearching:
		return m, nil
	case stageResults:
		return m.handleResultsKey(key)
	case stageDetail:
		return m.handleDetailKey(key)
	case stageDashboard:
		return m.handleDashboardKey(key)
	case stageChat:
		return m.handleChatKey(key)
	default:
		return m, nil
	}
}

func (m *model) handleQueryKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		if len(m.results) > 0 {
			m.stage = stageResults
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyEnter:
		query := strings.TrimSpace(m.queryInput.Value())
		if query == "" {
			m.errorMessage = "Enter a query first."
			return m, nil
		}
		return m, m.startSearch(query)
	}
	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(key)
	return m, cmd
}

// startSearch replaces the cached result set wholesale once the response
// arrives and records the query in history immediately.
func (m *model) startSearch(query string) tea.Cmd {
	m.searchQuery = query
	m.stage = stageSearching
	m.errorMessage = ""
	m.infoMessage = i18n.T(m.lang, "searching")
	m.view = nil
	m.qaHistory = nil
	m.navToken++
	if m.config.Store != nil {
		m.config.Store.AddHistory(query)
	}
	return tea.Batch(m.spinner.Tick, searchCmd(m.config.Backend, query))
}

func (m *model) handleResultsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.sorted)-1 {
			m.cursor++
		}
	case "enter":
		return m.openSelectedResult()
	case "o":
		if len(m.sorted) > 0 {
			m.sortMode = nextSortMode(m.sortMode)
			m.sorted = sortResults(m.results, m.sortMode)
			m.cursor = 0
			m.infoMessage = "Sorted by " + m.sortMode.label() + "."
		}
	case "n", "/":
		m.stage = stageQuery
		m.queryInput.SetValue("")
		m.queryInput.Focus()
		m.errorMessage = ""
		m.infoMessage = "Type a query and press Enter."
	case "d":
		m.openDashboard(stageResults)
	case "c":
		return m.openChat(stageResults)
	case "L":
		m.cycleLanguage()
	case "esc", "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m *model) openSelectedResult() (tea.Model, tea.Cmd) {
	if m.cursor < 0 || m.cursor >= len(m.sorted) {
		return m, nil
	}
	result := m.sorted[m.cursor]
	if m.disabled[result.Link] {
		m.infoMessage = i18n.T(m.lang, "no_abstract")
		return m, nil
	}
	return m, m.openDetail(result.Link)
}

// openDetail mints a fresh navigation token; responses carrying an older
// token are dropped at apply time.
func (m *model) openDetail(link string) tea.Cmd {
	m.navToken++
	m.stage = stageDetail
	m.detailLoading = true
	m.view = nil
	m.qaHistory = nil
	m.asking = false
	m.errorMessage = ""
	m.infoMessage = i18n.T(m.lang, "loading_detail")
	m.markViewportDirty()
	return tea.Batch(m.spinner.Tick, loadDetailCmd(m.coord, m.navToken, link, m.lang))
}

func (m *model) handleDetailKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.asking {
		switch key.Type {
		case tea.KeyEsc:
			m.asking = false
			m.questionInput.Blur()
			m.questionInput.SetValue("")
			return m, nil
		case tea.KeyEnter:
			return m.submitQuestion()
		}
		var cmd tea.Cmd
		m.questionInput, cmd = m.questionInput.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "b", "esc":
		m.closeDetail()
		return m, nil
	case "v":
		m.toggleSaved()
	case "a":
		if m.view != nil {
			m.asking = true
			m.questionInput.Placeholder = i18n.T(m.lang, "ask_placeholder")
			m.questionInput.SetValue("")
			m.questionInput.Focus()
			return m, textinput.Blink
		}
	case "t":
		return m.toggleSpeech()
	case "L":
		return m.cycleLanguageInDetail()
	case "c":
		return m.openChat(stageDetail)
	case "d":
		m.openDashboard(stageDetail)
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return m, cmd
	}
	return m, nil
}

// closeDetail discards the current article wholesale; the next navigation
// starts from a clean slate and stale responses are invalidated.
func (m *model) closeDetail() {
	m.navToken++
	m.view = nil
	m.qaHistory = nil
	m.asking = false
	m.detailLoading = false
	m.stage = stageResults
	m.errorMessage = ""
	m.infoMessage = "Back to results."
}

func (m *model) toggleSaved() {
	if m.view == nil || m.config.Store == nil {
		return
	}
	link := m.view.Article.Link
	if m.config.Store.IsSaved(link) {
		m.config.Store.RemoveSaved(link)
		m.infoMessage = "Removed from saved articles."
	} else {
		m.config.Store.AddSaved(store.Article{Link: link, Title: m.view.Article.Title})
		m.infoMessage = "Article saved."
	}
	m.markViewportDirty()
}

func (m *model) submitQuestion() (tea.Model, tea.Cmd) {
	question := strings.TrimSpace(m.questionInput.Value())
	m.questionInput.SetValue("")
	m.asking = false
	m.questionInput.Blur()
	if question == "" || m.view == nil {
		return m, nil
	}
	m.qaHistory = append(m.qaHistory, qaExchange{
		Question: question,
		Pending:  true,
		AskedAt:  time.Now(),
	})
	m.markViewportDirty()
	index := len(m.qaHistory) - 1
	return m, tea.Batch(m.spinner.Tick, askCmd(m.coord, m.view, index, question))
}

func (m *model) toggleSpeech() (tea.Model, tea.Cmd) {
	if m.view == nil {
		return m, nil
	}
	if m.speaking {
		m.speaker.Cancel()
		m.infoMessage = "Speech canceled."
		return m, nil
	}
	if !m.speaker.Available() {
		m.infoMessage = "No text-to-speech command found on this system."
		return m, nil
	}
	text := m.view.Display.Summary
	if strings.TrimSpace(text) == "" {
		text = m.view.Display.Abstract
	}
	m.speaking = true
	m.infoMessage = "Speaking summary. Press t to stop."
	return m, speakCmd(m.speaker, text, m.lang)
}

func (m *model) cycleLanguage() {
	m.lang = i18n.Next(m.lang)
	if m.config.Store != nil {
		m.config.Store.SetLanguage(m.lang)
	}
	m.infoMessage = "Language: " + i18n.Label(m.lang)
	m.markViewportDirty()
}

// cycleLanguageInDetail re-derives the translation overlay from the
// stored original article under a fresh navigation token.
func (m *model) cycleLanguageInDetail() (tea.Model, tea.Cmd) {
	m.cycleLanguage()
	if m.view == nil {
		return m, nil
	}
	m.navToken++
	m.detailLoading = true
	return m, tea.Batch(m.spinner.Tick, localizeCmd(m.coord, m.navToken, m.view, m.lang))
}

func (m *model) openDashboard(from stage) {
	m.prevStage = from
	m.stage = stageDashboard
	m.dashTab = tabHistory
	m.dashCursor = 0
	m.errorMessage = ""
	m.infoMessage = "Tab switches lists, x removes, Enter re-runs or opens."
}

func (m *model) handleDashboardKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	history := m.storeHistory()
	saved := m.storeSaved()
	entries := len(history)
	if m.dashTab == tabSaved {
		entries = len(saved)
	}

	switch key.String() {
	case "tab":
		if m.dashTab == tabHistory {
			m.dashTab = tabSaved
		} else {
			m.dashTab = tabHistory
		}
		m.dashCursor = 0
	case "up", "k":
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case "down", "j":
		if m.dashCursor < entries-1 {
			m.dashCursor++
		}
	case "x":
		if m.config.Store == nil || entries == 0 {
			return m, nil
		}
		if m.dashTab == tabHistory {
			m.config.Store.RemoveHistory(history[m.dashCursor])
		} else {
			m.config.Store.RemoveSaved(saved[m.dashCursor].Link)
		}
		if m.dashCursor > 0 {
			m.dashCursor--
		}
	case "enter":
		if entries == 0 {
			return m, nil
		}
		if m.dashTab == tabHistory {
			return m, m.startSearch(history[m.dashCursor])
		}
		return m, m.openDetail(saved[m.dashCursor].Link)
	case "esc", "d":
		m.stage = m.prevStage
	}
	return m, nil
}

func (m *model) storeHistory() []string {
	if m.config.Store == nil {
		return nil
	}
	return m.config.Store.History()
}

func (m *model) storeSaved() []store.Article {
	if m.config.Store == nil {
		return nil
	}
	return m.config.Store.Saved()
}

// openChat seeds the localized greeting on first open; the greeting is
// local only and never sent to the backend.
func (m *model) openChat(from stage) (tea.Model, tea.Cmd) {
	m.prevStage = from
	m.stage = stageChat
	m.session.Open(m.lang)
	m.chatInput.Focus()
	m.errorMessage = ""
	m.infoMessage = "Enter sends, Esc returns, t reads the last reply aloud."
	m.markViewportDirty()
	return m, textinput.Blink
}

func (m *model) handleChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.chatInput.Blur()
		m.stage = m.prevStage
		m.markViewportDirty()
		return m, nil
	case tea.KeyEnter:
		message := strings.TrimSpace(m.chatInput.Value())
		if message == "" {
			return m, nil
		}
		if m.chatPending {
			m.infoMessage = "Waiting for the assistant…"
			return m, nil
		}
		m.chatInput.SetValue("")
		index := m.session.AppendUser(message)
		m.chatPending = true
		m.markViewportDirty()
		return m, tea.Batch(m.spinner.Tick, chatCmd(m.config.Backend, m.session.ID(), index, message))
	}
	if key.String() == "ctrl+t" {
		return m.speakLastReply()
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(key)
	m.markViewportDirty()
	return m, cmd
}

func (m *model) speakLastReply() (tea.Model, tea.Cmd) {
	if m.speaking {
		m.speaker.Cancel()
		return m, nil
	}
	turns := m.session.Turns()
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		if turn.Sender == chat.SenderAI && !turn.Pending && turn.Text != "" {
			if !m.speaker.Available() {
				m.infoMessage = "No text-to-speech command found on this system."
				return m, nil
			}
			m.speaking = true
			return m, speakCmd(m.speaker, turn.Text, m.lang)
		}
	}
	return m, nil
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

// presentError favors the backend's human-readable message over Go error
// chains when one is available.
func presentError(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
