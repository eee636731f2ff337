package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/dmehta/aionex/internal/chat"
	"github.com/dmehta/aionex/internal/gateway"
	"github.com/dmehta/aionex/internal/i18n"
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Underline(true)
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	taglineStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("147")).Italic(true)
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	savedBadgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)
	positiveStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")).Bold(true)
	negativeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#bf616a")).Bold(true)
	neutralStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Bold(true)
	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	tabActiveStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	tabInactiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	chatUserStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	chatAIStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
)

func (m *model) View() string {
	switch m.stage {
	case stageQuery:
		return m.viewQuery()
	case stageSearching:
		return m.viewSearching()
	case stageResults:
		return m.viewResults()
	case stageDetail:
		return m.viewDetail()
	case stageDashboard:
		return m.viewDashboard()
	case stageChat:
		return m.viewChat()
	default:
		return ""
	}
}

func (m *model) heroView() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("AIONEX"),
		taglineStyle.Render(heroTagline),
	)
}

func (m *model) statusBar() string {
	parts := []string{
		fmt.Sprintf("Lang %s", i18n.Label(m.lang)),
	}
	if m.searchQuery != "" {
		parts = append(parts, fmt.Sprintf("Query %q", m.searchQuery))
	}
	if len(m.results) > 0 {
		parts = append(parts, fmt.Sprintf("Results %d", len(m.results)))
	}
	if m.config.Store != nil {
		parts = append(parts, fmt.Sprintf("Saved %d", len(m.config.Store.Saved())))
		if !m.config.Store.Persistent() {
			parts = append(parts, "memory only")
		}
	}
	if m.speaking {
		parts = append(parts, "Speaking…")
	}
	return statusBarStyle.Render(strings.Join(parts, "  •  "))
}

func (m *model) messagesView() string {
	var parts []string
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	return joinNonEmpty(parts)
}

func (m *model) viewQuery() string {
	body := joinNonEmpty([]string{
		sectionHeaderStyle.Render("Search"),
		m.queryInput.View(),
		helperStyle.Render("Enter searches • Esc quits"),
	})
	return joinNonEmpty([]string{m.heroView(), body, m.messagesView(), m.statusBar()})
}

func (m *model) viewSearching() string {
	body := fmt.Sprintf("%s %s", m.spinner.View(), i18n.T(m.lang, "searching"))
	return joinNonEmpty([]string{m.heroView(), body, m.statusBar()})
}

func (m *model) viewResults() string {
	var b strings.Builder
	b.WriteString(sectionHeaderStyle.Render(fmt.Sprintf("Results for %q", m.searchQuery)))
	b.WriteRune('\n')
	if len(m.sorted) == 0 {
		b.WriteString(helperStyle.Render(i18n.T(m.lang, "empty_results")))
		b.WriteRune('\n')
		return joinNonEmpty([]string{m.heroView(), b.String(), m.messagesView(), m.statusBar()})
	}
	b.WriteString(helperStyle.Render("Sort: " + m.sortMode.label()))
	b.WriteRune('\n')
	b.WriteRune('\n')
	wrap := m.wrapWidth(6)
	for idx, result := range m.sorted {
		line := wordwrap.String(result.Title, wrap)
		meta := []string{}
		if result.Date != "" {
			meta = append(meta, result.Date)
		}
		if m.disabled[result.Link] {
			meta = append(meta, "no abstract")
		}
		if m.config.Store != nil && m.config.Store.IsSaved(result.Link) {
			meta = append(meta, savedBadgeStyle.Render(i18n.T(m.lang, "saved")))
		}
		if idx == m.cursor {
			b.WriteString(currentLineStyle.Render("▸ " + firstLine(line)))
			for _, rest := range restLines(line) {
				b.WriteRune('\n')
				b.WriteString(currentLineStyle.Render("  " + rest))
			}
		} else {
			b.WriteString("  " + indentContinuation(line, "  "))
		}
		b.WriteRune('\n')
		if len(meta) > 0 {
			b.WriteString(helperStyle.Render("    " + strings.Join(meta, " • ")))
			b.WriteRune('\n')
		}
	}
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("↑/↓ move • Enter open • o sort • n new search • d dashboard • c chat • L language • q quit"))
	return joinNonEmpty([]string{m.heroView(), b.String(), m.messagesView(), m.statusBar()})
}

func (m *model) viewDetail() string {
	if m.detailLoading || m.view == nil {
		body := fmt.Sprintf("%s %s", m.spinner.View(), i18n.T(m.lang, "loading_detail"))
		return joinNonEmpty([]string{m.heroView(), body, m.messagesView(), m.statusBar()})
	}
	m.refreshViewportIfDirty()
	var footer string
	if m.asking {
		footer = joinNonEmpty([]string{
			sectionHeaderStyle.Render(i18n.T(m.lang, "ask_placeholder")),
			m.questionInput.View(),
			helperStyle.Render("Enter asks • Esc cancels"),
		})
	} else {
		footer = helperStyle.Render("b back • v save • a ask • t speak • L language • c chat • d dashboard")
	}
	return joinNonEmpty([]string{m.heroView(), m.viewport.View(), footer, m.messagesView(), m.statusBar()})
}

// refreshViewportIfDirty rebuilds the detail or chat body only when state
// changed since the last render; scroll position survives untouched.
func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	switch m.stage {
	case stageDetail:
		if m.view != nil {
			m.viewport.SetContent(m.buildDetailContent())
		}
	case stageChat:
		m.viewport.SetContent(m.buildChatContent())
		m.viewport.GotoBottom()
	}
}

func (m *model) buildDetailContent() string {
	v := m.view
	wrap := m.wrapWidth(2)
	var b strings.Builder

	b.WriteString(titleStyle.Render(wordwrap.String(v.Display.Title, wrap)))
	b.WriteRune('\n')
	meta := []string{v.Article.Link}
	if id := gateway.ArticleID(v.Article.Link); id != "" {
		meta = append(meta, "PMID "+id)
	}
	if m.config.Store != nil && m.config.Store.IsSaved(v.Article.Link) {
		meta = append(meta, savedBadgeStyle.Render(i18n.T(m.lang, "saved")))
	}
	b.WriteString(helperStyle.Render(strings.Join(meta, "  •  ")))
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(sectionHeaderStyle.Render(i18n.T(m.lang, "sentiment")))
	b.WriteRune('\n')
	b.WriteString(sentimentBadge(v.Article.Sentiment))
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(sectionHeaderStyle.Render(i18n.T(m.lang, "summary")))
	b.WriteRune('\n')
	b.WriteString(wordwrap.String(v.Display.Summary, wrap))
	b.WriteRune('\n')
	b.WriteRune('\n')

	b.WriteString(sectionHeaderStyle.Render(i18n.T(m.lang, "abstract")))
	b.WriteRune('\n')
	b.WriteString(wordwrap.String(v.Display.Abstract, wrap))
	b.WriteRune('\n')

	b.WriteRune('\n')
	b.WriteString(sectionHeaderStyle.Render(i18n.T(m.lang, "reputation")))
	b.WriteRune('\n')
	if v.Reputation == nil {
		b.WriteString(helperStyle.Render("Reputation data is unavailable for this article."))
		b.WriteRune('\n')
	} else {
		names := make([]string, 0, len(v.Reputation.Components))
		for name := range v.Reputation.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			score := v.Reputation.Components[name]
			b.WriteString(fmt.Sprintf("  %-16s %s %d", name, scoreBar(score), score))
			b.WriteRune('\n')
		}
	}

	if len(m.qaHistory) > 0 {
		b.WriteRune('\n')
		b.WriteString(sectionHeaderStyle.Render("Questions"))
		b.WriteRune('\n')
		for _, exchange := range m.qaHistory {
			b.WriteString(chatUserStyle.Render("You"))
			b.WriteRune('\n')
			b.WriteString(indentMultiline(wordwrap.String(exchange.Question, wrap-2), "  "))
			b.WriteRune('\n')
			b.WriteString(chatAIStyle.Render("AIONEX"))
			b.WriteRune('\n')
			switch {
			case exchange.Pending:
				b.WriteString(helperStyle.Render("  " + m.spinner.View() + " Thinking…"))
			case exchange.Error != "":
				b.WriteString(errorStyle.Render(indentMultiline(wordwrap.String(exchange.Error, wrap-2), "  ")))
			default:
				b.WriteString(indentMultiline(wordwrap.String(exchange.Answer, wrap-2), "  "))
			}
			b.WriteRune('\n')
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func (m *model) viewDashboard() string {
	historyTab := tabInactiveStyle.Render(i18n.T(m.lang, "history_title"))
	savedTab := tabInactiveStyle.Render(i18n.T(m.lang, "saved_title"))
	if m.dashTab == tabHistory {
		historyTab = tabActiveStyle.Render(i18n.T(m.lang, "history_title"))
	} else {
		savedTab = tabActiveStyle.Render(i18n.T(m.lang, "saved_title"))
	}
	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, historyTab, " ", savedTab))
	b.WriteRune('\n')
	b.WriteRune('\n')

	if m.dashTab == tabHistory {
		history := m.storeHistory()
		if len(history) == 0 {
			b.WriteString(helperStyle.Render("No searches yet."))
			b.WriteRune('\n')
		}
		for idx, query := range history {
			line := query
			if idx == m.dashCursor {
				b.WriteString(currentLineStyle.Render("▸ " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteRune('\n')
		}
	} else {
		saved := m.storeSaved()
		if len(saved) == 0 {
			b.WriteString(helperStyle.Render("No saved articles yet."))
			b.WriteRune('\n')
		}
		wrap := m.wrapWidth(6)
		for idx, article := range saved {
			line := firstLine(wordwrap.String(article.Title, wrap))
			if idx == m.dashCursor {
				b.WriteString(currentLineStyle.Render("▸ " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteRune('\n')
			b.WriteString(helperStyle.Render("    " + article.Link))
			b.WriteRune('\n')
		}
	}
	b.WriteRune('\n')
	b.WriteString(helperStyle.Render("Tab switch • ↑/↓ move • Enter open • x remove • Esc back"))
	return joinNonEmpty([]string{m.heroView(), b.String(), m.messagesView(), m.statusBar()})
}

func (m *model) viewChat() string {
	m.refreshViewportIfDirty()
	composer := joinNonEmpty([]string{
		m.chatInput.View(),
		helperStyle.Render("Enter sends • Ctrl+T speaks last reply • Esc back"),
	})
	return joinNonEmpty([]string{m.heroView(), m.viewport.View(), composer, m.messagesView(), m.statusBar()})
}

func (m *model) buildChatContent() string {
	wrap := m.wrapWidth(4)
	var b strings.Builder
	for _, turn := range m.session.Turns() {
		switch turn.Sender {
		case chat.SenderUser:
			b.WriteString(chatUserStyle.Render("You"))
		default:
			b.WriteString(chatAIStyle.Render("AIONEX"))
		}
		b.WriteRune('\n')
		if turn.Pending {
			b.WriteString(helperStyle.Render("  " + m.spinner.View() + " …"))
		} else {
			b.WriteString(indentMultiline(wordwrap.String(turn.Text, wrap), "  "))
			if len(turn.Sources) > 0 {
				b.WriteRune('\n')
				b.WriteString(helperStyle.Render("  Sources: " + strings.Join(turn.Sources, ", ")))
			}
		}
		b.WriteRune('\n')
		b.WriteRune('\n')
	}
	if b.Len() == 0 {
		return helperStyle.Render("Say hello to start the conversation.")
	}
	return b.String()
}

func sentimentBadge(sentiment string) string {
	switch sentiment {
	case gateway.SentimentPositive:
		return positiveStyle.Render("POSITIVE")
	case gateway.SentimentNegative:
		return negativeStyle.Render("NEGATIVE")
	default:
		return neutralStyle.Render("UNKNOWN")
	}
}

// scoreBar draws a ten-cell meter for a 0-100 reputation component.
func scoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	filled := score / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func restLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return nil
	}
	return lines[1:]
}

func indentContinuation(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
