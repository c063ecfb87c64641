package tui

import (
	"fmt"
	"strings"
	"time"

	"opsctl/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type layoutInfo struct {
	TopH  int
	FootH int
	MainH int

	ChatW int
	ChatH int

	SideW    int
	TraceH   int
	TicketsH int

	InputH int
	InputW int
}

func (m *MainModel) computeLayout() layoutInfo {
	top := 1
	foot := 1
	inputH := 4
	mainH := m.height - top - foot - inputH
	if mainH < 3 {
		mainH = 3
	}

	showSide := m.width >= 100
	chatW := m.width
	sideW := 0
	if showSide {
		gap := 1
		chatW = int(float64(m.width-gap) * 0.62)
		if chatW < 50 {
			chatW = 50
		}
		sideW = m.width - gap - chatW
		if sideW < 34 {
			sideW = 34
			chatW = m.width - gap - sideW
		}
	}

	traceH := mainH / 2
	ticketsH := mainH - traceH

	return layoutInfo{
		TopH: top, FootH: foot, MainH: mainH,
		ChatW: chatW, ChatH: mainH,
		SideW: sideW, TraceH: traceH, TicketsH: ticketsH,
		InputH: inputH,
		InputW: chatW - 4,
	}
}

func (m *MainModel) View() string {
	switch m.phase {
	case phaseLoading:
		return m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " connecting to OpsCopilot…")
	case phaseLogin:
		return m.form.view(m.theme, m.width, spinnerFrames[m.spinnerPos])
	}

	if !m.ready {
		return "…"
	}
	layout := m.computeLayout()
	top := m.renderTopBar()
	main := m.renderMain(layout)
	input := m.renderInputArea(layout)
	footer := m.renderFooter()
	return lipgloss.JoinVertical(lipgloss.Left, top, main, input, footer)
}

func (m *MainModel) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("opsctl") + " " + m.theme.TopBarBadge.Render("OPSCOPILOT")
	if u := m.app.Session.User(); u != nil {
		left += " " + m.theme.TopBarMeta.Render(u.Email)
	}

	status := "Ready"
	switch {
	case m.sending:
		status = "Thinking…"
	case m.uploadBusy:
		status = "Uploading…"
	case m.ticketsBusy:
		status = "Loading tickets…"
	}
	if m.busy() {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + status)
	} else {
		status = m.theme.TopBarMeta.Render(status)
	}
	right := m.theme.TopBarMeta.Render(time.Now().Format("15:04"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *MainModel) renderFooter() string {
	bindings := []key.Binding{m.keys.FocusNext, m.keys.Send, m.keys.Newline, m.keys.Refresh}
	slash := "/upload <path>  /logout"
	if m.width < 100 {
		bindings = []key.Binding{m.keys.Send, m.keys.Newline}
		slash = "/upload  /logout"
	}
	parts := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	quit := m.keys.Quit.Help()
	parts = append(parts, slash, quit.Key+" "+quit.Desc)
	return m.theme.Footer.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m *MainModel) renderMain(l layoutInfo) string {
	chat := m.renderChatPane(l)
	if l.SideW <= 0 {
		return chat
	}
	side := lipgloss.JoinVertical(lipgloss.Left, m.renderTracePane(l), m.renderTicketsPane(l))
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, " ", side)
}

func (m *MainModel) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	body := m.input.View()
	if m.errLine != "" {
		body += "\n" + m.theme.ErrorLine.Render(truncateRunes(m.errLine, maxInt(10, l.ChatW-4)))
	}
	return box.Width(maxInt(10, l.ChatW-2)).Render(body)
}

func (m *MainModel) renderChatPane(l layoutInfo) string {
	title := "Chat"
	styledTitle := m.theme.PaneTitle.Render(title)
	box := m.theme.Pane
	if m.focus == focusChat {
		styledTitle = m.theme.PaneTitleF.Render(title)
		box = m.theme.PaneFocused
	}
	return box.Width(l.ChatW).Height(l.ChatH).Render(styledTitle + "\n" + m.chatVP.View())
}

// refreshChat rebuilds the chat viewport from the authoritative transcript
// plus any local notices.
func (m *MainModel) refreshChat() {
	if !m.ready {
		return
	}
	width := m.computeLayout().ChatW - 4
	if width < 20 {
		width = 20
	}

	var b strings.Builder
	for _, n := range m.notices {
		style := m.theme.RoleSys
		if n.IsError {
			style = m.theme.ErrorLine
		}
		b.WriteString(style.Width(width).Render(n.Content))
		b.WriteString("\n\n")
	}
	for _, turn := range m.app.Chat.Transcript() {
		b.WriteString(m.renderTurn(turn, width))
		b.WriteString("\n\n")
	}
	m.chatVP.SetContent(strings.TrimRight(b.String(), "\n"))
}

func (m *MainModel) renderTurn(turn app.Turn, width int) string {
	var head string
	switch turn.Role {
	case app.RoleUser:
		head = m.theme.RoleYou.Render("YOU")
	case app.RoleAssistant:
		head = m.theme.RoleAI.Render("OPS")
	default:
		head = m.theme.RoleSys.Render(strings.ToUpper(turn.Role))
	}
	body := lipgloss.NewStyle().Foreground(m.theme.TextPrimary).Width(width).Render(turn.Content)
	return head + "\n" + body
}

func (m *MainModel) renderTracePane(l layoutInfo) string {
	trace := m.app.Chat.Trace()
	title := m.theme.PaneTitle.Render(fmt.Sprintf("Steps this turn (%d)", len(trace)))

	var b strings.Builder
	b.WriteString(title + "\n")
	if len(trace) == 0 {
		b.WriteString(m.theme.TraceNeutral.Render("No steps yet."))
	}
	width := maxInt(12, l.SideW-6)
	lines := 0
	maxLines := maxInt(1, l.TraceH-3)
	for i, step := range trace {
		if lines >= maxLines {
			b.WriteString(m.theme.TraceNeutral.Render("…"))
			break
		}
		line := fmt.Sprintf("%d. ", i+1) + m.theme.TraceNode.Render(step.Node) + " " +
			m.theme.TraceDesc.Render(truncateRunes(oneLine(step.Description), width))
		b.WriteString(line + "\n")
		lines++
		if len(step.DocIDs) > 0 && lines < maxLines {
			b.WriteString(m.theme.TraceDocs.Render(truncateRunes("   docs: "+strings.Join(step.DocIDs, ", "), width)) + "\n")
			lines++
		}
	}
	if m.uploadStatus != "" {
		style := m.theme.StatusLine
		if m.uploadFailed {
			style = m.theme.ErrorLine
		}
		b.WriteString("\n" + style.Render(truncateRunes(m.uploadStatus, width)))
	}
	return m.theme.Pane.Width(l.SideW).Height(l.TraceH).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *MainModel) renderTicketsPane(l layoutInfo) string {
	title := "Tickets"
	styledTitle := m.theme.PaneTitle.Render(title)
	box := m.theme.Pane
	if m.focus == focusTickets {
		styledTitle = m.theme.PaneTitleF.Render(title)
		box = m.theme.PaneFocused
	}

	var b strings.Builder
	b.WriteString(styledTitle + "\n")
	width := maxInt(12, l.SideW-6)
	switch {
	case m.ticketsErr != "":
		b.WriteString(m.theme.ErrorLine.Render(m.ticketsErr))
	case m.ticketsBusy && len(m.tickets) == 0:
		b.WriteString(m.theme.TraceNeutral.Render("Loading tickets…"))
	case len(m.tickets) == 0:
		b.WriteString(m.theme.TraceNeutral.Render("No tickets yet. Ask OpsCopilot to create one."))
	default:
		maxLines := maxInt(1, l.TicketsH-3)
		lines := 0
		for i := m.ticketOff; i < len(m.tickets); i++ {
			if lines+2 > maxLines {
				b.WriteString(m.theme.TraceNeutral.Render("…"))
				break
			}
			t := m.tickets[i]
			head := m.theme.TicketTitle.Render(truncateRunes(fmt.Sprintf("#%d %s", t.ID, t.Title), width))
			meta := m.renderTicketStatus(t.Status) + " " + m.renderTicketSeverity(t.Severity) + " " +
				m.theme.TraceNeutral.Render(truncateRunes(oneLine(t.Description), maxInt(4, width-14)))
			b.WriteString(head + "\n" + meta + "\n")
			lines += 2
		}
	}
	return box.Width(l.SideW).Height(l.TicketsH).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *MainModel) renderTicketStatus(status string) string {
	if strings.EqualFold(status, "open") {
		return m.theme.TicketOpen.Render(status)
	}
	return m.theme.TicketClosed.Render(status)
}

func (m *MainModel) renderTicketSeverity(sev string) string {
	switch strings.ToLower(sev) {
	case "high", "critical":
		return m.theme.SevHigh.Render(sev)
	case "medium":
		return m.theme.SevMedium.Render(sev)
	default:
		return m.theme.SevLow.Render(sev)
	}
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(r[:maxRunes])
	}
	return string(r[:maxRunes-1]) + "…"
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}
