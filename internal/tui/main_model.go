package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"opsctl/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type phase int

const (
	phaseLoading phase = iota
	phaseLogin
	phaseDashboard
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
	focusTickets
)

// systemLine is a local notice rendered inline with the transcript (welcome
// text, command feedback). It is never sent to the backend.
type systemLine struct {
	ID      string
	Content string
	IsError bool
}

type initDoneMsg struct{}

type authResultMsg struct {
	seq int
	err error
}

type sendResultMsg struct {
	seq int
	err error
}

type ticketsMsg struct {
	seq     int
	tickets []app.Ticket
	err     error
}

type uploadResultMsg struct {
	seq int
	res app.UploadResult
	err error
}

type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type MainModel struct {
	app   *app.Application
	theme Theme
	keys  keyMap

	phase phase
	form  loginForm

	width  int
	height int
	ready  bool
	focus  focusArea

	input  textarea.Model
	chatVP viewport.Model

	notices []systemLine

	sending bool
	errLine string

	tickets     []app.Ticket
	ticketsBusy bool
	ticketsErr  string
	ticketOff   int

	uploadBusy   bool
	uploadStatus string
	uploadFailed bool

	spinnerPos int

	// seq invalidates completion messages from a previous session so a late
	// response cannot touch state it no longer owns.
	seq int
}

func New(application *app.Application) *MainModel {
	keys := defaultKeyMap()

	ta := textarea.New()
	ta.Placeholder = "Ask OpsCopilot… (enter sends, alt+enter for a new line)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(2)
	ta.Prompt = " "
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	// Enter is reserved for sending; alt+enter inserts the literal newline.
	ta.KeyMap.InsertNewline = keys.Newline

	return &MainModel{
		app:    application,
		theme:  NewTheme(application.Config.Theme),
		keys:   keys,
		phase:  phaseLoading,
		form:   newLoginForm(),
		width:  100,
		height: 30,
		focus:  focusInput,
		input:  ta,
	}
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initSession(), m.spinTick())
}

func (m *MainModel) initSession() tea.Cmd {
	session := m.app.Session
	return func() tea.Msg {
		session.Initialize(context.Background())
		return initDoneMsg{}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		layout := m.computeLayout()
		if !m.ready {
			m.chatVP = viewport.New(layout.ChatW, layout.ChatH)
			m.chatVP.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.chatVP.Width = layout.ChatW
			m.chatVP.Height = layout.ChatH
		}
		m.input.SetWidth(maxInt(10, layout.InputW))
		m.form.email.Width = minInt(48, maxInt(20, m.width-20))
		m.form.password.Width = m.form.email.Width
		m.refreshChat()
		return m, nil

	case initDoneMsg:
		if m.app.Session.State() == app.StateAuthenticated {
			return m, m.enterDashboard()
		}
		m.phase = phaseLogin
		return m, nil

	case authResultMsg:
		if msg.seq != m.seq || m.phase != phaseLogin {
			return m, nil
		}
		m.form.busy = false
		if msg.err != nil {
			m.form.errMsg = authErrorText(msg.err)
			return m, nil
		}
		return m, m.enterDashboard()

	case sendResultMsg:
		if msg.seq != m.seq || m.phase != phaseDashboard {
			return m, nil
		}
		m.sending = false
		if msg.err != nil {
			// Input is kept so the user can retry without retyping.
			m.errLine = m.app.Chat.LastError()
			if m.errLine == "" {
				m.errLine = app.SendFailedMessage
			}
			return m, nil
		}
		m.errLine = ""
		m.input.Reset()
		m.refreshChat()
		m.chatVP.GotoBottom()
		return m, nil

	case ticketsMsg:
		if msg.seq != m.seq || m.phase != phaseDashboard {
			return m, nil
		}
		m.ticketsBusy = false
		if msg.err != nil {
			m.ticketsErr = "Failed to load tickets."
			return m, nil
		}
		m.ticketsErr = ""
		m.tickets = msg.tickets
		m.ticketOff = 0
		return m, nil

	case uploadResultMsg:
		if msg.seq != m.seq || m.phase != phaseDashboard {
			return m, nil
		}
		m.uploadBusy = false
		if msg.err != nil {
			m.uploadFailed = true
			m.uploadStatus = uploadErrorText(msg.err)
			return m, nil
		}
		m.uploadFailed = false
		m.uploadStatus = fmt.Sprintf("Uploaded: document_id=%d, chunks=%d", msg.res.DocumentID, msg.res.Chunks)
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.busy() {
			return m, m.spinTick()
		}
		return m, nil

	case tea.KeyMsg:
		switch m.phase {
		case phaseLogin:
			return m.updateLogin(msg)
		case phaseDashboard:
			return m.updateDashboard(msg)
		default:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
	}

	switch m.phase {
	case phaseDashboard:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case phaseLogin:
		var cmd tea.Cmd
		if m.form.field == fieldEmail {
			m.form.email, cmd = m.form.email.Update(msg)
		} else {
			m.form.password, cmd = m.form.password.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m *MainModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case msg.String() == "tab" || msg.String() == "shift+tab":
		m.form.nextField()
		return m, nil

	case msg.String() == "ctrl+n":
		m.form.toggleMode()
		return m, nil

	case msg.Type == tea.KeyEnter:
		if m.form.busy {
			return m, nil
		}
		email, password := m.form.values()
		if email == "" || password == "" {
			m.form.errMsg = "Email and password are required."
			return m, nil
		}
		m.form.errMsg = ""
		m.form.busy = true
		return m, tea.Batch(m.authCmd(email, password, m.form.register), m.spinTick())
	}

	var cmd tea.Cmd
	if m.form.field == fieldEmail {
		m.form.email, cmd = m.form.email.Update(msg)
	} else {
		m.form.password, cmd = m.form.password.Update(msg)
	}
	return m, cmd
}

func (m *MainModel) authCmd(email, password string, register bool) tea.Cmd {
	session := m.app.Session
	seq := m.seq
	return func() tea.Msg {
		var err error
		if register {
			_, err = session.Register(context.Background(), email, password)
		} else {
			_, err = session.Login(context.Background(), email, password)
		}
		return authResultMsg{seq: seq, err: err}
	}
}

func (m *MainModel) enterDashboard() tea.Cmd {
	m.phase = phaseDashboard
	m.focus = focusInput
	m.input.Focus()
	m.notices = []systemLine{{
		ID:      uuid.NewString(),
		Content: `Start by asking a question, e.g. "What is the refund deadline?"`,
	}}
	m.refreshChat()
	return m.fetchTickets()
}

func (m *MainModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.FocusNext):
		m.cycleFocus()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchTickets()

	case key.Matches(msg, m.keys.Clear):
		m.app.Chat.Reset()
		m.errLine = ""
		m.notices = []systemLine{{ID: uuid.NewString(), Content: "Started a new conversation."}}
		m.refreshChat()
		return m, nil

	case key.Matches(msg, m.keys.Send) && m.focus == focusInput:
		return m, m.onSend()

	case msg.Type == tea.KeyUp && m.focus == focusChat:
		m.chatVP.LineUp(1)
		return m, nil
	case msg.Type == tea.KeyDown && m.focus == focusChat:
		m.chatVP.LineDown(1)
		return m, nil
	case msg.Type == tea.KeyUp && m.focus == focusTickets:
		if m.ticketOff > 0 {
			m.ticketOff--
		}
		return m, nil
	case msg.Type == tea.KeyDown && m.focus == focusTickets:
		if m.ticketOff < maxInt(0, len(m.tickets)-1) {
			m.ticketOff++
		}
		return m, nil
	case msg.Type == tea.KeyPgUp:
		m.chatVP.ViewUp()
		return m, nil
	case msg.Type == tea.KeyPgDown:
		m.chatVP.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *MainModel) onSend() tea.Cmd {
	val := strings.TrimSpace(m.input.Value())
	if val == "" {
		return nil
	}

	if cmd, ok := parseSlashCommand(val); ok {
		m.input.Reset()
		return m.runSlashCommand(cmd)
	}

	if m.sending {
		// One send at a time; the extra submit is dropped.
		return nil
	}
	m.sending = true
	m.errLine = ""

	chat := m.app.Chat
	seq := m.seq
	return tea.Batch(func() tea.Msg {
		err := chat.SendMessage(context.Background(), val)
		return sendResultMsg{seq: seq, err: err}
	}, m.spinTick())
}

func (m *MainModel) runSlashCommand(cmd slashCommand) tea.Cmd {
	switch cmd.Name {
	case "tickets":
		return m.fetchTickets()

	case "upload":
		return m.startUpload(cmd.Arg)

	case "new":
		m.app.Chat.Reset()
		m.errLine = ""
		m.notices = []systemLine{{ID: uuid.NewString(), Content: "Started a new conversation."}}
		m.refreshChat()
		return nil

	case "logout":
		m.logout()
		return nil

	default:
		m.notices = append(m.notices, systemLine{
			ID:      uuid.NewString(),
			Content: fmt.Sprintf("Unknown command /%s. Try /upload <path>, /tickets, /new or /logout.", cmd.Name),
			IsError: true,
		})
		m.refreshChat()
		m.chatVP.GotoBottom()
		return nil
	}
}

func (m *MainModel) startUpload(path string) tea.Cmd {
	m.uploadStatus = ""
	m.uploadFailed = false
	if err := app.ValidateUploadPath(path); err != nil {
		// Refused locally; no network call.
		m.uploadFailed = true
		m.uploadStatus = err.Error()
		return nil
	}
	if m.uploadBusy {
		return nil
	}
	m.uploadBusy = true

	application := m.app
	seq := m.seq
	return tea.Batch(func() tea.Msg {
		res, err := application.UploadFile(context.Background(), path)
		return uploadResultMsg{seq: seq, res: res, err: err}
	}, m.spinTick())
}

func (m *MainModel) fetchTickets() tea.Cmd {
	if m.ticketsBusy {
		return nil
	}
	m.ticketsBusy = true
	m.ticketsErr = ""

	client := m.app.Client
	seq := m.seq
	return tea.Batch(func() tea.Msg {
		tickets, err := client.Tickets(context.Background())
		return ticketsMsg{seq: seq, tickets: tickets, err: err}
	}, m.spinTick())
}

// logout tears the session down locally and returns to the login form. The
// seq bump makes any in-flight completion a no-op.
func (m *MainModel) logout() {
	m.seq++
	m.app.Session.Logout()
	m.app.Chat.Reset()
	m.sending = false
	m.errLine = ""
	m.tickets = nil
	m.ticketsBusy = false
	m.ticketsErr = ""
	m.uploadBusy = false
	m.uploadStatus = ""
	m.notices = nil
	m.input.Reset()
	m.form = newLoginForm()
	m.phase = phaseLogin
}

func (m *MainModel) cycleFocus() {
	next := m.focus + 1
	if next > focusTickets {
		next = focusInput
	}
	m.focus = next
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *MainModel) busy() bool {
	return m.sending || m.ticketsBusy || m.uploadBusy || m.form.busy || m.phase == phaseLoading
}

func (m *MainModel) spinTick() tea.Cmd {
	return tea.Tick(90*time.Millisecond, func(time.Time) tea.Msg { return spinMsg{} })
}

func authErrorText(err error) string {
	var apiErr *app.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Invalid email or password."
}

func uploadErrorText(err error) string {
	var apiErr *app.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "Upload failed."
}
