package tui

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"opsctl/internal/app"

	tea "github.com/charmbracelet/bubbletea"
)

func testApplication() *app.Application {
	// The client points nowhere; these tests never execute network commands.
	client := app.NewClient("http://127.0.0.1:1", time.Second)
	logger := app.NewLogger(io.Discard)
	return &app.Application{
		Config:  app.DefaultConfig(),
		Logger:  logger,
		Client:  client,
		Session: app.NewSessionManager(client, &app.MemoryTokenStore{}, logger),
		Chat:    app.NewConversation(client, logger),
	}
}

func newDashboardModel() *MainModel {
	m := New(testApplication())
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.phase = phaseDashboard
	return m
}

func TestAltEnterInsertsNewlineWithoutSending(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("line one")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})

	if m.sending {
		t.Fatal("alt+enter started a send")
	}
	if !strings.Contains(m.input.Value(), "\n") {
		t.Fatalf("input = %q, want a literal newline inserted", m.input.Value())
	}
}

func TestEnterStartsSendAndKeepsInput(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("hello")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("enter produced no command")
	}
	if !m.sending {
		t.Fatal("sending flag not set")
	}
	// The input is only cleared once the send succeeds.
	if m.input.Value() != "hello" {
		t.Fatalf("input = %q, want kept until success", m.input.Value())
	}
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatal("blank input produced a command")
	}
	if m.sending {
		t.Fatal("blank input started a send")
	}
}

func TestSecondSendWhileInFlightIsDropped(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("first")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.sending {
		t.Fatal("first send did not start")
	}

	m.input.SetValue("second")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd != nil {
		t.Fatal("second send produced a command while one was in flight")
	}
	if m.input.Value() != "second" {
		t.Fatalf("input = %q, want untouched", m.input.Value())
	}
}

func TestSendFailureKeepsInputAndShowsError(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("hello")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(sendResultMsg{seq: m.seq, err: errors.New("boom")})

	if m.sending {
		t.Fatal("sending flag not cleared")
	}
	if m.errLine == "" {
		t.Fatal("no error shown after failed send")
	}
	if m.input.Value() != "hello" {
		t.Fatalf("input = %q, want kept for retry", m.input.Value())
	}
}

func TestSendSuccessClearsInputAndError(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("hello")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(sendResultMsg{seq: m.seq, err: nil})

	if m.input.Value() != "" {
		t.Fatalf("input = %q, want cleared", m.input.Value())
	}
	if m.errLine != "" {
		t.Fatalf("errLine = %q, want cleared", m.errLine)
	}
}

func TestLateResponseAfterLogoutIsIgnored(t *testing.T) {
	m := newDashboardModel()
	m.input.SetValue("hello")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	staleSeq := m.seq

	m.logout()
	if m.phase != phaseLogin {
		t.Fatalf("phase = %v, want login", m.phase)
	}

	m.Update(sendResultMsg{seq: staleSeq, err: errors.New("late failure")})
	if m.errLine != "" {
		t.Fatalf("stale send result mutated state: errLine = %q", m.errLine)
	}

	m.Update(ticketsMsg{seq: staleSeq, tickets: []app.Ticket{{ID: 1}}})
	if len(m.tickets) != 0 {
		t.Fatal("stale tickets result mutated state")
	}
}

func TestUploadCommandRejectsUnsupportedFileLocally(t *testing.T) {
	m := newDashboardModel()

	cmd := m.runSlashCommand(slashCommand{Name: "upload", Arg: "notes.txt"})

	if cmd != nil {
		t.Fatal("unsupported file reached the network path")
	}
	if !m.uploadFailed || m.uploadStatus == "" {
		t.Fatalf("uploadFailed = %v, uploadStatus = %q", m.uploadFailed, m.uploadStatus)
	}
}

func TestTicketsErrorShowsMessage(t *testing.T) {
	m := newDashboardModel()
	m.ticketsBusy = true

	m.Update(ticketsMsg{seq: m.seq, err: errors.New("unreachable")})

	if m.ticketsErr != "Failed to load tickets." {
		t.Fatalf("ticketsErr = %q", m.ticketsErr)
	}
	if m.ticketsBusy {
		t.Fatal("tickets busy flag not cleared")
	}
}

func TestLogoutResetsConversationState(t *testing.T) {
	m := newDashboardModel()
	m.errLine = "old error"
	m.tickets = []app.Ticket{{ID: 1, Title: "t"}}
	m.input.SetValue("draft")

	m.logout()

	if m.app.Session.State() != app.StateAnonymous {
		t.Fatalf("session state = %q, want anonymous", m.app.Session.State())
	}
	if len(m.app.Chat.Transcript()) != 0 {
		t.Fatal("transcript survived logout")
	}
	if m.errLine != "" || len(m.tickets) != 0 || m.input.Value() != "" {
		t.Fatal("dashboard state survived logout")
	}
}

func TestFooterHintsComeFromKeyBindings(t *testing.T) {
	m := newDashboardModel()

	footer := m.renderFooter()
	for _, hint := range []string{"enter send", "alt+enter new line", "tab switch focus", "ctrl+c quit"} {
		if !strings.Contains(footer, hint) {
			t.Fatalf("footer %q missing hint %q", footer, hint)
		}
	}

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	narrow := m.renderFooter()
	if strings.Contains(narrow, "tab switch focus") {
		t.Fatalf("narrow footer %q should drop the focus hint", narrow)
	}
	if !strings.Contains(narrow, "alt+enter new line") {
		t.Fatalf("narrow footer %q missing newline hint", narrow)
	}
}

func TestTextareaNewlineUsesKeymapBinding(t *testing.T) {
	m := newDashboardModel()

	got := m.input.KeyMap.InsertNewline.Keys()
	want := m.keys.Newline.Keys()
	if len(got) != 1 || len(want) != 1 || got[0] != want[0] || got[0] != "alt+enter" {
		t.Fatalf("InsertNewline keys = %v, keymap Newline keys = %v", got, want)
	}
}
