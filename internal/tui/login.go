package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

type loginField int

const (
	fieldEmail loginField = iota
	fieldPassword
)

// loginForm is the sign-in / sign-up screen shown while the session is
// anonymous.
type loginForm struct {
	email    textinput.Model
	password textinput.Model
	field    loginField
	register bool
	busy     bool
	errMsg   string
}

func newLoginForm() loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginForm{email: email, password: password, field: fieldEmail}
}

func (f *loginForm) nextField() {
	if f.field == fieldEmail {
		f.field = fieldPassword
		f.email.Blur()
		f.password.Focus()
	} else {
		f.field = fieldEmail
		f.password.Blur()
		f.email.Focus()
	}
}

func (f *loginForm) toggleMode() {
	f.register = !f.register
	f.errMsg = ""
}

func (f *loginForm) values() (email, password string) {
	return strings.TrimSpace(f.email.Value()), f.password.Value()
}

func (f *loginForm) view(t Theme, width int, spinner string) string {
	var b strings.Builder

	title := "Sign in to OpsCopilot"
	action := "sign in"
	toggleHint := "ctrl+n: create an account instead"
	if f.register {
		title = "Create an OpsCopilot account"
		action = "sign up"
		toggleHint = "ctrl+n: sign in instead"
	}
	b.WriteString(t.TopBarTitle.Render("opsctl") + "  " + t.TopBarMeta.Render(title))
	b.WriteString("\n\n")

	b.WriteString(t.FormLabel.Render("Email") + "\n")
	b.WriteString(f.email.View() + "\n\n")
	b.WriteString(t.FormLabel.Render("Password") + "\n")
	b.WriteString(f.password.View() + "\n\n")

	if f.busy {
		b.WriteString(t.Spinner.Render(spinner+" signing in…") + "\n")
	} else if f.errMsg != "" {
		b.WriteString(t.ErrorLine.Render(f.errMsg) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(t.FormHint.Render("enter: "+action+"  tab: next field  "+toggleHint+"  ctrl+c: quit") + "\n")

	box := t.Pane.Width(minInt(64, maxInt(40, width-4)))
	return box.Render(b.String())
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
