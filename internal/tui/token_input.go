package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
)

type tokenVerifiedMsg struct {
	token string
	err   error
}

type tokenInputModel struct {
	state     *wizardState
	input     textinput.Model
	spinner   spinner.Model
	verifying bool
	errMsg    string
}

func newTokenInputModel(state *wizardState) *tokenInputModel {
	ti := textinput.New()
	ti.Placeholder = "Cloudflare API token (Zone:DNS:Edit)"
	ti.EchoMode = textinput.EchoPassword
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &tokenInputModel{
		state:   state,
		input:   ti,
		spinner: sp,
	}
}

func (m *tokenInputModel) Init() tea.Cmd {
	// A saved token is offered, but unlike the domain it must pass the
	// liveness check again before being reused.
	if m.state.token != "" {
		m.input.SetValue(m.state.token)
	} else if m.state.savedToken != "" {
		m.input.SetValue(m.state.savedToken)
	}
	m.verifying = false
	m.errMsg = ""
	m.input.Focus()
	return textinput.Blink
}

func verifyToken(token string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		err := installer.NewCloudflareClient().VerifyToken(ctx, token)
		return tokenVerifiedMsg{token: token, err: err}
	}
}

func (m *tokenInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tokenVerifiedMsg:
		m.verifying = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			if msg.token == m.state.savedToken {
				// Stale saved token: clear it and require fresh entry.
				m.input.SetValue("")
				m.errMsg = "saved token is no longer valid, enter a new one"
			}
			return m, nil
		}
		m.state.token = msg.token
		return m, func() tea.Msg { return navigateMsg{to: screenConfirm} }

	case tea.KeyMsg:
		if m.verifying {
			return m, nil
		}
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenDomainInput} }
		}
		if isEnter(msg) {
			val := strings.TrimSpace(m.input.Value())
			if err := installer.ValidateTokenFormat(val); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			m.verifying = true
			return m, tea.Batch(m.spinner.Tick, verifyToken(val))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *tokenInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Cloudflare API Token"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Used for DNS-01 certificate issuance. Needs Zone:DNS:Edit on the domain's zone."))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.verifying {
		b.WriteString("\n  " + m.spinner.View() + mutedStyle.Render(" verifying token with Cloudflare..."))
	}
	if m.state.savedToken != "" && !m.verifying {
		b.WriteString("\n  " + mutedStyle.Render("a saved token is prefilled; enter verifies it"))
	}
	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(helpStyle.Render("\n  enter: verify and continue  esc: back"))
	return b.String()
}
