package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
)

type connInfoMsg struct {
	info installer.ConnectionInfo
}

type completeModel struct {
	state  *wizardState
	info   installer.ConnectionInfo
	loaded bool
	cursor int // 0=Install Again, 1=Exit
}

func newCompleteModel(state *wizardState) *completeModel {
	return &completeModel{state: state}
}

func (m *completeModel) Init() tea.Cmd {
	m.cursor = 1 // Default to Exit
	m.loaded = false
	cfg := installer.NewConfig(m.state.domain, m.state.token)
	// The IP lookup can take seconds; keep the event loop responsive.
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return connInfoMsg{info: installer.BuildConnectionInfo(ctx, cfg)}
	}
}

func (m *completeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case connInfoMsg:
		m.info = msg.info
		m.loaded = true
		return m, nil

	case tea.KeyMsg:
		if isLeft(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isRight(msg) && m.cursor < 1 {
			m.cursor++
		}
		if isEnter(msg) {
			if m.cursor == 0 {
				return m, func() tea.Msg { return resetMsg{} }
			}
			return m, tea.Quit
		}
		if msg.String() == "q" || isEsc(msg) {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *completeModel) View() string {
	var b strings.Builder

	b.WriteString(successStyle.Render("  Install Complete!"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(mutedStyle.Render("  Gathering connection info..."))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  Domain:   %s\n", selectedStyle.Render(m.info.Domain)))
	b.WriteString(fmt.Sprintf("  IP:       %s\n", normalStyle.Render(m.info.IP)))

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Resolver Endpoints"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  DoH   %s\n", normalStyle.Render("https://"+m.info.Domain+"/dns-query")))
	b.WriteString(fmt.Sprintf("  DoH3  %s\n", normalStyle.Render("https://"+m.info.Domain+"/dns-query (HTTP/3)")))
	b.WriteString(fmt.Sprintf("  DoT   %s\n", normalStyle.Render("tls://"+m.info.Domain+":853")))
	b.WriteString(fmt.Sprintf("  DoQ   %s\n", normalStyle.Render("quic://"+m.info.Domain+":853")))

	if !m.info.CertReady {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("  Certificates are still being issued; endpoints go live once certbot finishes."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Next Steps"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ dnsctl status                      # stack status"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ dnsctl verify --domain %s  # probe DoT", m.info.Domain)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ dnsctl doctor                      # verify system"))
	b.WriteString("\n\n")

	buttons := []string{"Install Again", "Exit"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}

	b.WriteString(helpStyle.Render("\n\n  left/right: navigate  enter: select  q: quit"))
	return b.String()
}
