package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
)

type confirmModel struct {
	state  *wizardState
	cursor int
}

func newConfirmModel(state *wizardState) *confirmModel {
	return &confirmModel{state: state}
}

func (m *confirmModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isEsc(msg) {
			return m, func() tea.Msg { return navigateMsg{to: screenTokenInput} }
		}
		if isLeft(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isRight(msg) && m.cursor < 2 {
			m.cursor++
		}
		if isUp(msg) && m.cursor > 0 {
			m.cursor--
		}
		if isDown(msg) && m.cursor < 2 {
			m.cursor++
		}
		if isEnter(msg) {
			switch m.cursor {
			case 0: // Confirm
				return m, func() tea.Msg { return navigateMsg{to: screenPreflight} }
			case 1: // Back
				return m, func() tea.Msg { return navigateMsg{to: screenTokenInput} }
			case 2: // Cancel
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 8) + token[len(token)-4:]
}

func (m *confirmModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Confirm Install"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("  Summary"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Domain:       %s\n", selectedStyle.Render(m.state.domain)))
	b.WriteString(fmt.Sprintf("  Email:        %s\n", selectedStyle.Render("admin@"+m.state.domain)))
	b.WriteString(fmt.Sprintf("  API token:    %s\n", selectedStyle.Render(maskToken(m.state.token))))
	b.WriteString(fmt.Sprintf("  Install dir:  %s\n", normalStyle.Render(installer.GetInstallDir())))

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  What will happen"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  - credentials saved to " + installer.GetCredentialsPath()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  - service bundle fetched and configured for " + m.state.domain))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  - containers built and started, renewal cron installed"))
	b.WriteString("\n\n")

	buttons := []string{"Confirm", "Back", "Cancel"}
	for i, btn := range buttons {
		if i == m.cursor {
			b.WriteString("  " + borderStyle.Render(selectedStyle.Render(btn)))
		} else {
			b.WriteString("  " + normalStyle.Render("["+btn+"]"))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")

	b.WriteString(helpStyle.Render("\n  left/right: navigate  enter: select  esc: back"))
	return b.String()
}
