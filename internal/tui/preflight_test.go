package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
)

func enterKey() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

func deliverChecks(m *preflightModel, results []installer.CheckResult) tea.Cmd {
	m.running = true
	_, cmd := m.Update(checksDoneMsg{results: results})
	return cmd
}

func Test_preflightFatalCheckBlocksContinue(t *testing.T) {
	m := newPreflightModel(&wizardState{})

	cmd := deliverChecks(m, []installer.CheckResult{
		{Name: "running as root", OK: false, Fatal: true, Err: errors.New("euid is not 0")},
		{Name: "docker binary", OK: true},
	})
	assert.Nil(t, cmd)

	// enter on the default cursor must quit, never reach the pipeline
	_, cmd = m.Update(enterKey())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func Test_preflightWarningAllowsContinue(t *testing.T) {
	m := newPreflightModel(&wizardState{})

	cmd := deliverChecks(m, []installer.CheckResult{
		{Name: "running as root", OK: true, Fatal: true},
		{Name: "ports 53/443/853 status", OK: false, Err: errors.New("port 53 already in use")},
	})
	assert.Nil(t, cmd)

	_, cmd = m.Update(enterKey())
	require.NotNil(t, cmd)
	assert.Equal(t, navigateMsg{to: screenProgress}, cmd())
}

func Test_preflightAllPassAutoNavigates(t *testing.T) {
	m := newPreflightModel(&wizardState{})

	cmd := deliverChecks(m, []installer.CheckResult{
		{Name: "running as root", OK: true, Fatal: true},
		{Name: "docker binary", OK: true},
	})
	require.NotNil(t, cmd)
	assert.Equal(t, navigateMsg{to: screenProgress}, cmd())
}
