package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibicadotnet/dns.bibica.net.v4/internal/installer"
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepWarned
	stepFailed
)

type progressStep struct {
	label  string
	status stepStatus
	warn   string
	err    error
}

type stepDoneMsg struct {
	index int
	err   error
	warn  string
}

type progressModel struct {
	state    *wizardState
	cfg      installer.Config
	pipeline installer.Pipeline
	steps    []progressStep
	spinner  spinner.Model
	current  int
	done     bool
	errMsg   string
}

func newProgressModel(state *wizardState) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &progressModel{
		state:   state,
		spinner: sp,
		steps: []progressStep{
			{label: "Saving credentials"},
			{label: "Fetching service bundle"},
			{label: "Configuring stack"},
			{label: "Launching services"},
			{label: "Scheduling certificate renewal"},
			{label: "Waiting for certificates"},
		},
	}
}

func (m *progressModel) Init() tea.Cmd {
	m.cfg = installer.NewConfig(m.state.domain, m.state.token)
	m.pipeline = installer.NewPipeline()
	m.current = 0
	m.done = false
	m.errMsg = ""
	for i := range m.steps {
		m.steps[i].status = stepPending
		m.steps[i].warn = ""
		m.steps[i].err = nil
	}
	m.steps[0].status = stepRunning

	return tea.Batch(m.spinner.Tick, m.runStep(0))
}

func (m *progressModel) runStep(index int) tea.Cmd {
	return func() tea.Msg {
		var err error
		var warn string
		switch index {
		case 0:
			err = installer.WriteCredentials(m.cfg.CredentialsPath, m.cfg)
		case 1:
			err = m.doFetch()
		case 2:
			err = m.doConfigure()
		case 3:
			_, err = captureOutput(func() error {
				return m.pipeline.Runtime.ComposeUp(context.Background(), m.cfg.InstallDir)
			})
		case 4:
			// Soft step: a scheduling failure is reported but never
			// blocks completion.
			if serr := installer.EnsureRenewalJob(m.pipeline.Scheduler); serr != nil {
				warn = serr.Error()
			}
		case 5:
			// Soft-timeout by design.
			if werr := installer.WaitForCertificates(context.Background(), m.cfg.CertLiveDir(),
				installer.CertFileNames(), m.pipeline.PollInterval, m.pipeline.WaitBudget); werr != nil {
				warn = werr.Error() + "; check: docker logs certbot"
			}
		}
		return stepDoneMsg{index: index, err: err, warn: warn}
	}
}

func captureOutput(fn func() error) (string, error) {
	oldOut, oldErr := os.Stdout, os.Stderr
	r, w, _ := os.Pipe()
	os.Stdout, os.Stderr = w, w
	err := fn()
	w.Close()
	os.Stdout, os.Stderr = oldOut, oldErr
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String(), err
}

func (m *progressModel) doFetch() error {
	ctx := context.Background()
	if _, err := captureOutput(func() error {
		return m.pipeline.Runtime.EnsureInstalled(ctx)
	}); err != nil {
		return err
	}
	if err := installer.FetchBundle(ctx, m.pipeline.BundleURL, m.cfg.InstallDir); err != nil {
		return err
	}
	if _, err := os.Stat(m.cfg.AdGuardConfigPath()); err != nil {
		return fmt.Errorf("missing configuration file: %s", m.cfg.AdGuardConfigPath())
	}
	return nil
}

func (m *progressModel) doConfigure() error {
	if err := installer.PatchDomain(m.cfg.AdGuardConfigPath(), m.cfg.Domain); err != nil {
		return err
	}
	if err := installer.PatchMaxMemory(m.cfg.ComposePath(), installer.RedisMaxMemoryMB()); err != nil {
		return err
	}
	return installer.FixVolumeOwnership(m.cfg)
}

func (m *progressModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepDoneMsg:
		m.steps[msg.index].status = stepDone
		if msg.warn != "" {
			m.steps[msg.index].status = stepWarned
			m.steps[msg.index].warn = msg.warn
		}
		if msg.err != nil {
			m.steps[msg.index].status = stepFailed
			m.steps[msg.index].err = msg.err
			m.errMsg = msg.err.Error()
			m.done = true
			return m, nil
		}

		next := msg.index + 1
		if next >= len(m.steps) {
			m.done = true
			return m, func() tea.Msg { return navigateMsg{to: screenComplete} }
		}
		m.current = next
		m.steps[next].status = stepRunning
		return m, m.runStep(next)

	case tea.KeyMsg:
		if m.done && m.errMsg != "" {
			if isEnter(msg) || isEsc(msg) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Installing"))
	b.WriteString("\n\n")

	for _, step := range m.steps {
		var icon string
		switch step.status {
		case stepPending:
			icon = mutedStyle.Render("  ")
		case stepRunning:
			icon = m.spinner.View()
		case stepDone:
			icon = successStyle.Render("OK")
		case stepWarned:
			icon = warningStyle.Render("!!")
		case stepFailed:
			icon = errorStyle.Render("XX")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, normalStyle.Render(step.label)))
		if step.warn != "" {
			b.WriteString(fmt.Sprintf("       %s\n", mutedStyle.Render(step.warn)))
		}
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Error: " + m.errMsg))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\n  press enter or esc to exit"))
	}

	return b.String()
}
