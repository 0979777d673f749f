package installer

import (
	"strings"

	"github.com/apex/log"
)

const (
	// renewalJobMarker identifies our line in the crontab regardless of
	// schedule, so stale variants are removed before re-adding.
	renewalJobMarker = "docker restart certbot"
	renewalJobLine   = "0 3 * * * docker restart certbot"
)

// Scheduler is the periodic-task table the pipeline schedules against.
type Scheduler interface {
	Table() (string, error)
	Install(table string) error
}

type crontabScheduler struct{}

func NewCrontabScheduler() Scheduler {
	return crontabScheduler{}
}

func (crontabScheduler) Table() (string, error) {
	return runCmdCapture("crontab", "-l")
}

func (crontabScheduler) Install(table string) error {
	return runCmdInput(table, "crontab", "-")
}

// EnsureRenewalJob installs the daily certbot-restart job exactly once:
// every line matching the marker is dropped, then the job is re-added.
func EnsureRenewalJob(s Scheduler) error {
	table, err := s.Table()
	if err != nil {
		// A host without a crontab yet reports an error here; start from
		// an empty table instead of failing the install.
		log.Debugf("crontab read failed (%v), assuming empty table", err)
		table = ""
	}
	lines := removeJobLines(table, renewalJobMarker)
	lines = append(lines, renewalJobLine)
	return s.Install(strings.Join(lines, "\n") + "\n")
}

func removeJobLines(table, marker string) []string {
	var kept []string
	for _, line := range strings.Split(table, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Contains(line, marker) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}
