package installer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	table     string
	tableErr  error
	installed []string
}

func (f *fakeScheduler) Table() (string, error) {
	return f.table, f.tableErr
}

func (f *fakeScheduler) Install(table string) error {
	f.table = table
	f.installed = append(f.installed, table)
	return nil
}

func countMatching(table, marker string) int {
	n := 0
	for _, line := range strings.Split(table, "\n") {
		if strings.Contains(line, marker) {
			n++
		}
	}
	return n
}

func Test_ensureRenewalJobEmptyTable(t *testing.T) {
	s := &fakeScheduler{}

	require.NoError(t, EnsureRenewalJob(s))

	assert.Equal(t, renewalJobLine+"\n", s.table)
}

func Test_ensureRenewalJobIdempotent(t *testing.T) {
	s := &fakeScheduler{table: "30 2 * * * /usr/local/bin/backup.sh\n"}

	for i := 0; i < 3; i++ {
		require.NoError(t, EnsureRenewalJob(s))
	}

	assert.Equal(t, 1, countMatching(s.table, renewalJobMarker))
	assert.Contains(t, s.table, "30 2 * * * /usr/local/bin/backup.sh")
	assert.Len(t, s.installed, 3)
}

func Test_ensureRenewalJobReplacesStaleVariant(t *testing.T) {
	s := &fakeScheduler{table: "15 4 * * * docker restart certbot\n0 3 * * * docker restart certbot\n"}

	require.NoError(t, EnsureRenewalJob(s))

	assert.Equal(t, 1, countMatching(s.table, renewalJobMarker))
	assert.Contains(t, s.table, renewalJobLine)
	assert.NotContains(t, s.table, "15 4 * * *")
}

func Test_ensureRenewalJobNoCrontabYet(t *testing.T) {
	s := &fakeScheduler{tableErr: errors.New("no crontab for root")}

	require.NoError(t, EnsureRenewalJob(s))

	assert.Equal(t, renewalJobLine+"\n", s.table)
}

func Test_removeJobLines(t *testing.T) {
	table := "a\n\n0 3 * * * docker restart certbot\nb\n"
	assert.Equal(t, []string{"a", "b"}, removeJobLines(table, renewalJobMarker))
	assert.Nil(t, removeJobLines("", renewalJobMarker))
}
