package files

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSession = "3f2504e0-4f89-41d3-9a0c-0305e82c3301"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(t.TempDir(), nil)
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in      string
		want    Slot
		wantErr bool
	}{
		{"enrollment", SlotEnrollment, false},
		{"MONTHLY", SlotMonthly, false},
		{"sites", SlotSites, false},
		{"bogus", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlot(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStageAndRead(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Stage(testSession, SlotEnrollment, "export (3).csv", strings.NewReader("Site ID\n001\n"), 1<<20)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "enrollment.csv"), "stored name comes from the slot, not the upload")

	got, err := m.StagedPath(testSession, SlotEnrollment)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "Site ID\n001\n", string(data))
}

func TestStageReplacesPreviousExtension(t *testing.T) {
	m := newTestManager(t)

	first, err := m.Stage(testSession, SlotMonthly, "monthly.csv", strings.NewReader("a"), 1<<20)
	require.NoError(t, err)

	second, err := m.Stage(testSession, SlotMonthly, "monthly.xlsx", strings.NewReader("b"), 1<<20)
	require.NoError(t, err)

	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err), "old staged file is removed")

	got, err := m.StagedPath(testSession, SlotMonthly)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestStageRejectsUnsupportedType(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Stage(testSession, SlotSites, "report.pdf", strings.NewReader("x"), 1<<20)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStageEnforcesSizeLimit(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Stage(testSession, SlotSites, "big.csv", strings.NewReader(strings.Repeat("x", 100)), 10)
	assert.ErrorIs(t, err, ErrUploadTooLarge)

	_, err = m.StagedPath(testSession, SlotSites)
	assert.ErrorIs(t, err, ErrNotStaged, "oversized upload leaves nothing staged")
}

func TestStageRejectsBadSessionID(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Stage("../escape", SlotSites, "sites.csv", strings.NewReader("x"), 1<<20)
	assert.Error(t, err)
}

func TestListAndClear(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Stage(testSession, SlotEnrollment, "e.csv", strings.NewReader("a"), 1<<20)
	require.NoError(t, err)
	_, err = m.Stage(testSession, SlotSites, "s.xlsx", strings.NewReader("b"), 1<<20)
	require.NoError(t, err)

	staged := m.List(testSession)
	assert.Len(t, staged, 2)
	assert.Contains(t, staged, SlotEnrollment)
	assert.Contains(t, staged, SlotSites)
	assert.NotContains(t, staged, SlotMonthly)

	require.NoError(t, m.Clear(testSession))
	assert.Empty(t, m.List(testSession))
}
