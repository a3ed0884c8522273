package results_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamuelGong/plato/internal/results"
	"github.com/SamuelGong/plato/splitlearning"
)

func TestRecordAndQueryRounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	rec, err := results.Open(path)
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, rec.Record(splitlearning.RoundResult{
		Round: 1, ClientID: 2,
		ClientLoss: 0.9, ServerLoss: 0.8,
		Features: 100, Gradients: 4,
		ExtractTime: 120 * time.Millisecond,
	}))
	require.NoError(t, rec.Record(splitlearning.RoundResult{
		Round: 2, ClientID: 2,
		ClientLoss: 0.7, ServerLoss: 0.6,
		Features: 100, Gradients: 4,
	}))

	rows, err := rec.Rounds()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Round)
	assert.Equal(t, 2, rows[0].ClientID)
	assert.Equal(t, 0.9, rows[0].ClientLoss)
	assert.Equal(t, 0.6, rows[1].ServerLoss)
}

func TestRunsAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	first, err := results.Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Record(splitlearning.RoundResult{Round: 1, ClientID: 1, ClientLoss: 0.5}))
	require.NoError(t, first.Close())

	second, err := results.Open(path)
	require.NoError(t, err)
	defer second.Close()
	assert.NotEqual(t, first.Run(), second.Run())

	rows, err := second.Rounds()
	require.NoError(t, err)
	assert.Empty(t, rows, "a new run must not see earlier runs' rows")
}

func TestDuplicateRoundRejected(t *testing.T) {
	rec, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer rec.Close()

	res := splitlearning.RoundResult{Round: 1, ClientID: 1}
	require.NoError(t, rec.Record(res))
	assert.Error(t, rec.Record(res))
}
