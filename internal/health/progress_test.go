package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexProgress_Snapshot_ComputesProgressPercent(t *testing.T) {
	p := NewIndexProgress("docs")
	p.SetStage(StageChunking, 10)
	p.UpdateFiles(4, 1)

	snap := p.Snapshot()
	assert.Equal(t, "docs", snap.Collection)
	assert.Equal(t, string(StageChunking), snap.Stage)
	assert.Equal(t, 4, snap.FilesProcessed)
	assert.Equal(t, 1, snap.FilesFailed)
	assert.InDelta(t, 40.0, snap.ProgressPct, 0.001)
}

func TestIndexProgress_SetError_StopsIsIndexing(t *testing.T) {
	p := NewIndexProgress("docs")
	require.True(t, p.IsIndexing())
	p.SetError("boom")
	assert.False(t, p.IsIndexing())
	assert.Equal(t, "boom", p.Snapshot().ErrorMessage)
}

func TestIndexProgress_SetReady_MarksComplete(t *testing.T) {
	p := NewIndexProgress("docs")
	p.SetReady()
	assert.Equal(t, string(StatusReady), p.Snapshot().Status)
}

func TestTracker_StartAndSnapshots_TracksMultipleCollections(t *testing.T) {
	tr := NewTracker()
	a := tr.Start("docs")
	b := tr.Start("other")
	a.UpdateChunks(5)
	b.UpdateChunks(2)

	snaps := tr.Snapshots()
	require.Len(t, snaps, 2)

	got, ok := tr.Get("docs")
	require.True(t, ok)
	assert.Equal(t, 5, got.Snapshot().ChunksIndexed)
}
