// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/beansplit/pkg/types"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "state", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndUnchanged(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)

	runID, err := l.BeginRun(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	const input = "/quotes/Brand_202501.pdf"
	unchanged, err := l.Unchanged(ctx, input, "abc")
	require.NoError(t, err)
	assert.False(t, unchanged, "unknown input is never unchanged")

	res := types.FileResult{
		Path:        input,
		Brand:       "Brand",
		Period:      "202501",
		ContentHash: "abc",
		Status:      types.SplitDone,
		Outputs: []types.OutputFile{
			{Path: "/out/Brand_202501_premium.txt", Section: types.SectionPremium, Entries: 1},
			{Path: "/out/Brand_202501_common.txt", Section: types.SectionCommon, Entries: 2},
		},
	}
	require.NoError(t, l.Record(ctx, runID, res))

	unchanged, err = l.Unchanged(ctx, input, "abc")
	require.NoError(t, err)
	assert.True(t, unchanged)

	unchanged, err = l.Unchanged(ctx, input, "def")
	require.NoError(t, err)
	assert.False(t, unchanged, "different hash")

	outs, err := l.Outputs(ctx, input)
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, "/out/Brand_202501_common.txt", outs[0].Path)
	assert.Equal(t, types.SectionCommon, outs[0].Section)
	assert.Equal(t, 2, outs[0].Entries)
}

func TestRecord_ReplacesOutputs(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)
	runID, err := l.BeginRun(ctx)
	require.NoError(t, err)

	const input = "/quotes/a.pdf"
	require.NoError(t, l.Record(ctx, runID, types.FileResult{
		Path: input, ContentHash: "h1", Status: types.SplitDone,
		Outputs: []types.OutputFile{
			{Path: "/out/a_common_1.txt", Section: types.SectionCommon, Entries: 30, Chunk: 1},
			{Path: "/out/a_common_2.txt", Section: types.SectionCommon, Entries: 5, Chunk: 2},
		},
	}))
	require.NoError(t, l.Record(ctx, runID, types.FileResult{
		Path: input, ContentHash: "h2", Status: types.SplitFailed, Err: errors.New("corrupt"),
	}))

	outs, err := l.Outputs(ctx, input)
	require.NoError(t, err)
	assert.Empty(t, outs)

	unchanged, err := l.Unchanged(ctx, input, "h2")
	require.NoError(t, err)
	assert.False(t, unchanged, "failed inputs are retried on the next run")
}

func TestFinishRun(t *testing.T) {
	ctx := context.Background()
	l := openLedger(t)
	runID, err := l.BeginRun(ctx)
	require.NoError(t, err)

	want := types.BatchResult{Split: 2, Empty: 1, Skipped: 3, Failed: 1}
	require.NoError(t, l.FinishRun(ctx, runID, want))

	got, err := l.Run(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.Error(t, l.FinishRun(ctx, "no-such-run", want))
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	l, err := Open(path)
	require.NoError(t, err)
	runID, err := l.BeginRun(ctx)
	require.NoError(t, err)
	require.NoError(t, l.Record(ctx, runID, types.FileResult{Path: "/q.pdf", ContentHash: "h", Status: types.SplitDone}))
	require.NoError(t, l.Close())

	l, err = Open(path)
	require.NoError(t, err)
	defer l.Close()

	unchanged, err := l.Unchanged(ctx, "/q.pdf", "h")
	require.NoError(t, err)
	assert.True(t, unchanged)
}
