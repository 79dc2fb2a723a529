package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylens-dev/paylens/internal/logging"
)

func writeRecord(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(body), 0o644))
}

func TestDirSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "rec-b", `{"clientId":"b","amount":200}`)
	writeRecord(t, dir, "rec-a", `{"clientId":"a","amount":100}`)

	src := NewDirSource([]WatchPath{{Department: "consulting", Dir: dir}}, logging.Nop())
	snap := src.Load(context.Background())

	assert.Equal(t, StatusOK, snap.Status)
	require.Len(t, snap.Paths, 1)

	ps := snap.Paths[0]
	assert.Equal(t, "consulting", ps.Path.Department)
	assert.Equal(t, []string{"rec-a", "rec-b"}, ps.RecordIDs)
	assert.Equal(t, "a", ps.Records["rec-a"]["clientId"])
}

func TestDirSource_MalformedRecordSkipped(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "good", `{"clientId":"a"}`)
	writeRecord(t, dir, "bad", `{not json`)

	src := NewDirSource([]WatchPath{{Department: "d", Dir: dir}}, logging.Nop())
	snap := src.Load(context.Background())

	assert.Equal(t, StatusOK, snap.Status)
	assert.Equal(t, []string{"good"}, snap.Paths[0].RecordIDs)
}

func TestDirSource_NonJSONFilesIgnored(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "rec", `{"clientId":"a"}`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	src := NewDirSource([]WatchPath{{Department: "d", Dir: dir}}, logging.Nop())
	snap := src.Load(context.Background())
	assert.Equal(t, []string{"rec"}, snap.Paths[0].RecordIDs)
}

func TestDirSource_Unavailable(t *testing.T) {
	src := NewDirSource([]WatchPath{
		{Department: "d", Dir: filepath.Join(t.TempDir(), "missing")},
	}, logging.Nop())
	snap := src.Load(context.Background())

	assert.Equal(t, StatusUnavailable, snap.Status)
	require.Len(t, snap.Paths, 1)
	assert.True(t, snap.Paths[0].LoadFailed)
	assert.Empty(t, snap.Paths[0].RecordIDs)
}

func TestDirSource_PartiallyAvailable(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "rec", `{"clientId":"a"}`)

	src := NewDirSource([]WatchPath{
		{Department: "gone", Dir: filepath.Join(dir, "missing")},
		{Department: "here", Dir: dir},
	}, logging.Nop())
	snap := src.Load(context.Background())

	// One reachable path is enough to keep the snapshot usable.
	assert.Equal(t, StatusOK, snap.Status)
	assert.True(t, snap.Paths[0].LoadFailed)
	assert.Equal(t, []string{"rec"}, snap.Paths[1].RecordIDs)
}

func TestDirSource_PathPriorityOrderPreserved(t *testing.T) {
	dirA, dirB := t.TempDir(), t.TempDir()
	writeRecord(t, dirA, "r1", `{}`)
	writeRecord(t, dirB, "r2", `{}`)

	paths := []WatchPath{
		{Department: "second", Dir: dirB},
		{Department: "first", Dir: dirA},
	}
	src := NewDirSource(paths, logging.Nop())
	snap := src.Load(context.Background())

	require.Len(t, snap.Paths, 2)
	assert.Equal(t, "second", snap.Paths[0].Path.Department)
	assert.Equal(t, "first", snap.Paths[1].Path.Department)
}
