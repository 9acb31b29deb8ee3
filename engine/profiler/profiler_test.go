//go:build profile

package profiler

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpBalancedScopes(t *testing.T) {
	Init(64)
	endFrame := Start("frame")
	Start("segments")() // closed immediately
	endOpen := Start("fill")
	endFrame() // mismatched: "fill" is still open on top
	_ = endOpen

	path := filepath.Join(t.TempDir(), "capture.json")
	require.NoError(t, Dump(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc ssFile
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Len(t, doc.Profiles, 1)

	opens, closes := 0, 0
	for _, e := range doc.Profiles[0].Events {
		switch e.Type {
		case "O":
			opens++
		case "C":
			closes++
		}
	}
	assert.Equal(t, 3, opens)
	assert.Equal(t, opens, closes)
}

func TestRingKeepsNewest(t *testing.T) {
	var r eventRing
	r.init(3)
	for i := 0; i < 5; i++ {
		r.push(event{at: int64(i)})
	}
	evs := r.snapshot()
	require.Len(t, evs, 3)
	assert.Equal(t, []int64{2, 3, 4}, []int64{evs[0].at, evs[1].at, evs[2].at})
}

func TestDumpEmpty(t *testing.T) {
	Init(8)
	assert.ErrorIs(t, Dump(filepath.Join(t.TempDir(), "x.json")), ErrNoEvents)
}
