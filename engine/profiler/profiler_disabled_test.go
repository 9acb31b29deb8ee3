//go:build !profile

package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisabledIsNoop(t *testing.T) {
	Init(8)
	Start("frame")()
	assert.False(t, Enabled)
	assert.ErrorIs(t, Dump(t.TempDir()+"/x.json"), ErrNoEvents)
}
