package badger

import (
	"bytes"
	"testing"
	"time"

	"github.com/poiesic/docingest/core"
	"github.com/stretchr/testify/assert"
)

func TestMakeRunFinishedKey_SortsByTime(t *testing.T) {
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(time.Millisecond)

	a := makeRunFinishedKey(early, core.ID(999))
	b := makeRunFinishedKey(late, core.ID(1))
	assert.Equal(t, -1, bytes.Compare(a, b))
}

func TestRunIDFromFinishedKey(t *testing.T) {
	id := core.IDFromPath("/docs/a.pdf")
	key := makeRunFinishedKey(time.Now(), id)
	assert.Equal(t, id, runIDFromFinishedKey(key))
}

func TestMakeRunKey(t *testing.T) {
	assert.Equal(t, []byte("run:42"), makeRunKey(core.ID(42)))
}
