package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/docingest/core"
)

// Key prefixes for different data types
const (
	runPrefix         = "run"
	runFinishedPrefix = "runfin"
)

// makeRunKey generates a key for an ingest run by ID.
func makeRunKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", runPrefix, id))
}

// makeRunFinishedKey generates a composite key for the finish-time index.
// Format: prefix:timestamp:id
func makeRunFinishedKey(finished time.Time, id core.ID) []byte {
	prefixBytes := []byte(runFinishedPrefix + ":")
	buf := make([]byte, len(prefixBytes)+16) // 8 bytes for timestamp + 8 bytes for ID
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(finished.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// runIDFromFinishedKey extracts the run ID from a finish-time index key.
func runIDFromFinishedKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
