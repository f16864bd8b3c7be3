package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertRecordsEqual compares records field by field, using time.Equal for
// timestamps so location pointers and monotonic readings do not matter.
func assertRecordsEqual(t *testing.T, want, got []Record) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Timestamp.Equal(got[i].Timestamp),
			"record %d: timestamp %v != %v", i, want[i].Timestamp, got[i].Timestamp)
		assert.Equal(t, want[i].Operation, got[i].Operation, "record %d", i)
		assert.Equal(t, want[i].Operands, got[i].Operands, "record %d", i)
		assert.Equal(t, want[i].Result, got[i].Result, "record %d", i)
	}
}
