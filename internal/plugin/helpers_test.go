package plugin

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeUnit writes content to dir/name and returns the path.
func writeUnit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const hypotUnit = `import "math"

requires: ">= 1.0.0, < 2.0.0"

operation: hypot: {
	label:  "Hypotenuse"
	a:      number
	b:      number | *0
	result: math.Sqrt(a*a + b*b)
}
`

const averageUnit = `operation: average: {
	label:  "Average"
	a:      number
	b:      number | *0
	result: (a + b) / 2
}
`

const domainUnit = `operation: {
	Reciprocal: {
		label:  "Reciprocal"
		a:      number
		b:      number | *0
		result: 1 / a
	}
	root: {
		label:  "Non-negative identity"
		a:      number & >=0
		b:      number | *2
		result: a
	}
}
`
