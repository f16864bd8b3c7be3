package store

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/roach88/abacus/internal/history"
)

// Extensions are the file extensions served by Persister.
var Extensions = []string{".db", ".sqlite"}

// Persister adapts the archive to history.Persister. Each Save and Load
// opens the archive, does its work and closes it again.
type Persister struct {
	// SessionID attributes saved records to the writing session.
	SessionID string
}

// Save replaces the archive at path with records.
func (p Persister) Save(path string, records []history.Record) error {
	s, err := Open(path)
	if err != nil {
		return history.NewIOError(path, "open archive", err)
	}
	defer s.Close()

	if err := s.WriteHistory(context.Background(), p.SessionID, records); err != nil {
		return history.NewIOError(path, "write archive", err)
	}
	return nil
}

// Load reads every record from the archive at path.
// A file that is not a SQLite archive is a FORMAT_ERROR.
func (p Persister) Load(path string) ([]history.Record, error) {
	// Open would create a missing file.
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, history.NewFileNotFoundError(path)
	}

	s, err := Open(path)
	if err != nil {
		return nil, &history.Error{
			Code:    history.ErrCodeFormat,
			Path:    path,
			Message: "not a history archive",
			Err:     err,
		}
	}
	defer s.Close()

	records, err := s.ReadHistory(context.Background(), "")
	if err != nil {
		var he *history.Error
		if errors.As(err, &he) {
			return nil, err
		}
		return nil, history.NewIOError(path, "read archive", err)
	}
	return records, nil
}
