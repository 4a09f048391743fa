package memory

import (
	"context"
	"fmt"
	"sync"

	ports "fintrack/internal/sheets"
)

// Sheet keeps the last written rows in memory.
type Sheet struct {
	mu     sync.Mutex
	name   string
	rows   [][]string
	writes int
	err    error
}

var _ ports.RowStore = (*Sheet)(nil)

func New(name string) *Sheet {
	return &Sheet{name: name}
}

// ReplaceRows stores a copy of rows and returns a synthetic range reference.
func (s *Sheet) ReplaceRows(_ context.Context, rows [][]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	s.rows = copyRows(rows)
	s.writes++
	return fmt.Sprintf("mem:%s!%d", s.name, len(rows)), nil
}

func (s *Sheet) ReadRows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return copyRows(s.rows), nil
}

// Writes counts successful ReplaceRows calls.
func (s *Sheet) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// FailWith makes subsequent calls return err; nil restores normal behavior.
func (s *Sheet) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}
