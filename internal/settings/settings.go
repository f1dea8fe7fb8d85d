package settings

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("setting not found")

// Store persists string settings grouped by section. Writes may be staged
// until Commit, depending on the backend; Get always observes staged writes.
type Store interface {
	// Get returns ErrNotFound if the key is unset.
	Get(ctx context.Context, section string, key string) (string, error)
	Set(ctx context.Context, section string, key string, value string) error
	Delete(ctx context.Context, section string, key string) error
	Commit(ctx context.Context) error
	Close() error
}

type change struct {
	section string
	key     string
	value   string
	deleted bool
}

type changeKey struct {
	section string
	key     string
}

// staged buffers writes until Commit. Later writes to a key replace earlier ones.
type staged struct {
	order   []changeKey
	changes map[changeKey]change
}

func (s *staged) put(c change) {
	if s.changes == nil {
		s.changes = make(map[changeKey]change)
	}
	k := changeKey{section: c.section, key: c.key}
	if _, ok := s.changes[k]; !ok {
		s.order = append(s.order, k)
	}
	s.changes[k] = c
}

func (s *staged) get(section string, key string) (change, bool) {
	c, ok := s.changes[changeKey{section: section, key: key}]
	return c, ok
}

// drain returns pending changes in first-write order and resets the buffer.
func (s *staged) drain() []change {
	out := make([]change, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.changes[k])
	}
	s.order = nil
	s.changes = nil
	return out
}

// restore puts back changes that failed to commit, without overwriting newer writes.
func (s *staged) restore(changes []change) {
	for _, c := range changes {
		if _, ok := s.get(c.section, c.key); !ok {
			s.put(c)
		}
	}
}
