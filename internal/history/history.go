// Package history reads past problems together with their submissions.
package history

import (
	"context"

	"github.com/abhisek/p5math/internal/store"
)

// Reader lists stored sessions.
type Reader struct {
	sessions store.SessionRepo
}

// NewReader creates a Reader.
func NewReader(sessions store.SessionRepo) *Reader {
	return &Reader{sessions: sessions}
}

// List returns every session newest first, each with its submissions newest
// first. An empty store yields an empty, non-nil slice. Store failures are
// returned as *store.Error.
func (r *Reader) List(ctx context.Context) ([]store.Session, error) {
	return r.Recent(ctx, 0)
}

// Recent is List limited to the newest limit sessions. A limit of 0 means
// no limit.
func (r *Reader) Recent(ctx context.Context, limit int) ([]store.Session, error) {
	sessions, err := r.sessions.ListWithSubmissions(ctx, limit)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	for i := range sessions {
		if sessions[i].Submissions == nil {
			sessions[i].Submissions = []store.Submission{}
		}
	}
	return sessions, nil
}
