package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return &Error{Op: "create session", Err: err}
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "get session", Err: err}
	}
	return &s, nil
}

func (r *sessionRepo) ListWithSubmissions(ctx context.Context, limit int) ([]Session, error) {
	q := r.db.WithContext(ctx).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at desc").Order("id desc")
		}).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}

	sessions := []Session{}
	if err := q.Find(&sessions).Error; err != nil {
		return nil, &Error{Op: "list sessions", Err: err}
	}
	return sessions, nil
}

func (r *sessionRepo) RecentProblems(ctx context.Context, subStrand string, limit int) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&Session{}).
		Order("created_at desc").
		Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if subStrand != "" {
		q = q.Where("sub_strand = ?", subStrand)
	}

	texts := []string{}
	if err := q.Pluck("problem_text", &texts).Error; err != nil {
		return nil, &Error{Op: "recent problems", Err: err}
	}
	return texts, nil
}
