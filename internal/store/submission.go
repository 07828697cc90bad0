package store

import (
	"context"

	"gorm.io/gorm"
)

type submissionRepo struct {
	db *gorm.DB
}

func (r *submissionRepo) Create(ctx context.Context, sub *Submission) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return &Error{Op: "create submission", Err: err}
	}
	return nil
}
