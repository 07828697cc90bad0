package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one generated problem. It is never updated after creation.
type Session struct {
	ID            string  `gorm:"primaryKey;type:varchar(36)"`
	ProblemText   string  `gorm:"type:text;not null"`
	CorrectAnswer float64 `gorm:"not null"`

	// Generation parameters; nil when not supplied.
	Difficulty *string `gorm:"type:varchar(16)"`
	SubStrand  *string `gorm:"type:varchar(64)"`
	Topic      *string `gorm:"type:text"`

	CreatedAt   time.Time    `gorm:"autoCreateTime;index"`
	Submissions []Submission `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string { return "math_problem_sessions" }

func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Submission is one graded attempt against a Session.
type Submission struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	SessionID    string    `gorm:"type:varchar(36);not null;index"`
	UserAnswer   float64   `gorm:"not null"`
	IsCorrect    bool      `gorm:"not null"`
	FeedbackText string    `gorm:"type:text;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (Submission) TableName() string { return "math_problem_submissions" }

func (s *Submission) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// LLMRequestEvent records one outbound LLM call.
type LLMRequestEvent struct {
	ID           uint   `gorm:"primaryKey"`
	Provider     string `gorm:"type:varchar(64);not null"`
	Model        string `gorm:"type:varchar(128);not null"`
	Purpose      string `gorm:"type:varchar(64);not null;index"`
	Attempt      int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

func (LLMRequestEvent) TableName() string { return "llm_request_events" }
