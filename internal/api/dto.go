package api

import (
	"encoding/json"
	"time"

	"github.com/jinzhu/copier"

	"github.com/abhisek/p5math/internal/store"
)

// GenerateRequest is the optional body of POST /math-problem.
type GenerateRequest struct {
	SubStrand  string `json:"subStrand"`
	Difficulty string `json:"difficulty"`
}

// SubmitRequest is the body of POST /math-problem/submit. UserAnswer may be
// a JSON number or string.
type SubmitRequest struct {
	SessionID  string          `json:"session_id"`
	UserAnswer json.RawMessage `json:"user_answer"`
}

type SessionDTO struct {
	ID            string    `json:"id"`
	ProblemText   string    `json:"problem_text"`
	CorrectAnswer float64   `json:"correct_answer"`
	Difficulty    *string   `json:"difficulty"`
	SubStrand     *string   `json:"sub_strand"`
	Topic         *string   `json:"topic"`
	CreatedAt     time.Time `json:"created_at"`
}

type SubmissionDTO struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	UserAnswer   float64   `json:"user_answer"`
	IsCorrect    bool      `json:"is_correct"`
	FeedbackText string    `json:"feedback_text"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistorySessionDTO is a session with its submissions embedded.
type HistorySessionDTO struct {
	SessionDTO
	Submissions []SubmissionDTO `json:"math_problem_submissions"`
}

type GenerateResponse struct {
	Session SessionDTO `json:"session"`
}

type SubmitResponse struct {
	Submission SubmissionDTO `json:"submission"`
	Feedback   string        `json:"feedback"`
	IsCorrect  bool          `json:"is_correct"`
}

type HistoryResponse struct {
	History []HistorySessionDTO `json:"history"`
}

type SyllabusEntryDTO struct {
	SubStrand string   `json:"subStrand"`
	Topics    []string `json:"topics"`
}

type SyllabusResponse struct {
	Syllabus     []SyllabusEntryDTO `json:"syllabus"`
	Difficulties []string           `json:"difficulties"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func toSessionDTO(s *store.Session) (SessionDTO, error) {
	var dto SessionDTO
	if err := copier.Copy(&dto, s); err != nil {
		return SessionDTO{}, err
	}
	return dto, nil
}

func toSubmissionDTO(sub *store.Submission) (SubmissionDTO, error) {
	var dto SubmissionDTO
	if err := copier.Copy(&dto, sub); err != nil {
		return SubmissionDTO{}, err
	}
	return dto, nil
}

func toHistoryDTOs(sessions []store.Session) ([]HistorySessionDTO, error) {
	out := make([]HistorySessionDTO, 0, len(sessions))
	for i := range sessions {
		sessionDTO, err := toSessionDTO(&sessions[i])
		if err != nil {
			return nil, err
		}
		item := HistorySessionDTO{
			SessionDTO:  sessionDTO,
			Submissions: make([]SubmissionDTO, 0, len(sessions[i].Submissions)),
		}
		for j := range sessions[i].Submissions {
			subDTO, err := toSubmissionDTO(&sessions[i].Submissions[j])
			if err != nil {
				return nil, err
			}
			item.Submissions = append(item.Submissions, subDTO)
		}
		out = append(out, item)
	}
	return out, nil
}
