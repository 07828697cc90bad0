package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/grading"
	"github.com/abhisek/p5math/internal/problemgen"
	"github.com/abhisek/p5math/internal/store"
	"github.com/abhisek/p5math/internal/syllabus"
)

// ProblemGenerator creates and persists a problem.
type ProblemGenerator interface {
	Generate(ctx context.Context, input problemgen.GenerateInput) (*store.Session, error)
}

// AnswerGrader grades and persists a submission.
type AnswerGrader interface {
	Submit(ctx context.Context, in grading.SubmitInput) (*grading.Result, error)
}

// HistoryReader lists sessions with their submissions.
type HistoryReader interface {
	List(ctx context.Context) ([]store.Session, error)
}

// Pinger checks that the database is reachable.
type Pinger interface {
	Ping() error
}

// Handler serves the math problem endpoints.
type Handler struct {
	generator ProblemGenerator
	grader    AnswerGrader
	history   HistoryReader
	db        Pinger
}

// NewHandler creates a Handler. db may be nil, in which case /health does
// not check the database.
func NewHandler(generator ProblemGenerator, grader AnswerGrader, history HistoryReader, db Pinger) *Handler {
	return &Handler{generator: generator, grader: grader, history: history, db: db}
}

// GenerateProblem handles POST /math-problem. The body is optional.
func (h *Handler) GenerateProblem(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	difficulty, err := problemgen.ParseDifficulty(req.Difficulty)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.generator.Generate(c.Request.Context(), problemgen.GenerateInput{
		SubStrand:  req.SubStrand,
		Difficulty: difficulty,
	})
	if err != nil {
		writeError(c, err, "failed to generate problem")
		return
	}

	dto, err := toSessionDTO(session)
	if err != nil {
		writeError(c, err, "failed to generate problem")
		return
	}
	c.JSON(http.StatusOK, GenerateResponse{Session: dto})
}

// SubmitAnswer handles POST /math-problem/submit.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing session_id or user_answer"})
		return
	}

	res, err := h.grader.Submit(c.Request.Context(), grading.SubmitInput{
		SessionID:  req.SessionID,
		UserAnswer: req.UserAnswer,
	})
	if err != nil {
		writeError(c, err, "failed to save submission")
		return
	}

	dto, err := toSubmissionDTO(res.Submission)
	if err != nil {
		writeError(c, err, "failed to save submission")
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{
		Submission: dto,
		Feedback:   res.Feedback,
		IsCorrect:  res.IsCorrect,
	})
}

// History handles GET /math-problem/history.
func (h *Handler) History(c *gin.Context) {
	sessions, err := h.history.List(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to load history")
		return
	}

	dtos, err := toHistoryDTOs(sessions)
	if err != nil {
		writeError(c, err, "failed to load history")
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{History: dtos})
}

// Syllabus handles GET /math-problem/syllabus.
func (h *Handler) Syllabus(c *gin.Context) {
	subs := syllabus.SubStrands()
	resp := SyllabusResponse{
		Syllabus:     make([]SyllabusEntryDTO, 0, len(subs)),
		Difficulties: make([]string, 0, 3),
	}
	for _, s := range subs {
		resp.Syllabus = append(resp.Syllabus, SyllabusEntryDTO{SubStrand: s.Name, Topics: s.Topics})
	}
	for _, d := range problemgen.AllDifficulties() {
		resp.Difficulties = append(resp.Difficulties, string(d))
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			log.Error().Err(err).Msg("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
