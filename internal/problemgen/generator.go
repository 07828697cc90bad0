package problemgen

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/store"
	"github.com/abhisek/p5math/internal/syllabus"
)

// Purpose labels generation calls in LLM events and metrics.
const Purpose = "problem-gen"

// Generator produces a problem through the LLM and persists it as a Session.
type Generator struct {
	attempter *llm.Attempter
	sessions  store.SessionRepo
	config    Config

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Generator.
func New(attempter *llm.Attempter, sessions store.SessionRepo, cfg Config) *Generator {
	return &Generator{
		attempter: attempter,
		sessions:  sessions,
		config:    cfg,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// WithRand replaces the topic picker's random source. Used by tests.
func (g *Generator) WithRand(rng *rand.Rand) *Generator {
	g.rng = rng
	return g
}

// Generate creates and persists one problem. On any failure nothing is
// persisted and a *GenerateError is returned.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*store.Session, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	difficulty := input.Difficulty
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	subStrand := ""
	if s, ok := syllabus.Lookup(input.SubStrand); ok {
		subStrand = s.Name
	} else if input.SubStrand != "" {
		log.Debug().Str("sub_strand", input.SubStrand).Msg("unknown sub-strand, using fallback topic")
	}
	topic := g.pickTopic(subStrand)

	prompt := buildUserMessage(subStrand, topic, difficulty, g.priorProblems(ctx, subStrand), g.config.MaxPriorProblems)

	res, err := g.attempter.Generate(ctx, llm.AttemptRequest{
		System:          systemPrompt,
		Prompt:          prompt,
		Mode:            llm.ModeStructured,
		Fields:          problemFields,
		ReasoningEffort: llm.ReasoningLow,
		MaxTokens:       g.config.MaxTokens,
		Temperature:     g.config.Temperature,
		MaxAttempts:     g.config.MaxAttempts,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &GenerateError{Message: MsgNoResponse, Err: ctxErr}
		}
		return nil, &GenerateError{Message: classify(err), Err: err}
	}

	problemText, _ := res.Fields[fieldProblemText].(string)
	problemText = strings.TrimSpace(problemText)
	answer, ok := res.Numbers[fieldCorrectAnswer]
	if problemText == "" || !ok || math.IsNaN(answer) || math.IsInf(answer, 0) {
		return nil, &GenerateError{Message: MsgNotNumeric, Err: &llm.ErrValidation{NotNumeric: []string{fieldCorrectAnswer}}}
	}

	session := &store.Session{
		ProblemText:   problemText,
		CorrectAnswer: answer,
		Difficulty:    strPtr(string(difficulty)),
		Topic:         strPtr(topic),
	}
	if subStrand != "" {
		session.SubStrand = strPtr(subStrand)
	}

	if err := g.sessions.Create(ctx, session); err != nil {
		return nil, &GenerateError{Message: MsgSaveFailed, Err: err}
	}

	log.Info().
		Str("session_id", session.ID).
		Str("sub_strand", subStrand).
		Str("difficulty", string(difficulty)).
		Int("attempts", res.Attempts).
		Msg("problem generated")

	return session, nil
}

func (g *Generator) pickTopic(subStrand string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	topic, _ := syllabus.RandomTopic(subStrand, g.rng)
	return topic
}

// priorProblems is best effort; a failed lookup only loses deduplication.
func (g *Generator) priorProblems(ctx context.Context, subStrand string) []string {
	if g.config.MaxPriorProblems <= 0 {
		return nil
	}
	prior, err := g.sessions.RecentProblems(ctx, subStrand, g.config.MaxPriorProblems)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("failed to load recent problems")
		}
		return nil
	}
	return prior
}

func strPtr(s string) *string { return &s }
