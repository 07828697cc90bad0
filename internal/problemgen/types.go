package problemgen

import (
	"fmt"
	"strings"
)

// Difficulty is the requested difficulty of a generated problem.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is used when no difficulty is requested.
const DefaultDifficulty = DifficultyMedium

// AllDifficulties returns the difficulties in ascending order.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty accepts easy, medium or hard in any case. An empty string
// yields DefaultDifficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultDifficulty, nil
	}
	for _, d := range AllDifficulties() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("difficulty must be one of easy, medium, hard; got %q", s)
}

// GenerateInput selects what kind of problem to generate. Both fields are
// optional.
type GenerateInput struct {
	// SubStrand names a syllabus sub-strand. Unknown names fall back to a
	// general topic.
	SubStrand string

	// Difficulty defaults to DefaultDifficulty when empty.
	Difficulty Difficulty
}
