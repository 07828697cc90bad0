package problemgen

import "github.com/abhisek/p5math/internal/llm"

const (
	fieldProblemText   = "problem_text"
	fieldCorrectAnswer = "correct_answer"
)

// ProblemSchema is checked after the required-field and numeric checks.
// correct_answer may arrive as a number or a numeric string.
var ProblemSchema = &llm.Schema{
	Name: "math-problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			fieldProblemText: map[string]any{
				"type":      "string",
				"minLength": 1,
				"maxLength": 1000,
				"pattern":   `\S`,
			},
			fieldCorrectAnswer: map[string]any{
				"type": []any{"number", "string"},
			},
		},
		"required": []any{fieldProblemText, fieldCorrectAnswer},
	},
}

// problemFields is what a generation response must contain.
var problemFields = llm.Fields{
	Required: []string{fieldProblemText, fieldCorrectAnswer},
	Numeric:  []string{fieldCorrectAnswer},
	Schema:   ProblemSchema,
}
