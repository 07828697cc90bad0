package grading

import (
	"bytes"
	"text/template"
)

const feedbackSystemPrompt = `You are an encouraging Primary 5 math tutor. You write short, friendly feedback for a student who has just answered a word problem.`

type feedbackData struct {
	ProblemText   string
	CorrectAnswer string
	UserAnswer    string
	IsCorrect     bool
}

var feedbackTemplate = template.Must(template.New("feedback").Parse(`Problem: {{.ProblemText}}
Correct answer: {{.CorrectAnswer}}
Student's answer: {{.UserAnswer}}
Result: {{if .IsCorrect}}Correct{{else}}Incorrect{{end}}

Write short, friendly, personalized feedback (1-3 sentences) that:
- Encourages the student
- Explains simply where they went wrong, if they made a mistake
- Praises their reasoning, if they are correct

Return only plain text (no JSON, no markdown).`))

func buildFeedbackMessage(data feedbackData) (string, error) {
	var buf bytes.Buffer
	if err := feedbackTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Fallback feedback used when the model cannot produce any.
const (
	FallbackCorrect   = "Great job! You got it right. Keep up the good work!"
	FallbackIncorrect = "Good effort! Keep practicing to improve your math skills."
)

// fallbackFeedback returns the fixed feedback for the verdict.
func fallbackFeedback(isCorrect bool) string {
	if isCorrect {
		return FallbackCorrect
	}
	return FallbackIncorrect
}
