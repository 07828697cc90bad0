package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a math teacher writing practice word problems for Primary 5 students following the Singapore mathematics syllabus.

Rules:
- You MUST return EXACTLY one JSON object and nothing else.
- The object has two keys: "problem_text" (string) and "correct_answer" (number).
- problem_text is a short word problem of 1-2 sentences, self-contained and age-appropriate.
- correct_answer is the single numeric final answer, with no units and no working.
- Use plain ASCII text. No LaTeX.
- Do not include explanations or extra text, only the JSON object.
- Do not repeat any problem from the "already asked" list.

Example:
{"problem_text":"A bakery sold 45 cupcakes in 3 equal boxes. How many cupcakes were in each box?","correct_answer":15}`

var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:   "a single-step problem with small, friendly numbers",
	DifficultyMedium: "a two-step problem typical of a class exercise",
	DifficultyHard:   "a multi-step problem typical of the harder questions in a school exam",
}

// buildUserMessage constructs the user message for one generation.
func buildUserMessage(subStrand, topic string, difficulty Difficulty, prior []string, maxPrior int) string {
	var b strings.Builder

	if subStrand != "" {
		fmt.Fprintf(&b, "Sub-strand: %s\n", subStrand)
	}
	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", difficulty, difficultyGuidance[difficulty])

	b.WriteString("\nAlready asked:\n")
	b.WriteString(buildDedup(prior, maxPrior))

	return b.String()
}

// buildDedup formats prior problems for the prompt, respecting the max limit.
// Returns "None" if there are no prior problems.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	if max > 0 && len(prior) > max {
		prior = prior[:max]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
