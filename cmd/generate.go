package cmd

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/problemgen"
	"github.com/abhisek/p5math/internal/store"
	"github.com/abhisek/p5math/internal/syllabus"
	"github.com/abhisek/p5math/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate and save one problem",
	Long: "Generate one Primary 5 word problem with the configured LLM and save it.\n\nSub-strands:\n  " +
		strings.Join(syllabus.Names(), "\n  "),
	RunE: func(cmd *cobra.Command, args []string) error {
		subStrand, _ := cmd.Flags().GetString("sub-strand")
		rawDifficulty, _ := cmd.Flags().GetString("difficulty")
		showAnswer, _ := cmd.Flags().GetBool("show-answer")

		difficulty, err := problemgen.ParseDifficulty(rawDifficulty)
		if err != nil {
			return err
		}
		if subStrand != "" {
			if _, ok := syllabus.Lookup(subStrand); !ok {
				return fmt.Errorf("unknown sub-strand %q (see p5math generate --help)", subStrand)
			}
		}

		cfg, closer, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg.LLM, s.EventRepo())
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		gen := problemgen.New(llm.NewAttempter(provider, cfg.LLM.MaxAttempts), s.SessionRepo(), problemgen.DefaultConfig())
		session, err := gen.Generate(ctx, problemgen.GenerateInput{SubStrand: subStrand, Difficulty: difficulty})
		if err != nil {
			return err
		}

		_, err = lipgloss.Fprintln(cmd.OutOrStdout(), renderSession(session, showAnswer))
		return err
	},
}

func init() {
	generateCmd.Flags().StringP("sub-strand", "s", "", "Syllabus sub-strand, e.g. \"Fractions\"")
	generateCmd.Flags().StringP("difficulty", "d", string(problemgen.DefaultDifficulty), "easy, medium or hard")
	generateCmd.Flags().Bool("show-answer", false, "Also print the correct answer")
}

func renderSession(s *store.Session, showAnswer bool) string {
	lines := []string{
		theme.Title.Render(s.ProblemText),
		"",
		theme.Field("Session", s.ID),
	}
	if s.SubStrand != nil {
		lines = append(lines, theme.Field("Sub-strand", *s.SubStrand))
	}
	if s.Topic != nil {
		lines = append(lines, theme.Field("Topic", *s.Topic))
	}
	if s.Difficulty != nil {
		lines = append(lines, theme.Field("Difficulty", *s.Difficulty))
	}
	if showAnswer {
		lines = append(lines, theme.Field("Answer", formatNumber(s.CorrectAnswer)))
	}
	return theme.Card.Render(strings.Join(lines, "\n"))
}
