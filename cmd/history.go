package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/p5math/internal/history"
	"github.com/abhisek/p5math/internal/store"
	"github.com/abhisek/p5math/internal/ui/theme"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show generated problems and their submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

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

		sessions, err := history.NewReader(s.SessionRepo()).Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No problems generated yet.")
			return nil
		}
		_, err = lipgloss.Fprintln(out, renderHistory(sessions))
		return err
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 10, "Number of problems to show (0 for all)")
}

func renderHistory(sessions []store.Session) string {
	blocks := make([]string, 0, len(sessions))
	for _, s := range sessions {
		var b strings.Builder
		b.WriteString(theme.Title.Render(s.ProblemText))
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render(fmt.Sprintf("%s  ·  %s  ·  answer %s",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.ID, formatNumber(s.CorrectAnswer))))

		if len(s.Submissions) == 0 {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("No submissions yet."))
		} else {
			t := theme.NewTable("", "Answer", "Time", "Feedback")
			for _, sub := range s.Submissions {
				t.Row(
					theme.Verdict(sub.IsCorrect),
					formatNumber(sub.UserAnswer),
					sub.CreatedAt.Local().Format("15:04:05"),
					truncate(sub.FeedbackText, 60),
				)
			}
			b.WriteString("\n")
			b.WriteString(t.Render())
		}
		blocks = append(blocks, theme.Card.Render(b.String()))
	}
	return strings.Join(blocks, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
