package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/p5math/internal/llm"
	"github.com/abhisek/p5math/internal/store"
	"github.com/abhisek/p5math/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

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

		events, err := s.EventRepo().RecentLLMRequests(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := cmd.OutOrStdout()
		t := theme.NewTable("ID", "Timestamp", "Purpose", "Model", "Try", "In", "Out", "Ms", "OK")
		rows := 0
		for _, e := range events {
			if purpose != "" && e.Purpose != purpose {
				continue
			}
			t.Row(
				strconv.FormatUint(uint64(e.ID), 10),
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.Attempt),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				theme.Verdict(e.Success),
			)
			rows++
		}
		if rows == 0 {
			fmt.Fprintln(out, "No LLM events found.")
			return nil
		}
		_, err = lipgloss.Fprintln(out, t.Render())
		return err
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM usage recorded yet.")
			return nil
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		return writeUsage(out, byPurpose, byModel)
	},
}

func writeUsage(out io.Writer, byPurpose, byModel []store.LLMUsage) error {
	usage := theme.NewTable("Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	var calls, in, outTokens int
	for _, u := range byPurpose {
		usage.Row(u.Key, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
			strconv.Itoa(u.OutputTokens), strconv.Itoa(u.InputTokens+u.OutputTokens),
			strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		outTokens += u.OutputTokens
	}
	usage.Row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(outTokens),
		strconv.Itoa(in+outTokens), "")

	sections := []string{theme.Label.Render("Usage by Purpose"), usage.Render()}

	if len(byModel) > 0 {
		cost := theme.NewTable("Model", "Calls", "Input", "Output", "Cost")
		var total float64
		var unknown []string
		for _, u := range byModel {
			price := llm.LookupCost(u.Key)
			c := "?"
			if price == nil {
				unknown = append(unknown, u.Key)
			} else {
				usd := price.Cost(u.InputTokens, u.OutputTokens)
				total += usd
				c = formatCost(usd)
			}
			cost.Row(truncate(u.Key, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens),
				strconv.Itoa(u.OutputTokens), c)
		}
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		cost.Row(label, "", "", "", formatCost(total))

		sections = append(sections, "", theme.Label.Render("Estimated Cost (USD)"), cost.Render())
		if len(unknown) > 0 {
			sections = append(sections, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unknown, ", ")))
		}
	}

	_, err := lipgloss.Fprintln(out, strings.Join(sections, "\n"))
	return err
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (problem-gen or feedback)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
