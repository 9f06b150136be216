package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/quizziebot/quizzie/internal/llm"
	"github.com/quizziebot/quizzie/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the requests made by the practice quiz generator",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		events = filterPurpose(events, purpose)
		if len(events) == 0 {
			fmt.Println("No LLM requests recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-16s  %-9s  %-28s  %6s  %6s  %6s  %s\n",
			"ID", "When", "Purpose", "Model", "In", "Out", "Ms", "OK")
		fmt.Println(rule(96))
		for _, e := range events {
			fmt.Printf("%-5d  %-16s  %-9s  %-28s  %6d  %6d  %6d  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Purpose,
				truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens, e.LatencyMs,
				okMark(e.Success),
			)
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		printEvent(e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		printPurposeUsage(byPurpose)
		if len(byModel) > 0 {
			fmt.Println()
			printModelCost(byModel)
		}
		return nil
	},
}

func filterPurpose(events []store.LLMEvent, purpose string) []store.LLMEvent {
	if purpose == "" {
		return events
	}
	out := events[:0]
	for _, e := range events {
		if e.Purpose == purpose {
			out = append(out, e)
		}
	}
	return out
}

func printEvent(e *store.LLMEvent) {
	fmt.Printf("ID:        %d\n", e.ID)
	fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Provider:  %s\n", e.Provider)
	fmt.Printf("Model:     %s\n", e.Model)
	fmt.Printf("Purpose:   %s\n", e.Purpose)
	fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Printf("Latency:   %dms\n", e.LatencyMs)
	fmt.Printf("Success:   %v\n", e.Success)
	if e.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", e.ErrorMessage)
	}
	for _, part := range []struct{ label, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Println()
		fmt.Println(rule(60))
		fmt.Println(part.label)
		fmt.Println(rule(60))
		if part.body == "" {
			fmt.Println("(not captured)")
		} else {
			fmt.Println(part.body)
		}
	}
}

func printPurposeUsage(rows []store.PurposeUsage) {
	fmt.Println("Usage by Purpose")
	fmt.Println(rule(72))
	fmt.Printf("%-16s  %6s  %10s  %10s  %10s  %8s\n", "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Println(rule(72))

	var calls, in, out int
	for _, r := range rows {
		fmt.Printf("%-16s  %6d  %10d  %10d  %10d  %8d\n",
			r.Purpose, r.Calls, r.InputTokens, r.OutputTokens, r.InputTokens+r.OutputTokens, r.AvgLatencyMs)
		calls += r.Calls
		in += r.InputTokens
		out += r.OutputTokens
	}
	fmt.Println(rule(72))
	fmt.Printf("%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)
}

func printModelCost(rows []store.ModelUsage) {
	fmt.Println("Estimated Cost (USD)")
	fmt.Println(rule(72))
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Println(rule(72))

	var total float64
	var unpriced []string
	for _, r := range rows {
		cost := "?"
		if c := llm.LookupCost(r.Model); c != nil {
			usd := c.Cost(r.InputTokens, r.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, r.Model)
		}
		fmt.Printf("%-32s  %6d  %10d  %10d  %10s\n", truncate(r.Model, 32), r.Calls, r.InputTokens, r.OutputTokens, cost)
	}
	fmt.Println(rule(72))

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Printf("%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func okMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func rule(n int) string { return strings.Repeat("─", n) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// openStore opens only the database, for commands that never reach the
// backend.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg.Store.DB)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose ("+llm.PurposeQuizGen+" or "+llm.PurposeTopics+")")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
