package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question from the command line",
	Long: `Answer a question directly, without going through the HTTP server.

Examples:
  sensei ask "explain the two pointers technique"
  sensei ask how does binary search work`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	question := strings.Join(args, " ")
	resp, err := a.tutor.Answer(context.Background(), question)
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	fmt.Println(resp.Answer)
	if len(resp.Contexts) > 0 {
		fmt.Println("\nSources:")
		for _, c := range resp.Contexts {
			fmt.Printf("  %s (%s, score %.3f)\n", c.Source, c.Provenance, c.Score)
		}
	}
	return nil
}
