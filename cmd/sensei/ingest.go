package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Index the study-notes corpus into the vector store",
	Long: `Walk the notes directory, chunk each document, embed the chunks
and upsert them into the vector index. Record IDs are deterministic, so
re-running over an unchanged corpus leaves the index unchanged.

Examples:
  # Ingest with defaults
  sensei ingest

  # Ingest a specific directory into Qdrant
  SENSEI_CORPUS_PATH=~/dsa-notes SENSEI_VECTORSTORE_PROVIDER=qdrant sensei ingest`,
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.newIngestPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := p.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Documents processed: %d\n", report.DocumentsProcessed)
	fmt.Printf("Chunks indexed:      %d\n", report.ChunksIndexed)
	fmt.Printf("Chunks skipped:      %d\n", report.ChunksSkipped)
	fmt.Printf("Duration:            %s\n", report.Duration.Round(time.Millisecond))
	return nil
}
