package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file.pdf]",
	Short: "Ingest a PDF document",
	Long: `Extracts text from a PDF file, splits it into overlapping chunks,
embeds each chunk, and stores the result for retrieval.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	receipt, err := app.ingestor.IngestPDF(cmd.Context(), filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s: %d chunks\n", receipt.DocumentName, receipt.ChunksWritten)
	return nil
}
