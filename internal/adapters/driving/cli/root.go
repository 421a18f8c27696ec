// Package cli implements the docsage command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docsage-labs/docsage/internal/adapters/driven/config/file"
	ollamaembed "github.com/docsage-labs/docsage/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docsage-labs/docsage/internal/adapters/driven/embedding/openai"
	pdfextract "github.com/docsage-labs/docsage/internal/adapters/driven/extract/pdf"
	ollamallm "github.com/docsage-labs/docsage/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docsage-labs/docsage/internal/adapters/driven/llm/openai"
	"github.com/docsage-labs/docsage/internal/adapters/driven/storage/sqlite"
	"github.com/docsage-labs/docsage/internal/chunker"
	"github.com/docsage-labs/docsage/internal/config"
	"github.com/docsage-labs/docsage/internal/core/ports/driven"
	"github.com/docsage-labs/docsage/internal/core/services"
	"github.com/docsage-labs/docsage/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docsage",
	Short: "Ask questions about your PDF documents",
	Long: `Docsage ingests PDF documents, indexes their content as vector
embeddings, and answers natural-language questions grounded in the
indexed text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.docsage/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles the wired services and their closers.
type app struct {
	cfg      config.Config
	ingestor *services.IngestService
	answerer *services.QueryService
	history  driven.HistoryStore
	closers  []func() error
}

// buildApp wires adapters and services from configuration.
func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	dataDir, err := cfg.DataDir()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}

	chunkStore, err := sqlite.NewChunkStore(filepath.Join(dataDir, "metadata.db"))
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}
	a.closers = append(a.closers, chunkStore.Close)

	vectorIndex, err := sqlite.NewVectorIndex(filepath.Join(dataDir, "vectors.db"), cfg.Embedding.Dimensions)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("opening vector store: %w", err)
	}
	a.closers = append(a.closers, vectorIndex.Close)

	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, embedder.Close)

	llm, err := buildLLM(cfg.LLM)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, llm.Close)

	prompts, err := file.NewPromptStore(cfg.Prompts.Dir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("creating prompt store: %w", err)
	}

	splitter, err := chunker.New(cfg.Chunking.WindowSize, cfg.Chunking.Overlap)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configuring chunker: %w", err)
	}

	a.ingestor = services.NewIngestService(
		pdfextract.NewExtractor(),
		embedder,
		chunkStore,
		vectorIndex,
		splitter,
	)

	a.answerer = services.NewQueryService(embedder, vectorIndex, chunkStore, llm, cfg.Retrieval.TopK)
	a.answerer.SetPromptStore(prompts)

	a.history = chunkStore

	logger.Debug("wired embedding=%s llm=%s data=%s", embedder.ModelName(), llm.ModelName(), dataDir)
	return a, nil
}

// Close releases every wired resource, keeping the first error.
func (a *app) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildEmbedder(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case "openai":
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
	default:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		}), nil
	}
}

func buildLLM(cfg config.LLMConfig) (driven.LLMService, error) {
	switch cfg.Provider {
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
	default:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		}), nil
	}
}
