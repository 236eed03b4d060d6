package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/config"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/db"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/llm"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/scoring"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/server"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/tasks"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes calibration, upload, ranking and analytics endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	ctx := cmd.Context()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	scorer, cleanup := buildScorer(ctx)
	defer cleanup()

	runner := tasks.NewRunner(database, scorer, cfg.ScoringConcurrency)
	return server.New(cfg, database, runner).Start()
}

// buildScorer assembles the scoring chain: a model-backed primary when an
// LLM API key is configured, with the rule-based engine as the fallback
// (and as the only scorer otherwise). Scoring always stays available, so a
// broken provider setup degrades to rule-based instead of aborting startup.
func buildScorer(ctx context.Context) (scoring.Scorer, func()) {
	ruleBased := scoring.NewRuleBasedScorer()

	llmCfg := llm.ConfigFromEnv()
	if llmCfg.APIKey == "" {
		log.Printf("no LLM API key configured, using rule-based scoring only")
		return ruleBased, func() {}
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		log.Printf("failed to create %s client, using rule-based scoring only: %v", llmCfg.Provider, err)
		return ruleBased, func() {}
	}
	log.Printf("model-backed scoring enabled with %s (%s)", llmCfg.Provider, client.Model())

	scorer := &scoring.FallbackScorer{
		Primary:  llm.NewModelBackedScorer(client),
		Fallback: ruleBased,
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Printf("failed to close LLM client: %v", err)
		}
	}
	return scorer, cleanup
}
