package main

import (
	"context"
	"time"

	"deal_flow_triage/internal/app"
	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/notify"
	"deal_flow_triage/internal/processing"
	"deal_flow_triage/internal/sheets"
	"deal_flow_triage/internal/store"

	"github.com/rs/zerolog/log"
)

func main() {
	app.SetupEnvironment()
	cfg := app.LoadConfig()

	ctx := context.Background()

	sheetsClient, err := sheets.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create sheets client")
	}

	classifier, err := classify.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create gemini client")
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open opportunities database")
	}
	defer db.Close()

	pipeline := &processing.Pipeline{
		Classifier: classifier,
		Store:      db,
		Notifier:   notify.NewClient(cfg.SlackWebhookURL, cfg.SlackEnabled),
		Writer:     sheets.NewWriter(sheetsClient, cfg),
	}

	log.Info().Msg("Starting deal flow triage pipeline")
	runPipeline(ctx, cfg, sheetsClient, pipeline)

	if cfg.RunInterval <= 0 {
		log.Info().Msg("Pipeline run complete")
		return
	}

	ticker := time.NewTicker(cfg.RunInterval)
	defer ticker.Stop()

	for range ticker.C {
		runPipeline(ctx, cfg, sheetsClient, pipeline)
	}
}

// runPipeline executes one fetch-and-process cycle. Individual inquiry
// failures are absorbed inside the pipeline; only a failed fetch ends the
// cycle early, and even that exits cleanly so the scheduler can try again.
func runPipeline(ctx context.Context, cfg app.Config, sheetsClient *sheets.Client, pipeline *processing.Pipeline) {
	inquiries, err := sheets.FetchNewInquiries(ctx, sheetsClient, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch new inquiries")
		return
	}

	if len(inquiries) == 0 {
		log.Info().Msg("No new inquiries to process")
		return
	}

	pipeline.ProcessInquiries(ctx, inquiries)
}
