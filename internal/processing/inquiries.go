package processing

import (
	"context"
	"strings"

	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/sheets"

	"github.com/rs/zerolog/log"
)

// Classifier produces a thesis-alignment result for one description.
type Classifier interface {
	Classify(ctx context.Context, description string) (*classify.Result, error)
}

// OpportunityStore appends a classified inquiry to the audit log.
type OpportunityStore interface {
	InsertOpportunity(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error
}

// Notifier alerts the team about a classified inquiry when it qualifies.
type Notifier interface {
	NotifyHighPriority(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error
}

// RowWriter marks a sheet row as processed with its classification.
type RowWriter interface {
	UpdateProcessedRow(ctx context.Context, rowIndex int, result *classify.Result) error
}

// Pipeline wires the per-inquiry steps together.
type Pipeline struct {
	Classifier Classifier
	Store      OpportunityStore
	Notifier   Notifier
	Writer     RowWriter
}

// Stats summarizes one run.
type Stats struct {
	Processed int
	Skipped   int
	Failed    int
}

// ProcessInquiries handles each inquiry in selection order: classify, store,
// notify, write back. Inquiries without a description and inquiries the
// classifier cannot handle are skipped before any state changes. Failures in
// later steps are logged and the run moves on to the next inquiry, so one
// bad row never blocks the rest of the batch. A write-back failure after a
// successful store leaves the row eligible for reprocessing on the next run.
func (p *Pipeline) ProcessInquiries(ctx context.Context, inquiries []sheets.Inquiry) Stats {
	var stats Stats

	for _, inquiry := range inquiries {
		company := inquiry.CompanyName()
		log.Info().Str("company", company).Int("row", inquiry.RowIndex).Msg("Processing inquiry")

		description := strings.TrimSpace(inquiry.Description())
		if description == "" {
			log.Info().Str("company", company).Msg("Skipping inquiry with no description")
			stats.Skipped++
			continue
		}

		result, err := p.Classifier.Classify(ctx, description)
		if err != nil {
			log.Warn().Err(err).Str("company", company).Msg("Skipping inquiry after classification failure")
			stats.Skipped++
			continue
		}

		if err := p.Store.InsertOpportunity(ctx, inquiry, result); err != nil {
			log.Error().Err(err).Str("company", company).Msg("Failed to store opportunity")
			stats.Failed++
			continue
		}
		log.Debug().Str("company", company).Msg("Stored opportunity")

		if err := p.Notifier.NotifyHighPriority(ctx, inquiry, result); err != nil {
			// Alerts are best-effort; the row is still marked processed.
			log.Warn().Err(err).Str("company", company).Msg("Notification failed")
		}

		if err := p.Writer.UpdateProcessedRow(ctx, inquiry.RowIndex, result); err != nil {
			log.Error().Err(err).
				Str("company", company).
				Int("row", inquiry.RowIndex).
				Msg("Failed to write back row; it will be reprocessed next run")
			stats.Failed++
			continue
		}

		stats.Processed++
	}

	log.Info().
		Int("processed", stats.Processed).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Finished processing inquiries")

	return stats
}
