package sheets

import (
	"context"
	"fmt"

	"deal_flow_triage/internal/app"
	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/config"
	"deal_flow_triage/internal/retry"

	"github.com/rs/zerolog/log"
)

// ProcessedStatus is written to the Status column once a row has been handled.
const ProcessedStatus = "Processed"

// Writer marks intake rows as processed so they are not picked up again.
type Writer struct {
	client *Client
	cfg    app.Config
}

func NewWriter(client *Client, cfg app.Config) *Writer {
	return &Writer{client: client, cfg: cfg}
}

// UpdateProcessedRow overwrites columns F-H (Status, AI Summary, Alignment
// Score) of the given 1-based row. There is no conflict detection; the
// pipeline is the only writer of these columns.
func (w *Writer) UpdateProcessedRow(ctx context.Context, rowIndex int, result *classify.Result) error {
	values := [][]interface{}{
		{ProcessedStatus, stringOrEmpty(result.Summary), intOrEmpty(result.AlignmentScore)},
	}

	// Status lives in column F; summary and score follow in G and H.
	cellRange := fmt.Sprintf("%s!F%d", w.cfg.SheetName, rowIndex)
	log.Debug().Int("row", rowIndex).Str("range", cellRange).Msg("Writing back processed row")

	_, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.SheetWrite, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, w.client.UpdateRange(ctx, w.cfg.SpreadsheetID, cellRange, values)
	})
	if err != nil {
		return fmt.Errorf("failed to write back row %d: %w", rowIndex, err)
	}

	log.Info().Int("row", rowIndex).Msg("Updated intake sheet row")
	return nil
}

// stringOrEmpty renders an optional string field as a sheet cell value.
func stringOrEmpty(s *string) interface{} {
	if s == nil {
		return ""
	}
	return *s
}

// intOrEmpty renders an optional integer field as a sheet cell value.
func intOrEmpty(n *int) interface{} {
	if n == nil {
		return ""
	}
	return *n
}
