package sheets

import (
	"context"
	"fmt"
	"strings"

	"deal_flow_triage/internal/app"
	"deal_flow_triage/internal/config"
	"deal_flow_triage/internal/retry"

	"github.com/rs/zerolog/log"
)

// Column names the pipeline reads from the intake form tab.
const (
	ColTimestamp   = "Timestamp"
	ColCompanyName = "Company Name"
	ColContact     = "Contact Email"
	ColWebsite     = "Company Website"
	ColDescription = "Opportunity Description"
	ColStatus      = "Status"
)

// Inquiry is a single unprocessed form submission: the row's cells keyed by
// header name, plus the 1-based sheet row for later write-back.
type Inquiry struct {
	RowIndex int
	Fields   map[string]string
}

// Field returns the named cell value, or "" when the column is missing.
func (i Inquiry) Field(name string) string {
	return i.Fields[name]
}

func (i Inquiry) CompanyName() string { return i.Field(ColCompanyName) }
func (i Inquiry) Description() string { return i.Field(ColDescription) }

// SelectNewInquiries filters raw tab contents down to the rows that still
// need processing. The first row is the header; a data row is new exactly
// when its Status cell is empty or whitespace. Row order is preserved and
// RowIndex accounts for the header plus 1-based sheet numbering.
func SelectNewInquiries(values [][]interface{}) []Inquiry {
	if len(values) < 2 {
		log.Debug().Int("rows", len(values)).Msg("No data rows found")
		return nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = cellString(cell)
	}

	var inquiries []Inquiry
	for i, row := range values[1:] {
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			fields[name] = extractCell(row, j)
		}

		if strings.TrimSpace(fields[ColStatus]) != "" {
			continue
		}

		inquiries = append(inquiries, Inquiry{
			// +2 because the sheet is 1-indexed and row 1 is the header
			RowIndex: i + 2,
			Fields:   fields,
		})
	}

	log.Debug().
		Int("total_rows", len(values)-1).
		Int("new_inquiries", len(inquiries)).
		Msg("Selected new inquiries")

	return inquiries
}

// FetchNewInquiries reads the full intake tab and returns the unprocessed rows.
func FetchNewInquiries(ctx context.Context, client *Client, cfg app.Config) ([]Inquiry, error) {
	readRange := fmt.Sprintf("%s!A:H", cfg.SheetName)
	log.Debug().Str("range", readRange).Msg("Reading intake sheet")

	values, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.SheetRead, func(ctx context.Context) ([][]interface{}, error) {
		return client.ReadSheet(ctx, cfg.SpreadsheetID, readRange)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}

	inquiries := SelectNewInquiries(values)
	log.Info().Int("count", len(inquiries)).Msg("Found new inquiries")
	return inquiries, nil
}

// extractCell safely extracts a string cell from a row at the given index
func extractCell(row []interface{}, index int) string {
	if len(row) > index && row[index] != nil {
		return cellString(row[index])
	}
	return ""
}

func cellString(cell interface{}) string {
	return fmt.Sprintf("%v", cell)
}
