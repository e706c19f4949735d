package store

import (
	"context"
	"database/sql"
	"fmt"

	"deal_flow_triage/internal/classify"
	"deal_flow_triage/internal/sheets"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS opportunities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TEXT,
	company_name TEXT,
	contact_email TEXT,
	company_website TEXT,
	description TEXT,
	status TEXT,
	ai_summary TEXT,
	alignment_score INTEGER
)`

// Store is the append-only audit log of classified opportunities. Nothing in
// the pipeline reads it back; it exists for manual querying after runs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// opportunities table exists. Pass ":memory:" for an in-memory database
// (used by tests).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating opportunities table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// InsertOpportunity appends one classified inquiry. Rows are never updated
// or deleted afterwards.
func (s *Store) InsertOpportunity(ctx context.Context, inquiry sheets.Inquiry, result *classify.Result) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO opportunities (timestamp, company_name, contact_email, company_website, description, status, ai_summary, alignment_score)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inquiry.Field(sheets.ColTimestamp),
		inquiry.Field(sheets.ColCompanyName),
		inquiry.Field(sheets.ColContact),
		inquiry.Field(sheets.ColWebsite),
		inquiry.Field(sheets.ColDescription),
		sheets.ProcessedStatus,
		result.Summary,
		result.AlignmentScore,
	)
	if err != nil {
		return fmt.Errorf("inserting opportunity: %w", err)
	}
	return nil
}

// Opportunity is one stored row, read back for inspection and tests.
type Opportunity struct {
	ID             int64
	Timestamp      string
	CompanyName    string
	ContactEmail   string
	CompanyWebsite string
	Description    string
	Status         string
	AISummary      sql.NullString
	AlignmentScore sql.NullInt64
}

// ListOpportunities returns all stored rows in insertion order.
func (s *Store) ListOpportunities(ctx context.Context) ([]Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, company_name, contact_email, company_website, description, status, ai_summary, alignment_score
		FROM opportunities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}
	defer rows.Close()

	var opps []Opportunity
	for rows.Next() {
		var o Opportunity
		if err := rows.Scan(&o.ID, &o.Timestamp, &o.CompanyName, &o.ContactEmail, &o.CompanyWebsite,
			&o.Description, &o.Status, &o.AISummary, &o.AlignmentScore); err != nil {
			return nil, fmt.Errorf("scanning opportunity: %w", err)
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}
