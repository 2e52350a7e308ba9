package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/auth"
	"github.com/ai-tools-poll/pollserver/internal/config"
	"github.com/ai-tools-poll/pollserver/internal/model"
)

// Store implements the Storage interface on top of a single Google Sheet.
// All reads go through a short-TTL cache; writes invalidate it.
type Store struct {
	api   rowAPI
	cfg   config.PollConfig
	cache *rowCache
	now   func() time.Time

	spreadsheetID string
	worksheet     string
}

// NewStore creates a store bound to the configured poll spreadsheet. Call
// Open before using it.
func NewStore(client *auth.Client, cfg config.PollConfig) *Store {
	return newStore(newGoogleAPI(client), cfg)
}

func newStore(api rowAPI, cfg config.PollConfig) *Store {
	return &Store{
		api:   api,
		cfg:   cfg,
		cache: newRowCache(cfg.CacheTTL),
		now:   time.Now,
	}
}

// Open resolves the poll spreadsheet by title, creating it when allowed,
// and checks the header row.
func (s *Store) Open(ctx context.Context) error {
	slog.Info("Opening poll spreadsheet", "title", s.cfg.SpreadsheetTitle)

	id, err := s.api.findSpreadsheet(ctx, s.cfg.SpreadsheetTitle)
	if err != nil {
		return fmt.Errorf("failed to look up spreadsheet: %w", err)
	}

	created := false
	if id == "" {
		if !s.cfg.CreateIfMissing {
			return fmt.Errorf("%w: %q", ErrSpreadsheetNotFound, s.cfg.SpreadsheetTitle)
		}

		slog.Info("Spreadsheet not found, creating", "title", s.cfg.SpreadsheetTitle)
		id, err = s.api.createSpreadsheet(ctx, s.cfg.SpreadsheetTitle)
		if err != nil {
			return err
		}
		created = true
	}

	s.spreadsheetID = id

	s.worksheet, err = s.api.firstSheetTitle(ctx, id)
	if err != nil {
		return err
	}

	if created {
		if err := s.writeHeader(ctx); err != nil {
			return err
		}
		slog.Info("Spreadsheet created", "spreadsheet_id", id, "worksheet", s.worksheet)
		return nil
	}

	if err := s.validateHeaders(ctx); err != nil {
		return err
	}

	slog.Info("Spreadsheet opened", "spreadsheet_id", id, "worksheet", s.worksheet)
	return nil
}

// validateHeaders compares row 1 against the expected columns. An entirely
// empty sheet just gets the header written. A mismatching header is only
// repaired when the operator allowed the reset, because the repair clears
// every stored row.
func (s *Store) validateHeaders(ctx context.Context) error {
	rows, err := s.api.getRange(ctx, s.spreadsheetID, s.headerRange())
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	if len(rows) == 0 || len(rows[0]) == 0 {
		slog.Info("Sheet has no header row, writing it", "worksheet", s.worksheet)
		return s.writeHeader(ctx)
	}

	if headerMatches(rows[0]) {
		return nil
	}

	if !s.cfg.AllowHeaderReset {
		return fmt.Errorf("%w: got %v, want %v (set SHEETS_ALLOW_HEADER_RESET=true to clear and rewrite)",
			ErrHeaderMismatch, rows[0], model.Header)
	}

	dataRows, err := s.api.getRange(ctx, s.spreadsheetID, s.dataRange())
	if err != nil {
		return fmt.Errorf("failed to count rows before reset: %w", err)
	}

	slog.Warn("Header row mismatch, clearing sheet and rewriting header",
		"got", fmt.Sprint(rows[0]),
		"want", fmt.Sprint(model.Header),
		"discarded_rows", len(dataRows))

	if err := s.api.clearRange(ctx, s.spreadsheetID, s.worksheet); err != nil {
		return err
	}
	s.cache.invalidate()

	return s.writeHeader(ctx)
}

// ReadAll returns every stored response in submission order, served from
// the TTL cache when fresh.
func (s *Store) ReadAll(ctx context.Context) ([]model.Response, error) {
	if rows, ok := s.cache.get(s.now()); ok {
		slog.Debug("Serving responses from cache", "count", len(rows))
		return rows, nil
	}

	slog.Debug("Reading responses from sheet", "worksheet", s.worksheet)

	values, err := s.api.getRange(ctx, s.spreadsheetID, s.dataRange())
	if err != nil {
		return nil, fmt.Errorf("failed to read responses: %w", err)
	}

	responses := rowsToResponses(values)
	s.cache.put(responses, s.now())

	return responses, nil
}

// Append stores one new response and invalidates the read cache so the
// next read is fresh.
func (s *Store) Append(ctx context.Context, resp model.Response) error {
	slog.Info("Appending response", "name", resp.Name, "option", resp.SelectedOption)

	if err := s.api.appendRow(ctx, s.spreadsheetID, s.dataRange(), resp.Row()); err != nil {
		return err
	}

	s.cache.invalidate()
	return nil
}

func (s *Store) writeHeader(ctx context.Context) error {
	header := make([]interface{}, len(model.Header))
	for i, col := range model.Header {
		header[i] = col
	}

	if err := s.api.updateRange(ctx, s.spreadsheetID, s.headerRange(), [][]interface{}{header}); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

func (s *Store) headerRange() string {
	return fmt.Sprintf("'%s'!A1:D1", s.worksheet)
}

func (s *Store) dataRange() string {
	return fmt.Sprintf("'%s'!A2:D", s.worksheet)
}

// headerMatches compares a raw header row element-wise with the expected
// column sequence.
func headerMatches(row []interface{}) bool {
	if len(row) != len(model.Header) {
		return false
	}
	for i, cell := range row {
		if fmt.Sprint(cell) != model.Header[i] {
			return false
		}
	}
	return true
}

// rowsToResponses maps raw sheet rows to responses. Short rows are padded
// so older three-column entries still read cleanly; fully empty rows are
// skipped.
func rowsToResponses(values [][]interface{}) []model.Response {
	responses := make([]model.Response, 0, len(values))

	for _, row := range values {
		cells := make([]string, len(model.Header))
		empty := true
		for i := range cells {
			if i < len(row) && row[i] != nil {
				cells[i] = fmt.Sprint(row[i])
				if cells[i] != "" {
					empty = false
				}
			}
		}
		if empty {
			continue
		}

		responses = append(responses, model.Response{
			Name:           cells[0],
			SelectedOption: cells[1],
			Comments:       cells[2],
			Timestamp:      cells[3],
		})
	}

	return responses
}
