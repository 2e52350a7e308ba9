package sheets

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	"github.com/ai-tools-poll/pollserver/internal/auth"
)

// rowAPI is the slice of the Sheets/Drive API the store needs. Tests
// substitute a fake backend behind it.
type rowAPI interface {
	findSpreadsheet(ctx context.Context, title string) (string, error)
	createSpreadsheet(ctx context.Context, title string) (string, error)
	firstSheetTitle(ctx context.Context, spreadsheetID string) (string, error)
	getRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	updateRange(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
	appendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error
	clearRange(ctx context.Context, spreadsheetID, clearRange string) error
}

// googleAPI implements rowAPI against the real Google services
type googleAPI struct {
	sheets *sheets.Service
	drive  *drive.Service
}

func newGoogleAPI(client *auth.Client) *googleAPI {
	return &googleAPI{
		sheets: client.Sheets,
		drive:  client.Drive,
	}
}

// findSpreadsheet resolves a spreadsheet ID by exact title. Returns an
// empty ID when no spreadsheet matches.
func (g *googleAPI) findSpreadsheet(ctx context.Context, title string) (string, error) {
	query := fmt.Sprintf(
		"name = '%s' and mimeType = 'application/vnd.google-apps.spreadsheet' and trashed = false",
		strings.ReplaceAll(title, `'`, `\'`),
	)

	list, err := g.drive.Files.List().
		Q(query).
		Fields("files(id, name)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive lookup failed: %w", err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (g *googleAPI) createSpreadsheet(ctx context.Context, title string) (string, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create spreadsheet: %w", err)
	}
	return spreadsheet.SpreadsheetId, nil
}

// firstSheetTitle returns the title of the first worksheet, which is
// always the poll's target.
func (g *googleAPI) firstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	spreadsheet, err := g.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("sheets(properties(title,index))").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	if len(spreadsheet.Sheets) == 0 {
		return "", fmt.Errorf("spreadsheet %s has no worksheets", spreadsheetID)
	}
	return spreadsheet.Sheets[0].Properties.Title, nil
}

func (g *googleAPI) getRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := g.sheets.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}
	return resp.Values, nil
}

func (g *googleAPI) updateRange(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	_, err := g.sheets.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: rows,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update range %s: %w", writeRange, err)
	}
	return nil
}

func (g *googleAPI) appendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error {
	// RAW stores cells exactly as submitted: timestamps stay strings,
	// numeric-looking names keep their digits and "=" comments never
	// become live formulas.
	_, err := g.sheets.Spreadsheets.Values.Append(spreadsheetID, appendRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}
	return nil
}

func (g *googleAPI) clearRange(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := g.sheets.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear range %s: %w", clearRange, err)
	}
	return nil
}
