package sheets

import (
	"context"
	"errors"

	"github.com/ai-tools-poll/pollserver/internal/model"
)

var (
	// ErrSpreadsheetNotFound is returned when the poll spreadsheet does not
	// exist and creation is disabled.
	ErrSpreadsheetNotFound = errors.New("poll spreadsheet not found")
	// ErrHeaderMismatch is returned when the stored header row differs from
	// the expected one and the operator has not allowed a reset.
	ErrHeaderMismatch = errors.New("sheet header row does not match expected columns")
)

// Storage defines the methods for working with the poll response store
type Storage interface {
	// ReadAll returns every stored response in submission order
	ReadAll(ctx context.Context) ([]model.Response, error)
	// Append stores one new response
	Append(ctx context.Context, resp model.Response) error
}
