package auth

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ai-tools-poll/pollserver/internal/config"
)

// scopes required by the poll: spreadsheet read/write plus Drive access
// to resolve spreadsheets by title.
var scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveScope,
}

// Client bundles the authorized Google API services. It is built once at
// startup and shared for the lifetime of the process.
type Client struct {
	Sheets *sheets.Service
	Drive  *drive.Service
}

// New exchanges a service account credential for authorized Sheets and
// Drive clients.
func New(ctx context.Context, cfg config.GoogleConfig) (*Client, error) {
	data, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	httpClient := jwtConfig.Client(ctx)

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		Sheets: sheetsService,
		Drive:  driveService,
	}, nil
}

// credentialsJSON resolves the raw service account key. Inline JSON takes
// precedence over the key file so containerized deployments can avoid
// mounting a file.
func credentialsJSON(cfg config.GoogleConfig) ([]byte, error) {
	if cfg.CredentialsJSON != "" {
		return []byte(cfg.CredentialsJSON), nil
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key file: %w", err)
	}
	return data, nil
}
