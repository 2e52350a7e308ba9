package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/model"
	"github.com/ai-tools-poll/pollserver/internal/sheets"
)

// service errors
var (
	ErrEmptyField    = errors.New("name and option must not be empty")
	ErrUnknownOption = errors.New("selected option is not one of the poll choices")
	ErrDuplicateName = errors.New("a response under this name already exists")
)

// Service represents the poll domain layer over the response store
type Service struct {
	storage sheets.Storage
	now     func() time.Time

	// submitMu serializes submissions within this process. The duplicate
	// check and the append are two separate calls against the backing
	// store, so two processes can still race; a single process cannot.
	submitMu sync.Mutex
}

// NewService creates an instance of service
func NewService(storage sheets.Storage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
	}
}

// SubmitResponse validates, timestamps and stores one poll response.
func (s *Service) SubmitResponse(ctx context.Context, name, option, comments string) (*model.Response, error) {
	name = strings.TrimSpace(name)
	option = strings.TrimSpace(option)

	slog.Info("Handling submission", "name", name, "option", option)

	if name == "" || option == "" {
		slog.Info("Rejected submission with empty fields")
		return nil, ErrEmptyField
	}

	if !model.ValidOption(option) {
		slog.Info("Rejected submission with unknown option", "option", option)
		return nil, ErrUnknownOption
	}

	s.submitMu.Lock()
	defer s.submitMu.Unlock()

	existing, err := s.storage.ReadAll(ctx)
	if err != nil {
		slog.Error("Failed to read existing responses", "error", err)
		return nil, fmt.Errorf("failed to read existing responses: %w", err)
	}

	for _, resp := range existing {
		if strings.EqualFold(strings.TrimSpace(resp.Name), name) {
			slog.Info("Rejected duplicate submission", "name", name)
			return nil, ErrDuplicateName
		}
	}

	response := model.Response{
		Name:           name,
		SelectedOption: option,
		Comments:       comments,
		Timestamp:      s.now().Format(model.TimestampLayout),
	}

	if err := s.storage.Append(ctx, response); err != nil {
		slog.Error("Failed to store response", "name", name, "error", err)
		return nil, fmt.Errorf("failed to store response: %w", err)
	}

	slog.Info("Response recorded", "name", name, "option", option)
	return &response, nil
}

// FetchAllResponses returns every stored response in submission order. An
// empty poll is a valid, non-error state.
func (s *Service) FetchAllResponses(ctx context.Context) ([]model.Response, error) {
	responses, err := s.storage.ReadAll(ctx)
	if err != nil {
		slog.Error("Failed to fetch responses", "error", err)
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}

	slog.Debug("Responses fetched", "count", len(responses))
	return responses, nil
}
