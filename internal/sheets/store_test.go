package sheets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-tools-poll/pollserver/internal/config"
	"github.com/ai-tools-poll/pollserver/internal/model"
)

// fakeAPI is an in-memory rowAPI backend
type fakeAPI struct {
	spreadsheetID string
	title         string
	header        []interface{}
	rows          [][]interface{}

	dataGets  int
	appends   int
	cleared   bool
	createdID string
	appendErr error
	getErr    error
}

func (f *fakeAPI) findSpreadsheet(ctx context.Context, title string) (string, error) {
	if f.title == title {
		return f.spreadsheetID, nil
	}
	return "", nil
}

func (f *fakeAPI) createSpreadsheet(ctx context.Context, title string) (string, error) {
	f.spreadsheetID = "created-id"
	f.title = title
	f.createdID = f.spreadsheetID
	return f.spreadsheetID, nil
}

func (f *fakeAPI) firstSheetTitle(ctx context.Context, spreadsheetID string) (string, error) {
	return "Sheet1", nil
}

func (f *fakeAPI) getRange(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if strings.Contains(readRange, "A1:D1") {
		if f.header == nil {
			return nil, nil
		}
		return [][]interface{}{f.header}, nil
	}
	f.dataGets++
	return f.rows, nil
}

func (f *fakeAPI) updateRange(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error {
	if strings.Contains(writeRange, "A1:D1") {
		f.header = rows[0]
	}
	return nil
}

func (f *fakeAPI) appendRow(ctx context.Context, spreadsheetID, appendRange string, row []interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appends++
	f.rows = append(f.rows, row)
	return nil
}

func (f *fakeAPI) clearRange(ctx context.Context, spreadsheetID, clearRange string) error {
	f.cleared = true
	f.header = nil
	f.rows = nil
	return nil
}

func expectedHeader() []interface{} {
	header := make([]interface{}, len(model.Header))
	for i, col := range model.Header {
		header[i] = col
	}
	return header
}

func testConfig() config.PollConfig {
	return config.PollConfig{
		SpreadsheetTitle: "AI Tools Poll Results",
		CreateIfMissing:  true,
		CacheTTL:         5 * time.Second,
	}
}

func openedStore(t *testing.T, api *fakeAPI, cfg config.PollConfig) *Store {
	t.Helper()
	store := newStore(api, cfg)
	require.NoError(t, store.Open(context.Background()))
	return store
}

func TestOpenCreatesSpreadsheetWhenMissing(t *testing.T) {
	api := &fakeAPI{}
	store := newStore(api, testConfig())

	require.NoError(t, store.Open(context.Background()))

	assert.Equal(t, "created-id", api.createdID)
	assert.Equal(t, expectedHeader(), api.header)
}

func TestOpenFailsWhenMissingAndCreationDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.CreateIfMissing = false
	store := newStore(&fakeAPI{}, cfg)

	err := store.Open(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSpreadsheetNotFound)
}

func TestOpenWritesHeaderOnEmptySheet(t *testing.T) {
	api := &fakeAPI{spreadsheetID: "sheet-id", title: "AI Tools Poll Results"}

	openedStore(t, api, testConfig())

	assert.Equal(t, expectedHeader(), api.header)
	assert.False(t, api.cleared)
}

func TestOpenAcceptsMatchingHeader(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
		rows:          [][]interface{}{{"Alice", "Claude", "", "2025-01-01 10:00:00"}},
	}

	openedStore(t, api, testConfig())

	assert.False(t, api.cleared)
	assert.Len(t, api.rows, 1)
}

func TestOpenRejectsHeaderMismatchWithoutReset(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        []interface{}{"Name", "Selected Option", "Comments"},
	}
	store := newStore(api, testConfig())

	err := store.Open(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeaderMismatch)
	assert.False(t, api.cleared)
}

// The header repair is destructive: it clears every stored row along with
// the stale header. That is the documented migration path for schema
// drift, and it only runs when the operator opted in.
func TestOpenSelfHealsHeaderWhenResetAllowed(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        []interface{}{"Name", "Selected Option", "Comments"},
		rows: [][]interface{}{
			{"Alice", "Claude", ""},
			{"Bob", "Replit", ""},
		},
	}
	cfg := testConfig()
	cfg.AllowHeaderReset = true

	openedStore(t, api, cfg)

	assert.True(t, api.cleared)
	assert.Equal(t, expectedHeader(), api.header)
	assert.Empty(t, api.rows)
}

func TestReadAllMapsRowsInOrder(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
		rows: [][]interface{}{
			{"Alice", "Claude", "great", "2025-01-01 10:00:00"},
			{"Bob", "Replit"}, // short row from the three-column era
			{},                // stray empty row
			{"Carol", "Claude", "", "2025-01-01 11:00:00"},
		},
	}
	store := openedStore(t, api, testConfig())

	responses, err := store.ReadAll(context.Background())

	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Equal(t, model.Response{Name: "Alice", SelectedOption: "Claude", Comments: "great", Timestamp: "2025-01-01 10:00:00"}, responses[0])
	assert.Equal(t, model.Response{Name: "Bob", SelectedOption: "Replit"}, responses[1])
	assert.Equal(t, "Carol", responses[2].Name)
}

func TestReadAllServesFromCacheWithinTTL(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
		rows:          [][]interface{}{{"Alice", "Claude", "", "2025-01-01 10:00:00"}},
	}
	store := openedStore(t, api, testConfig())

	_, err := store.ReadAll(context.Background())
	require.NoError(t, err)
	_, err = store.ReadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, api.dataGets)
}

func TestReadAllRefetchesAfterTTL(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
	}
	store := openedStore(t, api, testConfig())

	current := time.Now()
	store.now = func() time.Time { return current }

	_, err := store.ReadAll(context.Background())
	require.NoError(t, err)

	current = current.Add(6 * time.Second)

	_, err = store.ReadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, api.dataGets)
}

func TestAppendInvalidatesCache(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
	}
	store := openedStore(t, api, testConfig())

	_, err := store.ReadAll(context.Background())
	require.NoError(t, err)

	resp := model.Response{Name: "Alice", SelectedOption: "Claude", Timestamp: "2025-01-01 10:00:00"}
	require.NoError(t, store.Append(context.Background(), resp))

	// still inside the TTL window, but the write must be visible
	responses, err := store.ReadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, api.dataGets)
	require.Len(t, responses, 1)
	assert.Equal(t, "Alice", responses[0].Name)
}

func TestAppendErrorLeavesCacheIntact(t *testing.T) {
	api := &fakeAPI{
		spreadsheetID: "sheet-id",
		title:         "AI Tools Poll Results",
		header:        expectedHeader(),
	}
	store := openedStore(t, api, testConfig())

	_, err := store.ReadAll(context.Background())
	require.NoError(t, err)

	api.appendErr = errors.New("quota exceeded")
	err = store.Append(context.Background(), model.Response{Name: "Alice", SelectedOption: "Claude"})
	require.Error(t, err)

	_, err = store.ReadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, api.dataGets)
}
