package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ai-tools-poll/pollserver/internal/model"
)

func TestChartRowsFollowFixedOptionOrder(t *testing.T) {
	tally := model.Tally{
		"Claude":         2,
		"Cursor AI":      1,
		"GitHub Copilot": 4,
	}

	rows := chartRows(tally)

	require.Len(t, rows, 3)
	assert.Equal(t, "Cursor AI", rows[0].Label)
	assert.Equal(t, "GitHub Copilot", rows[1].Label)
	assert.Equal(t, "Claude", rows[2].Label)
}

func TestChartRowsScaleAgainstLeader(t *testing.T) {
	rows := chartRows(model.Tally{"Claude": 4, "Replit": 1})

	require.Len(t, rows, 2)
	assert.Equal(t, "Replit", rows[0].Label)
	assert.Equal(t, 25, rows[0].Percent)
	assert.Equal(t, "Claude", rows[1].Label)
	assert.Equal(t, 100, rows[1].Percent)
}

func TestChartRowsIncludeStrayOptions(t *testing.T) {
	// out-of-band sheet edits can introduce options the poll never offered
	rows := chartRows(model.Tally{"Claude": 1, "Vim": 1, "Emacs": 1})

	require.Len(t, rows, 3)
	assert.Equal(t, "Claude", rows[0].Label)
	assert.Equal(t, "Emacs", rows[1].Label)
	assert.Equal(t, "Vim", rows[2].Label)
}

func TestChartRowsEmptyTally(t *testing.T) {
	assert.Nil(t, chartRows(model.Tally{}))
}
