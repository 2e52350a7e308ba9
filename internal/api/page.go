package api

import (
	"embed"
	"html/template"
	"sort"
	"time"

	"github.com/ai-tools-poll/pollserver/internal/model"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// ChartRow is one bar of the results chart. Percent is scaled against the
// leading option so the longest bar always fills the track.
type ChartRow struct {
	Label   string
	Count   int
	Percent int
}

// PageData feeds the poll page template
type PageData struct {
	Options        []string
	Responses      []model.Response
	Chart          []ChartRow
	Total          int
	LoadError      string
	RefreshSeconds int
}

func newPageData(refresh time.Duration) *PageData {
	seconds := int(refresh.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return &PageData{
		Options:        model.Options,
		RefreshSeconds: seconds,
	}
}

func (d *PageData) setResults(responses []model.Response) {
	d.Responses = responses
	d.Total = len(responses)
	d.Chart = chartRows(model.CountVotes(responses))
}

// chartRows orders bars by the fixed option list, then any stray options
// from out-of-band sheet edits alphabetically.
func chartRows(tally model.Tally) []ChartRow {
	maxCount := 0
	for _, count := range tally {
		if count > maxCount {
			maxCount = count
		}
	}
	if maxCount == 0 {
		return nil
	}

	seen := make(map[string]bool, len(model.Options))
	rows := make([]ChartRow, 0, len(tally))

	for _, opt := range model.Options {
		seen[opt] = true
		if count := tally[opt]; count > 0 {
			rows = append(rows, ChartRow{Label: opt, Count: count, Percent: count * 100 / maxCount})
		}
	}

	var strays []string
	for opt := range tally {
		if !seen[opt] {
			strays = append(strays, opt)
		}
	}
	sort.Strings(strays)
	for _, opt := range strays {
		rows = append(rows, ChartRow{Label: opt, Count: tally[opt], Percent: tally[opt] * 100 / maxCount})
	}

	return rows
}
