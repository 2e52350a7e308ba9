package model

// Header is the expected first row of the poll sheet, in column order.
var Header = []string{"Name", "Selected Option", "Comments", "Timestamp"}

// Options are the choices offered by the poll. The last one is open-ended
// and expects detail in the comments field.
var Options = []string{
	"Cursor AI",
	"GitHub Copilot",
	"Replit",
	"Claude",
	"Other (Please specify in comments)",
}

// TimestampLayout is the format responses are stamped with (second precision).
const TimestampLayout = "2006-01-02 15:04:05"

// Response is a single submitted vote. Responses are immutable once stored.
type Response struct {
	Name           string `json:"name"`
	SelectedOption string `json:"selected_option"`
	Comments       string `json:"comments"`
	Timestamp      string `json:"timestamp"`
}

// Row returns the response as a sheet row in Header order.
func (r Response) Row() []interface{} {
	return []interface{}{r.Name, r.SelectedOption, r.Comments, r.Timestamp}
}

// Tally maps a selected option to its vote count. It is derived from the
// full response list on every read and never persisted.
type Tally map[string]int

// CountVotes recomputes the tally for the given responses.
func CountVotes(responses []Response) Tally {
	tally := make(Tally)
	for _, resp := range responses {
		tally[resp.SelectedOption]++
	}
	return tally
}

// ValidOption reports whether option is one of the poll's fixed choices.
func ValidOption(option string) bool {
	for _, opt := range Options {
		if opt == option {
			return true
		}
	}
	return false
}
