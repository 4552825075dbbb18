package handler

import (
	"strconv"
	"strings"

	"github.com/angeloszaimis/places-proxy/internal/places"
)

const hoursSeparator = " | "

// ResultItem is one entry of the search response.
type ResultItem struct {
	Nama    string `json:"nama"`
	Alamat  string `json:"alamat"`
	Rating  string `json:"rating"`
	Telepon string `json:"telepon"`
	JamBuka string `json:"jam_buka"`
	Link    string `json:"link"`
}

// newResultItem merges a detail record over its text search candidate.
func newResultItem(c places.Candidate, d places.DetailRecord) ResultItem {
	item := ResultItem{
		Nama:    firstNonEmpty(d.Name, c.Name),
		Alamat:  firstNonEmpty(d.FormattedAddress, c.FormattedAddress),
		Rating:  formatRating(d.Rating, c.Rating),
		Telepon: d.FormattedPhoneNumber,
		Link:    d.URL,
	}
	if d.OpeningHours != nil {
		item.JamBuka = strings.Join(d.OpeningHours.WeekdayText, hoursSeparator)
	}
	return item
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// formatRating renders the first non-nil rating as its shortest decimal form
// (4.2 -> "4.2", 4 -> "4").
func formatRating(ratings ...*float64) string {
	for _, r := range ratings {
		if r != nil {
			return strconv.FormatFloat(*r, 'f', -1, 64)
		}
	}
	return ""
}
