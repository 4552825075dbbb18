package places

// Upstream status values.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

// DetailFields is the field selection sent with every details request.
const DetailFields = "name,formatted_address,rating,formatted_phone_number,opening_hours,url"

// TextSearchResponse is the decoded text search payload. Raw holds the body exactly
// as received so it can be passed through on failure.
type TextSearchResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Results      []Candidate `json:"results"`
	Raw          []byte      `json:"-"`
}

// Succeeded reports whether the search is usable, including an empty result.
func (r *TextSearchResponse) Succeeded() bool {
	return r.Status == StatusOK || r.Status == StatusZeroResults
}

// Candidate is a text search hit. Only the place id is authoritative; the other
// fields are fallbacks for missing detail values.
type Candidate struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Rating           *float64 `json:"rating"`
}

type DetailsResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
	Result       DetailRecord `json:"result"`
}

type DetailRecord struct {
	Name                 string        `json:"name"`
	FormattedAddress     string        `json:"formatted_address"`
	Rating               *float64      `json:"rating"`
	FormattedPhoneNumber string        `json:"formatted_phone_number"`
	OpeningHours         *OpeningHours `json:"opening_hours"`
	URL                  string        `json:"url"`
}

type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}
