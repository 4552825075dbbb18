// Fakeplaces is a stand-in for the Places API used for local proxy testing.
// It serves /textsearch/json and /details/json with a fixed set of places.
//
// Usage:
//
//	go run ./scripts/fakeplaces -port 8099
//	PLACES_BASE_URL=http://localhost:8099 GOOGLE_PLACES_KEY=dev go run ./cmd
//
// -fail-details makes the given place id answer NOT_FOUND; -deny makes every text
// search answer REQUEST_DENIED.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
)

type place struct {
	PlaceID              string   `json:"place_id"`
	Name                 string   `json:"name"`
	FormattedAddress     string   `json:"formatted_address"`
	Rating               float64  `json:"rating,omitempty"`
	FormattedPhoneNumber string   `json:"formatted_phone_number,omitempty"`
	WeekdayText          []string `json:"-"`
	URL                  string   `json:"url,omitempty"`
}

var catalogue = []place{
	{
		PlaceID:              "fake-1",
		Name:                 "Kopi Aroma",
		FormattedAddress:     "Jl. Banceuy No.51, Bandung",
		Rating:               4.7,
		FormattedPhoneNumber: "(022) 4230773",
		WeekdayText:          []string{"Monday: 8:00 AM – 3:00 PM", "Tuesday: 8:00 AM – 3:00 PM"},
		URL:                  "https://maps.google.com/?cid=1001",
	},
	{
		PlaceID:          "fake-2",
		Name:             "Warung Kopi Purnama",
		FormattedAddress: "Jl. Alkateri No.22, Bandung",
		Rating:           4.5,
		URL:              "https://maps.google.com/?cid=1002",
	},
	{
		PlaceID:          "fake-3",
		Name:             "Kedai Kopi Tanpa Jam",
		FormattedAddress: "Jl. Braga No.8, Bandung",
	},
}

func main() {
	port := flag.Int("port", 8099, "port to listen on")
	failDetails := flag.String("fail-details", "", "place id whose details answer NOT_FOUND")
	deny := flag.Bool("deny", false, "answer REQUEST_DENIED to every text search")
	flag.Parse()

	mux := http.NewServeMux()

	mux.HandleFunc("/textsearch/json", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		log.Printf("textsearch: query=%q", query)

		if *deny || r.URL.Query().Get("key") == "" {
			writeJSON(w, map[string]any{
				"status":        "REQUEST_DENIED",
				"error_message": "The provided API key is invalid.",
				"results":       []any{},
			})
			return
		}

		results := []place{}
		for _, p := range catalogue {
			if query == "*" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
				results = append(results, p)
			}
		}

		status := "OK"
		if len(results) == 0 {
			status = "ZERO_RESULTS"
		}
		writeJSON(w, map[string]any{"status": status, "results": results})
	})

	mux.HandleFunc("/details/json", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("place_id")
		log.Printf("details: place_id=%s fields=%s", id, r.URL.Query().Get("fields"))

		if id == *failDetails {
			writeJSON(w, map[string]any{"status": "NOT_FOUND"})
			return
		}

		for _, p := range catalogue {
			if p.PlaceID != id {
				continue
			}
			result := map[string]any{}
			b, _ := json.Marshal(p)
			_ = json.Unmarshal(b, &result)
			delete(result, "place_id")
			if len(p.WeekdayText) > 0 {
				result["opening_hours"] = map[string]any{"weekday_text": p.WeekdayText}
			}
			writeJSON(w, map[string]any{"status": "OK", "result": result})
			return
		}

		writeJSON(w, map[string]any{"status": "NOT_FOUND"})
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("starting fake places api on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	b, _ := json.Marshal(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
