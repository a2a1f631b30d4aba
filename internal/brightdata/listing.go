package brightdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// IDField is the provider key that identifies a job posting.
const IDField = "job_posting_id"

// Listing is a single scraped job posting. The field set is defined by the
// provider dataset, so records are kept as-is instead of being forced into a
// fixed struct.
type Listing map[string]any

// ID returns the job posting identifier, or an empty string when missing.
func (l Listing) ID() string {
	return l.StringField(IDField)
}

// StringField returns the value under key rendered as a string. Non-string
// scalars are formatted; missing and nil values yield an empty string.
func (l Listing) StringField(key string) string {
	value, ok := l[key]
	if !ok || value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64. Render integers without a fraction.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

type Listings struct {
	Items []Listing
}

func (l *Listings) Len() int {
	return len(l.Items)
}

func (l *Listings) FindByID(id string) Listing {
	for _, listing := range l.Items {
		if listing.ID() == id {
			return listing
		}
	}
	return nil
}

func (l *Listings) IDs() []string {
	ids := make([]string, 0, len(l.Items))
	for _, listing := range l.Items {
		ids = append(ids, listing.ID())
	}
	return ids
}

func (l *Listings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "listings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// Summary is the subset of provider fields the cli actually reads for display.
type Summary struct {
	JobPostingID string `json:"job_posting_id"`
	Title        string `json:"job_title"`
	Company      string `json:"company_name"`
	Location     string `json:"job_location"`
	URL          string `json:"url"`
}

// Summaries decodes the raw listings into typed summaries.
func (l *Listings) Summaries() ([]*Summary, error) {
	var summaries []*Summary

	cfg := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &summaries,
		TagName:  "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(l.Items); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	return summaries, nil
}
