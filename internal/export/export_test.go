package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/ranking"
)

func rankedFixture() []ranking.RankedJob {
	return []ranking.RankedJob{
		{
			Listing: brightdata.Listing{
				"job_posting_id": "2",
				"job_title":      "SRE",
				"company_name":   "Acme",
				"url":            "https://example.com/jobs/2",
				"applicants":     float64(42),
				"salary":         map[string]any{"min": float64(90000), "max": float64(120000)},
			},
			Score:   90,
			Comment: "strong match",
		},
		{
			Listing: brightdata.Listing{
				"job_posting_id": "1",
				"job_title":      "Go Developer",
				"company_name":   "Initech",
				"url":            "https://example.com/jobs/1",
				"applicants":     float64(7),
				"salary":         nil,
			},
			Score:   40,
			Comment: "partial match",
		},
	}
}

func TestWriteRankedCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteRanked(&buf, rankedFixture(), FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading csv back: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	expectedHeader := []string{"job_posting_id", "job_title", "company_name", "url", "applicants", "salary", "ai_score", "ai_comment"}
	if strings.Join(header, ",") != strings.Join(expectedHeader, ",") {
		t.Fatalf("unexpected header: %v", header)
	}

	first := records[1]
	if first[0] != "2" || first[6] != "90" || first[7] != "strong match" {
		t.Fatalf("unexpected first row: %v", first)
	}

	// Nested values are serialized as JSON text.
	if !strings.Contains(first[5], `"min":90000`) {
		t.Fatalf("expected salary cell as json, got %q", first[5])
	}

	second := records[2]
	if second[4] != "7" {
		t.Fatalf("expected numeric cell without fraction, got %q", second[4])
	}
	if second[5] != "" {
		t.Fatalf("expected empty cell for nil value, got %q", second[5])
	}
}

func TestWriteRankedCSVEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteRanked(&buf, nil, FormatCSV); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty input, got %q", buf.String())
	}
}

func TestWriteRankedJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteRanked(&buf, rankedFixture(), FormatJSON); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("decoding json output: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0]["ai_score"] != float64(90) || rows[0]["ai_comment"] != "strong match" {
		t.Fatalf("unexpected first row: %v", rows[0])
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	if format, err := ParseFormat(""); err != nil || format != FormatCSV {
		t.Fatalf("expected csv default, got %v (%v)", format, err)
	}

	if format, err := ParseFormat("json"); err != nil || format != FormatJSON {
		t.Fatalf("expected json, got %v (%v)", format, err)
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
