package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/ranking"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

const (
	scoreColumn   = "ai_score"
	commentColumn = "ai_comment"
)

// priorityColumns are placed first in the CSV when the provider record carries
// them; everything else follows in sorted order.
var priorityColumns = []string{
	"job_posting_id",
	"job_title",
	"company_name",
	"job_location",
	"url",
}

// ParseFormat validates the configured output format, defaulting to CSV.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// WriteRanked writes the ranked jobs in the requested format.
func WriteRanked(w io.Writer, jobs []ranking.RankedJob, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	default:
		return writeCSV(w, jobs)
	}
}

func writeCSV(w io.Writer, jobs []ranking.RankedJob) error {
	if len(jobs) == 0 {
		return nil
	}

	columns := columnOrder(jobs[0].Listing)

	writer := csv.NewWriter(w)
	header := append(append([]string{}, columns...), scoreColumn, commentColumn)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, job := range jobs {
		row := make([]string, 0, len(header))
		for _, column := range columns {
			row = append(row, cellValue(job.Listing[column]))
		}
		row = append(row, strconv.Itoa(job.Score), job.Comment)

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, jobs []ranking.RankedJob) error {
	rows := make([]map[string]any, 0, len(jobs))
	for _, job := range jobs {
		row := make(map[string]any, len(job.Listing)+2)
		for key, value := range job.Listing {
			row[key] = value
		}
		row[scoreColumn] = job.Score
		row[commentColumn] = job.Comment
		rows = append(rows, row)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// columnOrder derives the provider columns from the first record, the way the
// record set defines them: known columns first, the rest sorted by name.
func columnOrder(listing brightdata.Listing) []string {
	columns := make([]string, 0, len(listing))

	known := make(map[string]bool, len(priorityColumns))
	for _, column := range priorityColumns {
		if _, ok := listing[column]; ok {
			columns = append(columns, column)
			known[column] = true
		}
	}

	rest := make([]string, 0, len(listing))
	for key := range listing {
		if !known[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	return append(columns, rest...)
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		// Nested provider structures end up as JSON text in their cell.
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
