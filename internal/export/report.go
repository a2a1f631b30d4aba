package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ssemenov/jobscout/internal/ranking"

	"github.com/muesli/termenv"
)

// ReportOptions control the terminal rendering of the top matches.
type ReportOptions struct {
	ColorEnabled bool
}

const (
	goodScoreColor = "#A8CC8C"
	midScoreColor  = "#DBAB79"
	lowScoreColor  = "#E88388"
)

// PrintTop writes a short report of the best matches for quick review.
func PrintTop(w io.Writer, jobs []ranking.RankedJob, top int, opts ReportOptions) error {
	if top <= 0 || len(jobs) == 0 {
		return nil
	}
	if top > len(jobs) {
		top = len(jobs)
	}

	output := termenv.NewOutput(w)

	if _, err := fmt.Fprintf(w, "\n*** Top %d job matches ***\n", top); err != nil {
		return err
	}

	for _, job := range jobs[:top] {
		lines := []string{
			fmt.Sprintf("URL: %s", orDash(job.Listing.StringField("url"))),
			fmt.Sprintf("Title: %s", orDash(job.Listing.StringField("job_title"))),
			fmt.Sprintf("Score: %s", renderScore(output, job.Score, opts)),
			fmt.Sprintf("Comment: %s", orDash(job.Comment)),
			strings.Repeat("-", 40),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderScore(output *termenv.Output, score int, opts ReportOptions) string {
	text := strconv.Itoa(score)
	if !opts.ColorEnabled {
		return text
	}

	color := lowScoreColor
	switch {
	case score >= 70:
		color = goodScoreColor
	case score >= 40:
		color = midScoreColor
	}

	return output.String(text).Foreground(output.Color(color)).String()
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
