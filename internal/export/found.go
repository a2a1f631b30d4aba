package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ssemenov/jobscout/internal/brightdata"
)

// PrintFound renders the found listings as an aligned table so the user can
// review what was scraped before any scoring happens.
func PrintFound(w io.Writer, summaries []*brightdata.Summary) error {
	if len(summaries) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "TITLE\tCOMPANY\tLOCATION\tURL"); err != nil {
		return err
	}

	for _, s := range summaries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			orDash(s.Title), orDash(s.Company), orDash(s.Location), orDash(s.URL),
		); err != nil {
			return err
		}
	}

	return tw.Flush()
}
