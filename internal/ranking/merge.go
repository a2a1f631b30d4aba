package ranking

import (
	"sort"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/brightdata"
)

// RankedJob is a scraped listing with the model's verdict attached. It only
// lives between scoring and export.
type RankedJob struct {
	Listing brightdata.Listing
	Score   int
	Comment string
}

// Merge left-joins scores onto listings by posting id and sorts the result by
// score, highest first. Scores without a matching listing are dropped, as are
// listings the model never scored. When the model repeats an id, the first
// score wins. The sort is stable, so equal scores keep their score order.
func Merge(listings *brightdata.Listings, scores []ai.JobScore) []RankedJob {
	if listings == nil || len(scores) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(scores))
	ranked := make([]RankedJob, 0, len(scores))

	for _, score := range scores {
		if seen[score.JobPostingID] {
			continue
		}

		listing := listings.FindByID(score.JobPostingID)
		if listing == nil {
			continue
		}

		seen[score.JobPostingID] = true
		ranked = append(ranked, RankedJob{
			Listing: listing,
			Score:   score.Score,
			Comment: score.Comment,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
