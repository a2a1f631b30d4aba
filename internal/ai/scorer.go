package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/ssemenov/jobscout/internal/brightdata"
)

// Profile describes the candidate the listings are scored against.
type Profile struct {
	Summary    string
	DesiredJob string
}

// JobScore is the model's verdict for a single listing.
type JobScore struct {
	JobPostingID string `json:"job_posting_id"`
	Score        int    `json:"score"`
	Comment      string `json:"comment"`
}

// Scorer scores a batch of listings against a candidate profile.
type Scorer interface {
	ScoreBatch(ctx context.Context, profile Profile, batch []brightdata.Listing) ([]JobScore, error)
	Model() string
}

// ValidateScores checks that every score carries a posting id and stays within
// the 0-100 range the prompt demands. A model response violating the contract
// fails the whole batch.
func ValidateScores(scores []JobScore) error {
	for i, score := range scores {
		if strings.TrimSpace(score.JobPostingID) == "" {
			return fmt.Errorf("score %d: empty job_posting_id", i)
		}
		if score.Score < 0 || score.Score > 100 {
			return fmt.Errorf("score for %s out of range: %d", score.JobPostingID, score.Score)
		}
	}

	return nil
}
