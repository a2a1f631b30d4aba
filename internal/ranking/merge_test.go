package ranking

import (
	"testing"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/brightdata"
)

func TestMergeJoinsAndSortsDescending(t *testing.T) {
	t.Parallel()

	listings := &brightdata.Listings{
		Items: []brightdata.Listing{
			{"job_posting_id": "1", "job_title": "Go Developer"},
			{"job_posting_id": "2", "job_title": "SRE"},
			{"job_posting_id": "3", "job_title": "Frontend Engineer"},
		},
	}

	scores := []ai.JobScore{
		{JobPostingID: "1", Score: 40, Comment: "partial match"},
		{JobPostingID: "2", Score: 90, Comment: "strong match"},
		{JobPostingID: "3", Score: 70, Comment: "decent match"},
	}

	ranked := Merge(listings, scores)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked jobs, got %d", len(ranked))
	}

	gotOrder := []int{ranked[0].Score, ranked[1].Score, ranked[2].Score}
	if gotOrder[0] != 90 || gotOrder[1] != 70 || gotOrder[2] != 40 {
		t.Fatalf("expected descending order, got %v", gotOrder)
	}

	if ranked[0].Listing.StringField("job_title") != "SRE" {
		t.Fatalf("unexpected top listing: %v", ranked[0].Listing)
	}
}

func TestMergeDropsUnmatchedScores(t *testing.T) {
	t.Parallel()

	listings := &brightdata.Listings{
		Items: []brightdata.Listing{
			{"job_posting_id": "1"},
		},
	}

	scores := []ai.JobScore{
		{JobPostingID: "1", Score: 50},
		{JobPostingID: "ghost", Score: 99},
	}

	ranked := Merge(listings, scores)

	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked job, got %d", len(ranked))
	}
	if ranked[0].Listing.ID() != "1" {
		t.Fatalf("unexpected listing: %v", ranked[0].Listing)
	}
}

func TestMergeDropsUnscoredListings(t *testing.T) {
	t.Parallel()

	listings := &brightdata.Listings{
		Items: []brightdata.Listing{
			{"job_posting_id": "1"},
			{"job_posting_id": "2"},
		},
	}

	scores := []ai.JobScore{
		{JobPostingID: "2", Score: 75},
	}

	ranked := Merge(listings, scores)

	if len(ranked) != 1 || ranked[0].Listing.ID() != "2" {
		t.Fatalf("expected only scored listing, got %+v", ranked)
	}
}

func TestMergeFirstScoreWinsOnDuplicateID(t *testing.T) {
	t.Parallel()

	listings := &brightdata.Listings{
		Items: []brightdata.Listing{
			{"job_posting_id": "1"},
		},
	}

	scores := []ai.JobScore{
		{JobPostingID: "1", Score: 60, Comment: "first"},
		{JobPostingID: "1", Score: 95, Comment: "second"},
	}

	ranked := Merge(listings, scores)

	if len(ranked) != 1 {
		t.Fatalf("expected 1 ranked job, got %d", len(ranked))
	}
	if ranked[0].Score != 60 || ranked[0].Comment != "first" {
		t.Fatalf("expected first score to win, got %+v", ranked[0])
	}
}

func TestMergeEqualScoresKeepScoreOrder(t *testing.T) {
	t.Parallel()

	listings := &brightdata.Listings{
		Items: []brightdata.Listing{
			{"job_posting_id": "1"},
			{"job_posting_id": "2"},
			{"job_posting_id": "3"},
		},
	}

	// "3" is scored before "1"; with equal scores the stable sort must keep
	// that order even though the listings arrived the other way around.
	scores := []ai.JobScore{
		{JobPostingID: "3", Score: 80, Comment: "first scored"},
		{JobPostingID: "1", Score: 80, Comment: "second scored"},
		{JobPostingID: "2", Score: 95},
	}

	ranked := Merge(listings, scores)

	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked jobs, got %d", len(ranked))
	}

	gotIDs := []string{ranked[0].Listing.ID(), ranked[1].Listing.ID(), ranked[2].Listing.ID()}
	if gotIDs[0] != "2" || gotIDs[1] != "3" || gotIDs[2] != "1" {
		t.Fatalf("expected ties to keep score order, got %v", gotIDs)
	}
}

func TestMergeEmptyInputs(t *testing.T) {
	t.Parallel()

	if got := Merge(nil, []ai.JobScore{{JobPostingID: "1", Score: 10}}); got != nil {
		t.Fatalf("expected nil for nil listings, got %+v", got)
	}

	if got := Merge(&brightdata.Listings{}, nil); got != nil {
		t.Fatalf("expected nil for no scores, got %+v", got)
	}
}
