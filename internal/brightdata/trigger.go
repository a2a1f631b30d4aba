package brightdata

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

const (
	triggerPath = "/datasets/v3/trigger"
)

// SearchParams mirror the inputs of the Bright Data LinkedIn
// discover-by-keyword dataset. Empty fields are sent as empty strings, which
// the provider treats as unset.
type SearchParams struct {
	Location         string   `json:"location" mapstructure:"location"`
	Keyword          string   `json:"keyword" mapstructure:"keyword"`
	Country          string   `json:"country" mapstructure:"country"`
	TimeRange        string   `json:"time_range" mapstructure:"time-range"`
	JobType          string   `json:"job_type" mapstructure:"job-type"`
	ExperienceLevel  string   `json:"experience_level" mapstructure:"experience-level"`
	Remote           string   `json:"remote" mapstructure:"remote"`
	Company          string   `json:"company" mapstructure:"company"`
	SelectiveSearch  bool     `json:"selective_search" mapstructure:"selective-search"`
	JobsToNotInclude []string `json:"jobs_to_not_include" mapstructure:"jobs-to-not-include"`
	LocationRadius   string   `json:"location_radius" mapstructure:"location-radius"`
}

type triggerResponse struct {
	SnapshotID string `json:"snapshot_id"`
}

// Trigger starts a new dataset collection for the given search parameters and
// returns the snapshot id assigned by the provider. jobsNumber bounds how many
// listings the provider collects for the input.
func (c *Client) Trigger(params *SearchParams, jobsNumber int) (string, error) {
	if params == nil {
		return "", errors.New("search params are required")
	}

	q := url.Values{}
	q.Set("dataset_id", c.DatasetID)
	q.Set("include_errors", "true")
	q.Set("type", "discover_new")
	q.Set("discover_by", "keyword")
	if jobsNumber > 0 {
		q.Set("limit_per_input", strconv.Itoa(jobsNumber))
	}

	apiURLTrigger := fmt.Sprintf("%s%s", c.APIURL, triggerPath)

	// The trigger endpoint expects an array of inputs, one search per element.
	var response triggerResponse
	if err := c.postJSON(apiURLTrigger, q, []*SearchParams{params}, &response); err != nil {
		return "", fmt.Errorf("trigger request failed: %w", err)
	}

	if response.SnapshotID == "" {
		return "", errors.New("no snapshot_id returned from trigger")
	}

	c.logger.Debug("collection triggered",
		zap.String("snapshot_id", response.SnapshotID),
		zap.String("dataset_id", c.DatasetID),
	)

	return response.SnapshotID, nil
}
