package brightdata

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL = "https://api.brightdata.com"
	// Bright Data "LinkedIn job listings information - discover by keyword" dataset.
	datasetID = "gd_lpfll7v5hcqtkxl6l"
	userAgent = "ssemenov/jobscout"

	defaultPollInterval = 10 * time.Second
)

type Client struct {
	// ctx used only for http requests right now
	ctx    context.Context
	token  string
	logger *zap.Logger

	HTTPClient   *http.Client
	UserAgent    string
	APIURL       string
	DatasetID    string
	PollInterval time.Duration
}

func New(ctx context.Context, logger *zap.Logger, token string) *Client {
	return &Client{
		ctx:    ctx,
		token:  token,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent:    userAgent,
		DatasetID:    datasetID,
		PollInterval: defaultPollInterval,
	}
}
