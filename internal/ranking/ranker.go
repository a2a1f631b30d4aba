package ranking

import (
	"context"
	"fmt"
	"time"

	"github.com/ssemenov/jobscout/internal/ai"
	"github.com/ssemenov/jobscout/internal/brightdata"
	"github.com/ssemenov/jobscout/internal/util"

	"go.uber.org/zap"
)

const (
	defaultBatchSize = 5
	defaultPause     = time.Second
)

// Ranker scores listings in fixed-size batches. Batches run strictly in
// sequence with a short pause in between to stay under provider rate limits.
// A failed batch fails the whole run.
type Ranker struct {
	scorer    ai.Scorer
	batchSize int
	pause     time.Duration
	logger    *zap.Logger
}

func New(scorer ai.Scorer, batchSize int, pause time.Duration, logger *zap.Logger) *Ranker {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if pause < 0 {
		pause = defaultPause
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Ranker{
		scorer:    scorer,
		batchSize: batchSize,
		pause:     pause,
		logger:    logger,
	}
}

// Score runs the scorer over every batch and returns the accumulated scores.
func (r *Ranker) Score(ctx context.Context, profile ai.Profile, listings *brightdata.Listings) ([]ai.JobScore, error) {
	if listings == nil || listings.Len() == 0 {
		return nil, nil
	}

	total := listings.Len()
	batches := (total + r.batchSize - 1) / r.batchSize

	scores := make([]ai.JobScore, 0, total)
	for i := 0; i < total; i += r.batchSize {
		end := i + r.batchSize
		if end > total {
			end = total
		}

		batch := listings.Items[i:end]
		batchNum := i/r.batchSize + 1

		r.logger.Info("scoring batch",
			zap.Int("batch", batchNum),
			zap.Int("batches", batches),
			zap.Int("size", len(batch)),
		)

		batchScores, err := r.scorer.ScoreBatch(ctx, profile, batch)
		if err != nil {
			return nil, fmt.Errorf("scoring batch %d: %w", batchNum, err)
		}

		scores = append(scores, batchScores...)

		if end < total {
			if err := util.WaitFor(ctx, r.pause); err != nil {
				return nil, fmt.Errorf("pause between batches: %w", err)
			}
		}
	}

	return scores, nil
}
