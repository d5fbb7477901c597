package results

import (
	"context"

	"github.com/oneconcern/deduplab/pkg/model"
	"github.com/oneconcern/deduplab/pkg/storage"
	"go.uber.org/zap"
)

// Aggregation describes where records are read from and where their summary goes
type Aggregation struct {
	Input     storage.Store
	InputDir  string
	Output    storage.Store
	OutputKey string
	Stage     string
	Policy    MergePolicy
	Logger    *zap.Logger
}

// Aggregate loads, filters and folds records, then persists the summary.
//
// The summary is fully rewritten. The records that went into it are returned in
// processing order.
func Aggregate(ctx context.Context, a Aggregation) (model.Summary, []model.Record, error) {
	logger := a.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	stage := a.Stage
	if stage == "" {
		stage = model.StageAll
	}

	loaded, err := Load(ctx, a.Input, a.InputDir)
	if err != nil {
		return model.Summary{}, nil, err
	}
	records := Filter(Records(loaded), stage)
	summary, err := Fold(stage, records, a.Policy)
	if err != nil {
		return model.Summary{}, nil, err
	}
	if err = WriteSummary(ctx, a.Output, a.OutputKey, summary); err != nil {
		return model.Summary{}, nil, err
	}

	logger.Info("aggregated results",
		zap.String("stage", stage),
		zap.Int("loaded", len(loaded)),
		zap.Int("count", summary.Count),
		zap.Int("systems", len(summary.Systems)),
		zap.Stringer("output", a.Output),
		zap.String("key", a.OutputKey),
	)
	return summary, records, nil
}

// WriteSummary persists a summary, overwriting any previous one
func WriteSummary(ctx context.Context, store storage.Store, key string, summary model.Summary) error {
	data, err := summary.Encode()
	if err != nil {
		return ErrSummary.Wrap(err)
	}
	if err = storage.WriteAll(ctx, store, key, data, storage.OverWrite); err != nil {
		return ErrSummary.Wrap(err)
	}
	return nil
}

// ReadSummary reads back a persisted summary
func ReadSummary(ctx context.Context, store storage.Store, key string) (model.Summary, error) {
	data, err := storage.ReadAll(ctx, store, key)
	if err != nil {
		return model.Summary{}, err
	}
	return model.DecodeSummary(data)
}
