package activities

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/pipeline"
	"github.com/yourorg/miniapp-config/internal/types"
)

type Activities struct {
	runner *pipeline.Runner
}

func New(runner *pipeline.Runner) *Activities { return &Activities{runner: runner} }

// UpsertRelease performs one fetch-upsert-write cycle. Failures are returned as
// non-retryable application errors whose type is the error kind.
func (a *Activities) UpsertRelease(ctx context.Context, p types.ReleaseParams) (types.ReleaseResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Starting release upsert", "name", p.Request.Name, "moduleName", p.Request.ModuleName, "environment", p.Request.Environment)

	res, err := a.runner.Run(ctx, p.Request, pipeline.Options{DryRun: p.DryRun})
	if err != nil {
		kind := apperr.KindOf(err)
		logger.Error("Release upsert failed", "kind", string(kind), "error", err)
		return types.ReleaseResult{}, temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
	}

	logger.Info("Completed release upsert", "action", string(res.Action), "id", res.ID, "destination", res.Destination)
	out := types.ReleaseResult{
		Environment: res.Environment,
		Destination: res.Destination,
		Action:      string(res.Action),
		ID:          res.ID,
		Records:     res.Records,
		Written:     res.Written,
	}
	if p.DryRun {
		out.Document = string(res.Document)
	}
	return out, nil
}
