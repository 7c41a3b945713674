package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/yourorg/miniapp-config/internal/types"
)

// UpsertReleaseActivity is the registered name of activities.Activities.UpsertRelease.
const UpsertReleaseActivity = "Activities.UpsertRelease"

// ReleaseWorkflow runs a single upsert on a worker. The activity is attempted
// once: a failed cycle is reported, never replayed.
func ReleaseWorkflow(ctx workflow.Context, p types.ReleaseParams) (types.ReleaseResult, error) {
	ao := workflow.ActivityOptions{
		// Temporal requires a bound; this is the only timeout in the tool.
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	var res types.ReleaseResult
	if err := workflow.ExecuteActivity(ctx, UpsertReleaseActivity, p).Get(ctx, &res); err != nil {
		return types.ReleaseResult{}, err
	}
	return res, nil
}
