package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/catalog"
	"github.com/yourorg/miniapp-config/internal/types"
	"github.com/yourorg/miniapp-config/internal/workflow"
)

// submit runs ReleaseWorkflow on a worker and waits for its result.
func submit(ctx context.Context, deps Deps, log *zap.Logger, req catalog.UpsertRequest, dryRun bool) error {
	c, err := deps.DialTemporal(client.Options{
		HostPort:  getenv("TEMPORAL_TARGET_HOST", getenv("TEMPORAL_ADDRESS", "localhost:7233")),
		Namespace: getenv("TEMPORAL_NAMESPACE", "default"),
	})
	if err != nil {
		return fmt.Errorf("temporal client: %w", err)
	}
	defer c.Close()

	options := client.StartWorkflowOptions{
		ID:        "miniapp-release-" + uuid.NewString(),
		TaskQueue: getenv("TEMPORAL_TASK_QUEUE", types.DefaultTaskQueue),
	}
	run, err := c.ExecuteWorkflow(ctx, options, workflow.ReleaseWorkflow, types.ReleaseParams{Request: req, DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("start workflow: %w", err)
	}
	log.Info("workflow started", zap.String("workflowID", run.GetID()), zap.String("runID", run.GetRunID()))

	var res types.ReleaseResult
	if err := run.Get(ctx, &res); err != nil {
		return fromWorkflowError(err)
	}
	if dryRun {
		fmt.Fprintln(deps.Stdout, res.Document)
		return nil
	}
	fmt.Fprintf(deps.Stdout, "%s record %s (%s/%s) in %s\n", res.Action, res.ID, req.Name, req.ModuleName, res.Destination)
	return nil
}

// fromWorkflowError restores the error kind carried in an application error's type.
func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		if sentinel := apperr.Sentinel(apperr.Kind(appErr.Type())); sentinel != nil {
			return fmt.Errorf("%w: %s", sentinel, appErr.Message())
		}
	}
	return err
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
