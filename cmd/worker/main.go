package main

import (
	"context"
	"log"
	"os"

	tactivity "go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/yourorg/miniapp-config/internal/activities"
	"github.com/yourorg/miniapp-config/internal/config"
	"github.com/yourorg/miniapp-config/internal/iopkg"
	"github.com/yourorg/miniapp-config/internal/logging"
	mcmetrics "github.com/yourorg/miniapp-config/internal/metrics"
	"github.com/yourorg/miniapp-config/internal/pipeline"
	"github.com/yourorg/miniapp-config/internal/storage"
	"github.com/yourorg/miniapp-config/internal/types"
	"github.com/yourorg/miniapp-config/internal/workflow"
)

func main() {
	// Support both TEMPORAL_TARGET_HOST and TEMPORAL_ADDRESS for compatibility
	taddr := getenv("TEMPORAL_TARGET_HOST", getenv("TEMPORAL_ADDRESS", "localhost:7233"))
	ns := getenv("TEMPORAL_NAMESPACE", "default")
	q := getenv("TEMPORAL_TASK_QUEUE", types.DefaultTaskQueue)

	cfg, err := config.Load(os.Getenv("MINIAPP_CONFIG"), "")
	if err != nil {
		log.Fatal("config:", err)
	}

	zl := logging.New(cfg.Log.Level)
	defer zl.Sync()

	// Metrics server
	go func() {
		addr := mcmetrics.AddrFromEnv()
		if err := mcmetrics.Serve(addr); err != nil {
			zl.Warn("metrics server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()

	ctx := context.Background()
	store, err := storage.NewS3(ctx, cfg.Region)
	if err != nil {
		log.Fatal("s3 init:", err)
	}
	runner := pipeline.New(cfg, iopkg.New(nil, store), store, zl)

	c, err := client.Dial(client.Options{HostPort: taddr, Namespace: ns})
	if err != nil {
		log.Fatal("temporal client:", err)
	}
	defer c.Close()

	w := worker.New(c, q, worker.Options{})
	acts := activities.New(runner)
	// Register with the explicit name used by workflow.ExecuteActivity
	w.RegisterActivityWithOptions(acts.UpsertRelease, tactivity.RegisterOptions{Name: workflow.UpsertReleaseActivity})
	w.RegisterWorkflow(workflow.ReleaseWorkflow)

	zl.Info("worker started", zap.String("namespace", ns), zap.String("taskQueue", q), zap.String("bucket", cfg.Bucket), zap.String("metrics", mcmetrics.AddrFromEnv()))
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatal("worker failed:", err)
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
