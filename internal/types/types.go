package types

import "github.com/yourorg/miniapp-config/internal/catalog"

// DefaultTaskQueue is the Temporal task queue the worker polls unless TEMPORAL_TASK_QUEUE is set.
const DefaultTaskQueue = "miniapp-config"

// ReleaseParams is the workflow input: one upsert plus run options.
type ReleaseParams struct {
	Request catalog.UpsertRequest `json:"request"`
	DryRun  bool                  `json:"dry_run"`
}

// ReleaseResult is returned by the release workflow and its activity.
type ReleaseResult struct {
	Environment string `json:"environment"`
	Destination string `json:"destination"`        // s3://bucket/key written (or that would be written)
	Action      string `json:"action"`             // "updated" | "inserted"
	ID          string `json:"id"`                 // id of the touched record
	Records     int    `json:"records"`            // records in the resulting document
	Written     bool   `json:"written"`            // false on dry runs
	Document    string `json:"document,omitempty"` // would-be document, dry runs only
}
