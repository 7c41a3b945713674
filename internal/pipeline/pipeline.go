// Package pipeline runs one read-modify-write cycle against a mini-app list document.
//
// Each run fetches the document fresh, applies a single upsert in memory and
// replaces the stored copy in full. There is no locking or conditional write:
// concurrent runs against the same environment race and the last writer wins.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/catalog"
	"github.com/yourorg/miniapp-config/internal/config"
	"github.com/yourorg/miniapp-config/internal/metrics"
	"github.com/yourorg/miniapp-config/internal/storage"
)

// ContentType is set on every document written.
const ContentType = "application/json"

// Opener retrieves the source document.
type Opener interface {
	Open(ctx context.Context, uri string) (io.ReadCloser, error)
}

// Runner executes upserts against the environments of one Config.
type Runner struct {
	cfg    config.Config
	opener Opener
	store  storage.ObjectStore
	log    *zap.Logger
}

// New returns a Runner; a nil log discards output.
func New(cfg config.Config, opener Opener, store storage.ObjectStore, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, opener: opener, store: store, log: log}
}

// Options alter a single run.
type Options struct {
	// DryRun computes the new document but leaves the stored one untouched.
	DryRun bool
}

// Result describes a finished run.
type Result struct {
	Environment string
	Key         string
	Destination string
	SourceURL   string
	Action      catalog.Action
	ID          string
	Index       int
	Records     int
	Written     bool
	Document    []byte
}

// Run validates req, resolves its environment, then fetches, upserts and writes.
// Each step finishes before the next starts; validation and resolution happen
// before any network call.
func (r *Runner) Run(ctx context.Context, req catalog.UpsertRequest, opts Options) (Result, error) {
	res, err := r.run(ctx, req, opts)
	if err != nil {
		metrics.Failures.WithLabelValues(string(apperr.KindOf(err))).Inc()
		return res, err
	}
	metrics.Upserts.WithLabelValues(res.Environment, string(res.Action)).Inc()
	metrics.DocumentRecords.WithLabelValues(res.Environment).Set(float64(res.Records))
	return res, nil
}

func (r *Runner) run(ctx context.Context, req catalog.UpsertRequest, opts Options) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	target, err := r.cfg.Resolve(req.Environment)
	if err != nil {
		return Result{}, err
	}
	log := r.log.With(zap.String("environment", target.Environment), zap.String("key", target.Key))
	fields := []zap.Field{
		zap.String("name", req.Name),
		zap.String("moduleName", req.ModuleName),
		zap.String("releaseUrl", req.ReleaseURL),
	}
	for field, v := range req.Supplied() {
		fields = append(fields, zap.Any(field, v))
	}
	log.Info("received parameters", fields...)

	res := Result{
		Environment: target.Environment,
		Key:         target.Key,
		Destination: target.Destination(),
		SourceURL:   target.SourceURL,
	}

	coll, err := r.Fetch(ctx, target.SourceURL)
	if err != nil {
		return res, err
	}
	log.Info("fetched document", zap.String("url", target.SourceURL), zap.Int("records", len(coll)))

	coll, out := catalog.Upsert(coll, req)
	res.Action, res.ID, res.Index, res.Records = out.Action, out.ID, out.Index, len(coll)
	switch out.Action {
	case catalog.ActionUpdated:
		log.Info("updated existing record", zap.String("id", out.ID), zap.Int("index", out.Index))
	case catalog.ActionInserted:
		log.Info("inserted new record", zap.String("id", out.ID), zap.Any("record", out.Record))
	}

	doc, err := catalog.Encode(coll)
	if err != nil {
		return res, fmt.Errorf("encode document: %w", err)
	}
	res.Document = doc

	if opts.DryRun {
		log.Info("dry run, skipping write", zap.String("destination", res.Destination))
		return res, nil
	}
	if err := r.Write(ctx, res.Destination, doc); err != nil {
		return res, err
	}
	res.Written = true
	log.Info("saved document", zap.String("destination", res.Destination), zap.Int("records", res.Records))
	return res, nil
}

// Fetch retrieves and decodes the document at url.
func (r *Runner) Fetch(ctx context.Context, url string) (catalog.Collection, error) {
	rc, err := r.opener.Open(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %v", apperr.ErrFetch, url, err)
	}
	defer rc.Close()
	coll, err := catalog.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", url, err)
	}
	return coll, nil
}

// Write replaces the object at destination with doc.
func (r *Runner) Write(ctx context.Context, destination string, doc []byte) error {
	if err := r.store.Put(ctx, destination, bytes.NewReader(doc), ContentType); err != nil {
		return fmt.Errorf("%w: put %s: %v", apperr.ErrWrite, destination, err)
	}
	return nil
}
