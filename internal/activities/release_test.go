package activities

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.uber.org/zap/zaptest"

	"github.com/yourorg/miniapp-config/internal/catalog"
	"github.com/yourorg/miniapp-config/internal/config"
	"github.com/yourorg/miniapp-config/internal/iopkg"
	"github.com/yourorg/miniapp-config/internal/pipeline"
	"github.com/yourorg/miniapp-config/internal/types"
)

type failingStore struct{}

func (failingStore) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (failingStore) Put(ctx context.Context, uri string, body io.Reader, contentType string) error {
	return errors.New("AccessDenied")
}

func TestUpsertReleaseWriteErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Dev.URL = srv.URL + "/debug.json"
	runner := pipeline.New(cfg, iopkg.New(srv.Client(), nil), failingStore{}, zaptest.NewLogger(t))

	var s testsuite.WorkflowTestSuite
	env := s.NewTestActivityEnvironment()
	acts := New(runner)
	env.RegisterActivity(acts.UpsertRelease)

	_, err := env.ExecuteActivity(acts.UpsertRelease, types.ReleaseParams{
		Request: catalog.UpsertRequest{Name: "Foo", ModuleName: "ModA", ReleaseURL: "u"},
	})
	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "WriteError", appErr.Type())
	assert.True(t, appErr.NonRetryable())
}

func TestUpsertReleaseDryRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"9","name":"Foo","module_name":"ModA"}`))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Prod.URL = srv.URL + "/prod.json"
	runner := pipeline.New(cfg, iopkg.New(srv.Client(), nil), failingStore{}, zaptest.NewLogger(t))

	var s testsuite.WorkflowTestSuite
	env := s.NewTestActivityEnvironment()
	acts := New(runner)
	env.RegisterActivity(acts.UpsertRelease)

	val, err := env.ExecuteActivity(acts.UpsertRelease, types.ReleaseParams{
		Request: catalog.UpsertRequest{Name: "Foo", ModuleName: "ModA", ReleaseURL: "u", Environment: "prod"},
		DryRun:  true,
	})
	require.NoError(t, err)
	var res types.ReleaseResult
	require.NoError(t, val.Get(&res))
	assert.Equal(t, "updated", res.Action)
	assert.Equal(t, "9", res.ID)
	assert.Equal(t, "prod", res.Environment)
	assert.False(t, res.Written)
	assert.Contains(t, res.Document, `"releaseUrl": "u"`)
}
