package pipeline

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/yourorg/miniapp-config/internal/apperr"
	"github.com/yourorg/miniapp-config/internal/catalog"
	"github.com/yourorg/miniapp-config/internal/config"
	"github.com/yourorg/miniapp-config/internal/iopkg"
)

type memStore struct {
	puts     int
	lastURI  string
	lastType string
	lastBody []byte
	putErr   error
}

func (m *memStore) Get(ctx context.Context, uri string) (io.ReadCloser, error) {
	return nil, errors.New("not used")
}

func (m *memStore) Put(ctx context.Context, uri string, body io.Reader, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.lastURI = uri
	m.lastType = contentType
	m.lastBody, _ = io.ReadAll(body)
	return nil
}

type fixture struct {
	hits   atomic.Int32
	srv    *httptest.Server
	store  *memStore
	runner *Runner
}

func newFixture(t *testing.T, status int, body string) *fixture {
	t.Helper()
	f := &fixture{store: &memStore{}}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(f.srv.Close)

	cfg := config.Default()
	cfg.Bucket = "test-bucket"
	cfg.Dev.URL = f.srv.URL + "/debug.json"
	cfg.Prod.URL = f.srv.URL + "/prod.json"
	f.runner = New(cfg, iopkg.New(f.srv.Client(), f.store), f.store, zaptest.NewLogger(t))
	return f
}

func TestRunUpdatesExistingRecord(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[{"id":"1","name":"Foo","module_name":"ModA","releaseUrl":"http://old"}]`)

	res, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "http://new",
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, catalog.ActionUpdated, res.Action)
	assert.Equal(t, "1", res.ID)
	assert.True(t, res.Written)
	assert.Equal(t, 1, f.store.puts)
	assert.Equal(t, "s3://test-bucket/monster/miniapp_list_config_debug.json", f.store.lastURI)
	assert.Equal(t, "application/json", f.store.lastType)

	got, err := catalog.DecodeBytes(f.store.lastBody)
	require.NoError(t, err)
	assert.Equal(t, catalog.Collection{{
		"id": "1", "name": "Foo", "module_name": "ModA", "releaseUrl": "http://new",
	}}, got)
}

func TestRunInsertsIntoEmptyProdDocument(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[]`)

	res, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Bar", ModuleName: "Mod B", ReleaseURL: "http://x", Environment: "prod",
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "prod", res.Environment)
	assert.Equal(t, catalog.ActionInserted, res.Action)
	assert.Equal(t, "1", res.ID)
	assert.Equal(t, 1, res.Records)
	assert.Equal(t, "s3://test-bucket/monster/miniapp_list_config_prod.json", f.store.lastURI)
	assert.Contains(t, string(f.store.lastBody), "\n  {\n    \"category\": \"gaming\",")
}

func TestRunWrapsSingleObjectDocument(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{"id":"4","name":"Solo","module_name":"Solo"}`)

	res, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "New", ModuleName: "New", ReleaseURL: "u",
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "5", res.ID)
	assert.Equal(t, 2, res.Records)
	assert.True(t, bytes.HasPrefix(f.store.lastBody, []byte("[\n")))
}

func TestRunDryRunSkipsWrite(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[]`)

	res, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Bar", ModuleName: "Bar", ReleaseURL: "http://x",
	}, Options{DryRun: true})
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.NotEmpty(t, res.Document)
	assert.Equal(t, 0, f.store.puts)
}

func TestRunInvalidEnvironmentMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[]`)

	_, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "u", Environment: "staging",
	}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConfig)
	assert.Equal(t, int32(0), f.hits.Load())
	assert.Equal(t, 0, f.store.puts)
}

func TestRunMissingFields(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[]`)

	_, err := f.runner.Run(context.Background(), catalog.UpsertRequest{Name: "Foo"}, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUsage)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestRunParseError(t *testing.T) {
	f := newFixture(t, http.StatusOK, `not json`)

	_, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "u",
	}, Options{})
	assert.ErrorIs(t, err, apperr.ErrParse)
	assert.Equal(t, 0, f.store.puts)
}

func TestRunFetchErrors(t *testing.T) {
	f := newFixture(t, http.StatusForbidden, `<Error/>`)
	_, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "u",
	}, Options{})
	assert.ErrorIs(t, err, apperr.ErrFetch)

	f.srv.Close()
	_, err = f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "u",
	}, Options{})
	assert.ErrorIs(t, err, apperr.ErrFetch)
	assert.Equal(t, 0, f.store.puts)
}

func TestRunWriteError(t *testing.T) {
	f := newFixture(t, http.StatusOK, `[]`)
	f.store.putErr = errors.New("AccessDenied")

	res, err := f.runner.Run(context.Background(), catalog.UpsertRequest{
		Name: "Foo", ModuleName: "ModA", ReleaseURL: "u",
	}, Options{})
	assert.ErrorIs(t, err, apperr.ErrWrite)
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.False(t, res.Written)
}
