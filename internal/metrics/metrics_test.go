package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	Upserts.WithLabelValues("dev", "inserted").Inc()

	srv := httptest.NewServer(Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `miniapp_config_upserts_total{action="inserted",environment="dev"}`)
}

func TestPush(t *testing.T) {
	var gotPath, gotBody string
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer gw.Close()

	Failures.WithLabelValues("FetchError").Inc()
	require.NoError(t, Push(gw.URL, "miniapp_config"))
	assert.Equal(t, "/metrics/job/miniapp_config", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestCounterValues(t *testing.T) {
	before := testutil.ToFloat64(Upserts.WithLabelValues("prod", "updated"))
	Upserts.WithLabelValues("prod", "updated").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Upserts.WithLabelValues("prod", "updated")))
}
