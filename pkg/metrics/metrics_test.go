package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(PriceFetchTotal.WithLabelValues("kucoin", StatusSuccess))
	RecordFetch("kucoin", 0.0123, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(PriceFetchTotal.WithLabelValues("kucoin", StatusSuccess)))
	assert.Equal(t, 0.0123, testutil.ToFloat64(FetchedPrice.WithLabelValues("kucoin")))

	beforeErr := testutil.ToFloat64(PriceFetchTotal.WithLabelValues("kucoin", StatusError))
	RecordFetch("kucoin", 99, errors.New("boom"))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(PriceFetchTotal.WithLabelValues("kucoin", StatusError)))
	assert.Equal(t, 0.0123, testutil.ToFloat64(FetchedPrice.WithLabelValues("kucoin")))
}

func TestRecordRunAndSubmission(t *testing.T) {
	before := testutil.ToFloat64(RunsTotal.WithLabelValues(StatusDeclined))
	RecordRun(StatusDeclined, 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(RunsTotal.WithLabelValues(StatusDeclined)))

	beforeTx := testutil.ToFloat64(TxSubmissionsTotal.WithLabelValues(StatusSuccess))
	RecordSubmission(StatusSuccess)
	assert.Equal(t, beforeTx+1, testutil.ToFloat64(TxSubmissionsTotal.WithLabelValues(StatusSuccess)))
}

func TestPush(t *testing.T) {
	Init()
	RecordSubmission(StatusDryRun)

	var method, path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		path = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, Push(context.Background(), srv.URL, ""))
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(path, "/metrics/job/"+DefaultJob), path)
	assert.NotEmpty(t, body)
}

func TestPush_Error(t *testing.T) {
	Init()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, Push(context.Background(), srv.URL, "custom"))
}
