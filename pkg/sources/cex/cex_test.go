package cex

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tc.com/price-relay/pkg/clock"
	"tc.com/price-relay/pkg/sources"
)

const fixedNow = clock.Fixed(1_700_000_000_000)

func serve(t *testing.T, status int, body string, check func(*http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newSource(t *testing.T, name, apiURL string) sources.Source {
	t.Helper()
	src, err := sources.Create("cex", name, map[string]interface{}{
		"api_url":              apiURL,
		sources.ConfigKeyClock: fixedNow,
	})
	require.NoError(t, err)
	return src
}

func TestGateio_FetchPrice(t *testing.T) {
	body := "1699998200,0.0040,0.0042,0.0039,0.00410,1000\n" +
		"1700000000,0.0041,0.0043,0.0040,0.00425,2000\n"

	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "dpr_usdt", q.Get("symbol"))
		assert.Equal(t, "tvkline", q.Get("type"))
		assert.Equal(t, "1700000000", q.Get("to"))
		assert.Equal(t, "1699913600", q.Get("from"))
		assert.Equal(t, "1800", q.Get("interval"))
	})

	price, err := newSource(t, "gateio", srv.URL).FetchPrice(context.Background())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("0.00425")), "got %s", price)

	normalized, err := sources.Normalize(price)
	require.NoError(t, err)
	assert.Equal(t, uint64(4_250_000_000_000_000), normalized)
}

func TestParseGateioCandles(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr error
	}{
		{name: "no trailing newline takes second to last", body: "1,2,3,4,0.5,6\n1,2,3,4,0.7,6", want: "0.5"},
		{name: "empty body", body: "", wantErr: sources.ErrParse},
		{name: "single newline", body: "\n", wantErr: sources.ErrParse},
		{name: "short row", body: "1,2,3\n", wantErr: sources.ErrParse},
		{name: "bad number", body: "1,2,3,4,abc,6\n", wantErr: sources.ErrNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGateioCandles(tt.body)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestGateio_HTTPError(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, "", nil)

	_, err := newSource(t, "gateio", srv.URL).FetchPrice(context.Background())
	assert.ErrorIs(t, err, sources.ErrFetch)
}

func TestNewGateioSource_InvalidInterval(t *testing.T) {
	_, err := NewGateioSource(map[string]interface{}{"interval": -5})
	assert.ErrorIs(t, err, sources.ErrInvalidConfig)
}

func TestKucoin_FetchPrice(t *testing.T) {
	body := `{"code":"200000","data":{"time":1700000000000,"sequence":"1","price":"0.004312","size":"10","bestBid":"0.0043","bestBidSize":"1","bestAsk":"0.0044","bestAskSize":"1"}}`
	srv := serve(t, http.StatusOK, body, func(r *http.Request) {
		assert.Equal(t, "DPR-USDT", r.URL.Query().Get("symbol"))
	})

	price, err := newSource(t, "kucoin", srv.URL).FetchPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0.004312", price.String())
}

func TestKucoin_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "missing data", body: `{"code":"200000"}`, wantErr: sources.ErrParse},
		{name: "missing price", body: `{"code":"200000","data":{"time":1}}`, wantErr: sources.ErrParse},
		{name: "not json", body: `<html>`, wantErr: sources.ErrParse},
		{name: "bad price", body: `{"code":"200000","data":{"price":"-"}}`, wantErr: sources.ErrNumeric},
		{name: "api error", body: `{"code":"400100","msg":"symbol invalid"}`, wantErr: sources.ErrAPIError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, http.StatusOK, tt.body, nil)
			_, err := newSource(t, "kucoin", srv.URL).FetchPrice(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
