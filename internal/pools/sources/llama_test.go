package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

func TestLlamaPrices(t *testing.T) {
	var gotPath string
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"coins":{
			"bsc:0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82":{"decimals":18,"symbol":"CAKE","price":2.345,"timestamp":1700000000,"confidence":0.99},
			"bsc:0xe9e7cea3dedca5984780bafc599bd69add087d56":{"decimals":18,"symbol":"BUSD","price":1.0001,"timestamp":1700000000,"confidence":0.99},
			"eth:0xdead":{"price":3}
		}}`))
	}))
	defer srv.Close()

	l := &LlamaPrice{client: srv.Client(), baseURL: srv.URL, chain: "bsc"}
	got, err := l.Prices(context.Background(), []pools.Token{
		{ID: "0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82"},
		{ID: "0xE9e7CEA3DedcA5984780Bafc599bD69ADd087D56"},
		{ID: "0x0000000000000000000000000000000000000005"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, "/prices/current/bsc:0x0e09fabb73bd3ade0a17ecc321fd13a19e81ce82,bsc:0xe9e7cea3dedca5984780bafc599bd69add087d56,bsc:0x0000000000000000000000000000000000000005", gotPath)

	require.Len(t, got, 2)
	cake, ok := got.Lookup("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82")
	require.True(t, ok)
	assert.Equal(t, "2.345", cake.String())
	busd, ok := got.Lookup("0xe9e7cea3dedca5984780bafc599bd69add087d56")
	require.True(t, ok)
	assert.Equal(t, "1.0001", busd.String())
}

func TestLlamaPricesErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{"server error", http.StatusInternalServerError, `{}`, true},
		{"bad json", http.StatusOK, `{not json`, true},
		{"no coins", http.StatusOK, `{"coins":{}}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			l := &LlamaPrice{client: srv.Client(), baseURL: srv.URL, chain: "bsc"}
			got, err := l.Prices(context.Background(), []pools.Token{{ID: "0xabc"}})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestLlamaPricesNoTokens(t *testing.T) {
	l := NewLlamaPrice("http://127.0.0.1:1", "bsc")
	got, err := l.Prices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
