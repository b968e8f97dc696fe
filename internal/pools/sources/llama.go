package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

const (
	DefaultLlamaURL   = "https://coins.llama.fi"
	DefaultLlamaChain = "bsc"
)

// LlamaPrice prices tokens through the DefiLlama coins API, keyed by
// "chain:address". The whole token set is fetched in one request.
type LlamaPrice struct {
	client  *http.Client
	baseURL string
	chain   string
}

func NewLlamaPrice(baseURL, chain string) *LlamaPrice {
	return &LlamaPrice{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		chain:   chain,
	}
}

func (l *LlamaPrice) Name() string { return "llama" }

type llamaResponse struct {
	Coins map[string]struct {
		Price      decimal.Decimal `json:"price"`
		Symbol     string          `json:"symbol"`
		Decimals   int             `json:"decimals"`
		Confidence float64         `json:"confidence"`
	} `json:"coins"`
}

func (l *LlamaPrice) Prices(ctx context.Context, tokens []pools.Token) (_ pools.Prices, err error) {
	out := make(pools.Prices, len(tokens))
	if len(tokens) == 0 {
		return out, nil
	}

	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = l.chain + ":" + t.Key()
	}

	start := time.Now()
	defer func() { metrics.ObserveUpstream("price_llama", time.Since(start).Seconds(), err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/prices/current/"+strings.Join(keys, ","), nil)
	if err != nil {
		return nil, fmt.Errorf("llama request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llama API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llama API status: %d", resp.StatusCode)
	}

	var body llamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode llama: %w", err)
	}

	prefix := strings.ToLower(l.chain) + ":"
	for key, coin := range body.Coins {
		addr, ok := strings.CutPrefix(strings.ToLower(key), prefix)
		if !ok {
			continue
		}
		out[addr] = coin.Price
	}
	return out, nil
}
