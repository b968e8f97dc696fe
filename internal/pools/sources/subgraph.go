package sources

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/machinebox/graphql"

	"github.com/web3-frozen/smartchef-pools/internal/metrics"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
)

// DefaultSubgraphURL is the hosted SmartChef subgraph.
const DefaultSubgraphURL = "https://api.thegraph.com/subgraphs/name/pancakeswap/smartchef"

const activePoolsQuery = `
query activePools($block: BigInt!) {
  smartChefs(where: { endBlock_gte: $block, startBlock_lt: $block }) {
    id
    stakeToken {
      id
      symbol
      decimals
    }
    earnToken {
      id
      symbol
      decimals
    }
    reward
    startBlock
    endBlock
  }
}`

// Subgraph is the pool registry backed by the SmartChef subgraph.
type Subgraph struct {
	client *graphql.Client
}

func NewSubgraph(url string) *Subgraph {
	return &Subgraph{
		client: graphql.NewClient(url, graphql.WithHTTPClient(&http.Client{Timeout: 15 * time.Second})),
	}
}

// ActivePools returns pools with startBlock < block <= endBlock.
func (s *Subgraph) ActivePools(ctx context.Context, block uint64) (_ []pools.Pool, err error) {
	start := time.Now()
	defer func() { metrics.ObserveUpstream("subgraph", time.Since(start).Seconds(), err) }()

	req := graphql.NewRequest(activePoolsQuery)
	req.Var("block", strconv.FormatUint(block, 10))

	var resp struct {
		SmartChefs []pools.Pool `json:"smartChefs"`
	}
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("subgraph: %w", err)
	}
	return resp.SmartChefs, nil
}
