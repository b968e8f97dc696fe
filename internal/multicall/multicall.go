// Package multicall batches read-only contract calls into a single eth_call
// against a Multicall2 aggregator contract.
package multicall

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultAddress is the Multicall2 deployment used by PancakeSwap on BSC.
const DefaultAddress = "0xfF6FD90A470Aaa0c1B8A54681746b07AcdFedc9B"

const multicall2ABI = `[{"inputs":[{"internalType":"bool","name":"requireSuccess","type":"bool"},{"components":[{"internalType":"address","name":"target","type":"address"},{"internalType":"bytes","name":"callData","type":"bytes"}],"internalType":"struct Multicall2.Call[]","name":"calls","type":"tuple[]"}],"name":"tryAggregate","outputs":[{"components":[{"internalType":"bool","name":"success","type":"bool"},{"internalType":"bytes","name":"returnData","type":"bytes"}],"internalType":"struct Multicall2.Result[]","name":"returnData","type":"tuple[]"}],"stateMutability":"nonpayable","type":"function"}]`

// ErrResultCount is returned when the aggregator answers with a different
// number of results than calls were sent.
var ErrResultCount = errors.New("multicall: result count mismatch")

// ABI is the parsed Multicall2 interface.
var ABI = mustParse(multicall2ABI)

// ContractCaller is the read-only subset of an RPC client the aggregator needs.
// *ethclient.Client satisfies it.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Call is one contract call inside a batch.
type Call struct {
	Target   common.Address
	CallData []byte
}

// Result is the outcome of one Call, index aligned with the batch.
type Result struct {
	Success    bool
	ReturnData []byte
}

type Client struct {
	caller  ContractCaller
	address common.Address
}

func New(caller ContractCaller, address common.Address) *Client {
	return &Client{caller: caller, address: address}
}

// TryAggregate executes calls in one round trip. With requireSuccess the whole
// batch reverts if any call fails; otherwise failed calls come back with
// Success=false.
func (c *Client) TryAggregate(ctx context.Context, requireSuccess bool, calls []Call) ([]Result, error) {
	if len(calls) == 0 {
		return nil, nil
	}

	data, err := ABI.Pack("tryAggregate", requireSuccess, calls)
	if err != nil {
		return nil, fmt.Errorf("multicall: pack: %w", err)
	}

	to := c.address
	raw, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("multicall: call: %w", err)
	}

	out, err := ABI.Unpack("tryAggregate", raw)
	if err != nil {
		return nil, fmt.Errorf("multicall: unpack: %w", err)
	}
	if len(out) != 1 {
		return nil, fmt.Errorf("multicall: unexpected output arity %d", len(out))
	}

	results := *abi.ConvertType(out[0], new([]Result)).(*[]Result)
	if len(results) != len(calls) {
		return nil, fmt.Errorf("%w: sent %d, got %d", ErrResultCount, len(calls), len(results))
	}
	return results, nil
}

func mustParse(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}
