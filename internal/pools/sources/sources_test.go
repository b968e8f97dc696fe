package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/web3-frozen/smartchef-pools/internal/multicall"
)

// fakeMulticall answers each call with respond and records the batch.
type fakeMulticall struct {
	batches        int
	requireSuccess bool
	calls          []multicall.Call
	respond        func(multicall.Call) multicall.Result
	err            error
}

func (f *fakeMulticall) TryAggregate(_ context.Context, requireSuccess bool, calls []multicall.Call) ([]multicall.Result, error) {
	f.batches++
	f.requireSuccess = requireSuccess
	f.calls = calls
	if f.err != nil {
		return nil, f.err
	}
	out := make([]multicall.Result, len(calls))
	for i, c := range calls {
		out[i] = f.respond(c)
	}
	return out, nil
}

type fakeChain struct {
	block uint64
	err   error
}

func (f fakeChain) BlockNumber(context.Context) (uint64, error) { return f.block, f.err }

var errBoom = errors.New("boom")

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func mustPack(args abi.Arguments, vals ...any) []byte {
	b, err := args.Pack(vals...)
	if err != nil {
		panic(err)
	}
	return b
}

func unpackInputs(a abi.ABI, data []byte) []any {
	m, err := a.MethodById(data[:4])
	if err != nil {
		panic(err)
	}
	vals, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		panic(err)
	}
	return vals
}

func addr(hex string) common.Address { return common.HexToAddress(hex) }

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(s)
	}
	return v
}
