package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/web3-frozen/smartchef-pools/internal/config"
	"github.com/web3-frozen/smartchef-pools/internal/handler"
	"github.com/web3-frozen/smartchef-pools/internal/multicall"
	"github.com/web3-frozen/smartchef-pools/internal/pools"
	"github.com/web3-frozen/smartchef-pools/internal/pools/sources"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg := config.Load()

	for name, addr := range map[string]string{"MULTICALL_ADDRESS": cfg.MulticallAddress, "ROUTER_ADDRESS": cfg.RouterAddress} {
		if !common.IsHexAddress(addr) {
			logger.Error("invalid contract address", "key", name, "value", addr)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Chain RPC
	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		logger.Error("failed to dial rpc", "error", err)
		os.Exit(1)
	}
	defer eth.Close()

	mc := multicall.New(eth, common.HexToAddress(cfg.MulticallAddress))

	var priceSource pools.PriceSource
	switch cfg.PriceSource {
	case "dex":
		priceSource = sources.NewDEXPrice(mc, common.HexToAddress(cfg.RouterAddress), logger)
	case "llama":
		priceSource = sources.NewLlamaPrice(cfg.PriceFeedURL, cfg.PriceFeedChain)
	default:
		logger.Error("unknown PRICE_SOURCE", "value", cfg.PriceSource)
		os.Exit(1)
	}

	balances := sources.NewBalances(eth, mc)
	aggregator := pools.NewAggregator(sources.NewSubgraph(cfg.SubgraphURL), balances, priceSource, logger)
	logger.Info("aggregator configured", "price_source", priceSource.Name(), "subgraph", cfg.SubgraphURL)

	r := handler.NewRouter(handler.RouterConfig{
		Pools:          aggregator,
		Chain:          balances,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down gracefully")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
