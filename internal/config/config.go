package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	infisical "github.com/infisical/go-sdk"
)

const (
	defaultRPCURL      = "https://bsc-dataseed.binance.org"
	defaultSubgraphURL = "https://api.thegraph.com/subgraphs/name/pancakeswap/smartchef"
	defaultMulticall   = "0xfF6FD90A470Aaa0c1B8A54681746b07AcdFedc9B"
	defaultRouter      = "0x10ED43C718714eb63d5aA57B78B54704E256024E"
)

type Config struct {
	Port             string
	RPCURL           string
	SubgraphURL      string
	MulticallAddress string
	RouterAddress    string
	PriceSource      string
	PriceFeedURL     string
	PriceFeedChain   string
	AllowedOrigins   []string
	RequestTimeout   time.Duration
}

func Load() Config {
	cfg := Config{
		Port:             envOr("PORT", "8080"),
		RPCURL:           os.Getenv("RPC_URL"),
		SubgraphURL:      os.Getenv("SUBGRAPH_URL"),
		MulticallAddress: envOr("MULTICALL_ADDRESS", defaultMulticall),
		RouterAddress:    envOr("ROUTER_ADDRESS", defaultRouter),
		PriceSource:      strings.ToLower(envOr("PRICE_SOURCE", "llama")),
		PriceFeedURL:     envOr("PRICE_FEED_URL", "https://coins.llama.fi"),
		PriceFeedChain:   envOr("PRICE_FEED_CHAIN", "bsc"),
		AllowedOrigins:   splitList(envOr("ALLOWED_ORIGINS", "*")),
		RequestTimeout:   durationOr("REQUEST_TIMEOUT", 25*time.Second),
	}

	// If Infisical credentials are available, fetch endpoints from Infisical
	clientID := os.Getenv("INFISICAL_CLIENT_ID")
	clientSecret := os.Getenv("INFISICAL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		loadFromInfisical(&cfg, clientID, clientSecret)
	}

	// Public endpoints last, so env and Infisical both take precedence
	if cfg.RPCURL == "" {
		cfg.RPCURL = defaultRPCURL
	}
	if cfg.SubgraphURL == "" {
		cfg.SubgraphURL = defaultSubgraphURL
	}

	return cfg
}

func loadFromInfisical(cfg *Config, clientID, clientSecret string) {
	siteURL := envOr("INFISICAL_SITE_URL", "https://app.infisical.com")
	projectID := os.Getenv("INFISICAL_PROJECT_ID")
	envSlug := envOr("INFISICAL_ENV", "prod")

	if projectID == "" {
		slog.Warn("INFISICAL_PROJECT_ID not set, skipping Infisical")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := infisical.NewInfisicalClient(ctx, infisical.Config{
		SiteUrl:          siteURL,
		AutoTokenRefresh: false,
	})

	_, err := client.Auth().UniversalAuthLogin(clientID, clientSecret)
	if err != nil {
		slog.Error("infisical auth failed", "error", err)
		return
	}

	// Private RPC and gateway URLs usually embed an API key.
	secrets := map[string]*string{
		"RPC_URL":      &cfg.RPCURL,
		"SUBGRAPH_URL": &cfg.SubgraphURL,
	}

	for key, target := range secrets {
		if *target != "" {
			continue // env var already set, skip
		}
		secret, err := client.Secrets().Retrieve(infisical.RetrieveSecretOptions{
			SecretKey:   key,
			Environment: envSlug,
			ProjectID:   projectID,
			SecretPath:  "/",
		})
		if err != nil {
			slog.Warn("failed to retrieve secret from infisical", "key", key, "error", err)
			continue
		}
		*target = secret.SecretValue
		slog.Info("loaded secret from infisical", "key", key)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback.String())
		return fallback
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
