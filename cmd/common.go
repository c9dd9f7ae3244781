package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/viper"
	"github.com/spigell/hire-pipeline/internal/aggregate"
	"github.com/spigell/hire-pipeline/internal/filtering"
	"github.com/spigell/hire-pipeline/internal/logger"
	"github.com/spigell/hire-pipeline/internal/recruiting"
	"github.com/spigell/hire-pipeline/internal/secrets"
	"go.uber.org/zap"
)

const tokenHint = "set HIRE_PIPELINE_TOKEN, HIRE_PIPELINE_TOKEN_FILE or the 'api.token-file' key in the configuration file"

// setup builds the logger and reads the config. It exits on failure.
func setup() (*zap.Logger, *Config) {
	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}
	if config == nil {
		config = &Config{}
	}
	if config.API == nil {
		config.API = &APIConfig{}
	}
	if config.Board == nil {
		config.Board = &BoardConfig{}
	}
	if config.Server == nil {
		config.Server = &ServerConfig{}
	}

	lg.Debug("starting with config",
		zap.String("version", version),
		zap.String("api_url", config.API.URL),
		zap.Int("concurrency", config.API.Concurrency),
	)

	return lg, config
}

// newClient resolves the api token once and builds the recruiting client with it.
func newClient(config *APIConfig, lg *zap.Logger) (*recruiting.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:  "api token",
		Value: config.Token,
		Env:   config.TokenEnv,
		File:  config.TokenFile,
	})
	if err != nil {
		return nil, err
	}

	client := recruiting.New(lg, config.URL, token)
	if ua := strings.TrimSpace(config.UserAgent); ua != "" {
		client.UserAgent = ua
	}
	if config.Timeout > 0 {
		client.HTTPClient.Timeout = config.Timeout
	}

	return client, nil
}

// mustClient is newClient that exits with a hint when the token is missing.
func mustClient(config *Config, lg *zap.Logger) *recruiting.Client {
	client, err := newClient(config.API, lg)
	if err != nil {
		lg.Fatal("loading api token", zap.Error(err), zap.String("hint", tokenHint))
	}
	return client
}

func newAggregator(client *recruiting.Client, config *Config, lg *zap.Logger) *aggregate.Aggregator {
	return aggregate.New(client, lg, config.API.Concurrency)
}

func boardFilters(config *BoardConfig) *filtering.Config {
	return &filtering.Config{
		Statuses:        config.Statuses,
		Jobs:            config.Jobs,
		IncludeClosed:   config.IncludeClosed,
		HireRecommended: config.HireRecommended,
	}
}

func parseID(kind, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, raw)
	}
	return id, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// fatalHint returns the hint logged next to an upstream failure.
func fatalHint(err error) string {
	switch {
	case errors.Is(err, recruiting.ErrUnauthorized):
		return tokenHint
	case errors.Is(err, recruiting.ErrNotFound):
		return "check the candidate id"
	default:
		return "check that the recruiting backend is reachable at api.url"
	}
}
