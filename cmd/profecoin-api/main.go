package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	worker "github.com/profecoin/profecoin-api/internal/app/profecoin-api"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/api"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/chain"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/services"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/sql_db"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msgf("No .env file found: %s", err)
	}

	config := infrastructure.NewConfig()
	infrastructure.NewHelper(config).SetupLogger()

	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runService(ctx, config); err != nil {
		log.Fatal().Err(err).Send()
	}
}

func runService(ctx context.Context, config *infrastructure.Config) error {
	provider := infrastructure.NewProvider(config)
	helper := infrastructure.NewHelper(config)

	client, err := provider.InitEthClient(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	opts, err := chain.NewTransactor(ctx, config.AdminPrivateKey, client)
	if err != nil {
		return err
	}
	log.Info().Msgf("Admin signer: %s", opts.From.Hex())

	profeCoinABI, err := chain.LoadABI(config.ProfeCoinArtifactPath, chain.ProfeCoinABI)
	if err != nil {
		return err
	}
	logroNFTABI, err := chain.LoadABI(config.LogroNFTArtifactPath, chain.LogroNFTABI)
	if err != nil {
		return err
	}

	profeCoin := chain.NewContract("ProfeCoin", common.HexToAddress(config.ProfeCoinContractAddress), profeCoinABI, client, opts)
	logroNFT := chain.NewContract("LogroNFT", common.HexToAddress(config.LogroNFTContractAddress), logroNFTABI, client, opts)
	for _, contract := range []*chain.Contract{profeCoin, logroNFT} {
		log.Info().Msgf("%s bound at: %s", contract.Name(), contract.Address().Hex())
	}

	var journal services.Journal
	var history api.History
	if config.JournalEnabled() {
		db, err := provider.InitDBConnection(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		sqlDB := sql_db.NewSqlDB(db)
		if err := sqlDB.CreateSchema(ctx); err != nil {
			return err
		}
		journal, history = sqlDB, sqlDB
	}

	// the queue outlives ctx so requests still in flight during shutdown can submit
	queueCtx, stopQueue := context.WithCancel(context.Background())
	defer stopQueue()

	queue := worker.NewSubmitQueue(config.SubmitQueueSize)
	go queue.Start(queueCtx)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := api.NewRouter(api.Deps{
		Config:   config,
		Writer:   services.NewWriteService(config, profeCoin, logroNFT, queue, journal, helper),
		Reader:   services.NewReadService(config, profeCoin, logroNFT, client),
		History:  history,
		Registry: registry,
	})

	srv := &http.Server{
		Handler:      router,
		Addr:         ":" + config.Port,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: config.ServerWriteTimeout(),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Msgf("Listening on port: %s", config.Port)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error while listening: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
