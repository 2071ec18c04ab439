package infrastructure

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

func NewProvider(config *Config) *Provider {
	return &Provider{config: config}
}

type Provider struct {
	config *Config
}

// InitEthClient dials the ledger JSON-RPC endpoint and checks it answers.
func (p *Provider) InitEthClient(ctx context.Context) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, p.config.BesuRPCUrl)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", p.config.BesuRPCUrl, err)
	}

	if _, err := client.ChainID(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("query chain id from %s: %w", p.config.BesuRPCUrl, err)
	}

	log.Info().Msgf("Connected to ledger RPC node at: %s", p.config.BesuRPCUrl)

	return client, nil
}

// InitDBConnection opens the journal database. Only postgres is wired into the binary.
func (p *Provider) InitDBConnection(ctx context.Context) (*sqlx.DB, error) {
	dataSource := p.config.DbName
	if p.config.DbDriverName == "postgres" {
		dataSource = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			p.config.DbHost, p.config.DbPort, p.config.DbUser, p.config.DbPassword, p.config.DbName, p.config.DbSSLMode)
	}

	db, err := sqlx.ConnectContext(ctx, p.config.DbDriverName, dataSource)
	if err != nil {
		return nil, fmt.Errorf("connect %s journal: %w", p.config.DbDriverName, err)
	}

	log.Debug().Msgf("journal database initiated with driver: %s", p.config.DbDriverName)

	return db, nil
}
