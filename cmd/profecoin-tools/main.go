package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/chain"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/infrastructure"
	"github.com/profecoin/profecoin-api/internal/app/profecoin-api/wallet"
)

var (
	profeCoinArtifact string
	logroNFTArtifact  string
)

var rootCmd = &cobra.Command{
	Use:           "profecoin-tools",
	Short:         "Administrative tools for the ProfeCoin ledger",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy ProfeCoin and LogroNFT with the admin account as owner",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := infrastructure.NewConfig()
		infrastructure.NewHelper(config).SetupLogger()

		if config.BesuRPCUrl == "" {
			return infrastructure.ErrMissingRPCURL
		}
		if config.AdminPrivateKey == "" {
			return infrastructure.ErrMissingAdminKey
		}

		ctx := cmd.Context()

		client, err := infrastructure.NewProvider(config).InitEthClient(ctx)
		if err != nil {
			return err
		}
		defer client.Close()

		opts, err := chain.NewTransactor(ctx, config.AdminPrivateKey, client)
		if err != nil {
			return err
		}
		log.Info().Msgf("Deploying contracts with account: %s", opts.From.Hex())

		if profeCoinArtifact == "" {
			profeCoinArtifact = config.ProfeCoinArtifactPath
		}
		if logroNFTArtifact == "" {
			logroNFTArtifact = config.LogroNFTArtifactPath
		}

		profeCoinAddress, err := deployArtifact(ctx, client, opts, profeCoinArtifact)
		if err != nil {
			return err
		}

		logroNFTAddress, err := deployArtifact(ctx, client, opts, logroNFTArtifact)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "PROFECOIN_CONTRACT_ADDRESS=%s\n", profeCoinAddress.Hex())
		fmt.Fprintf(out, "LOGRONFT_CONTRACT_ADDRESS=%s\n", logroNFTAddress.Hex())
		return nil
	},
}

var newStudentCmd = &cobra.Command{
	Use:   "new-student",
	Short: "Generate a student account (address, private key and mnemonic)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := wallet.NewAccount()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Nueva cuenta de estudiante generada con exito!")
		fmt.Fprintln(out, "Guarda estos datos de forma segura. La clave privada es un secreto!")
		fmt.Fprintf(out, "Direccion:        %s\n", account.Address.Hex())
		fmt.Fprintf(out, "Clave privada:    %s\n", account.PrivateKeyHex())
		fmt.Fprintf(out, "Frase mnemonica:  %s\n", account.Mnemonic)
		fmt.Fprintf(out, "Ruta:             %s\n", wallet.DerivationPath)
		return nil
	},
}

// deployArtifact deploys the contract in the hardhat artifact at path with
// the deployer as initialOwner.
func deployArtifact(ctx context.Context, backend chain.Backend, opts *bind.TransactOpts, path string) (common.Address, error) {
	artifact, err := chain.LoadArtifact(path)
	if err != nil {
		return common.Address{}, err
	}

	log.Info().Msgf("Deploying %s from %s", artifact.ContractName, path)

	address, tx, err := chain.Deploy(ctx, backend, opts, artifact, opts.From)
	if err != nil {
		return common.Address{}, err
	}

	log.Info().Msgf("%s deployed at: %s (tx %s)", artifact.ContractName, address.Hex(), tx.Hash().Hex())
	return address, nil
}

func init() {
	deployCmd.Flags().StringVar(&profeCoinArtifact, "profecoin-artifact", "", "hardhat artifact of the ProfeCoin contract (default PROFECOIN_ARTIFACT_PATH)")
	deployCmd.Flags().StringVar(&logroNFTArtifact, "logronft-artifact", "", "hardhat artifact of the LogroNFT contract (default LOGRONFT_ARTIFACT_PATH)")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(newStudentCmd)
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msgf("No .env file found: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Send()
		stop()
		os.Exit(1)
	}
}
