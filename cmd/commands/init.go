package commands

import (
	"fmt"
	"path/filepath"

	cfg "github.com/beatoz/burnboost-go/cmd/config"
	"github.com/beatoz/burnboost-go/genesis"
	"github.com/beatoz/burnboost-go/libs"
	"github.com/beatoz/burnboost-go/types"
	acrypto "github.com/beatoz/burnboost-go/types/crypto"
	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	"github.com/tendermint/tendermint/privval"
	tmtypes "github.com/tendermint/tendermint/types"
)

const walletKeyDirPerm = 0o700

// InitParams describes the token created in the genesis.
// No token is created when InitialSupply is 0.
type InitParams struct {
	ChainID       string
	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply uint64
	BaseMarketCap uint64
}

var initParams = InitParams{
	ChainID:       cfg.DefaultChainID,
	Name:          "Burn Boost",
	Symbol:        "BOOST",
	Decimals:      9,
	InitialSupply: 1_000_000_000,
	BaseMarketCap: 1_000_000_000,
}

func NewInitFilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the home directory of burnboost",
		RunE:  initFiles,
	}
	AddInitFlags(cmd)
	return cmd
}

func AddInitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&initParams.ChainID, "chain_id", initParams.ChainID, "the id of chain to generate")
	cmd.Flags().StringVar(&initParams.Name, "token_name", initParams.Name, "the name of the genesis token (up to 32 characters)")
	cmd.Flags().StringVar(&initParams.Symbol, "token_symbol", initParams.Symbol, "the symbol of the genesis token (up to 16 characters)")
	cmd.Flags().Uint8Var(&initParams.Decimals, "decimals", initParams.Decimals, "the decimals of the genesis token")
	cmd.Flags().Uint64Var(&initParams.InitialSupply, "initial_supply", initParams.InitialSupply,
		"the initial supply of the genesis token.\n"+
			"it is minted to the authority whose wallet key file is saved at $BURNBOOST_HOME/walkeys.\n"+
			"if it is 0, the genesis has no token.")
	cmd.Flags().Uint64Var(&initParams.BaseMarketCap, "base_market_cap", initParams.BaseMarketCap, "the market cap of the genesis token before any burn")
}

func initFiles(cmd *cobra.Command, args []string) error {
	s, err := libs.CredentialFromEnv("BURNBOOST_AUTHORITY_SECRET", "Passphrase for the authority's wallet key: ")
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	return InitFilesWith(rootConfig, &initParams, s)
}

func InitFilesWith(config *cfg.Config, params *InitParams, secret []byte) error {
	config.BurnBoost.ChainID = params.ChainID

	for _, dir := range []string{
		filepath.Join(config.RootDir, cfg.DefaultConfigDir),
		config.DBDir(),
	} {
		if err := tmos.EnsureDir(dir, 0o700); err != nil {
			return err
		}
	}
	if err := tmos.EnsureDir(config.WalletKeyDir(), walletKeyDirPerm); err != nil {
		return err
	}

	if tmos.FileExists(config.ConfigFile()) {
		logger.Info("Found config file", "path", config.ConfigFile())
	} else {
		if err := cfg.WriteConfigFile(config); err != nil {
			return err
		}
		logger.Info("Generated config file", "path", config.ConfigFile())
	}

	// validator of the consensus engine
	privValKeyFile := config.PrivValidatorKeyFile()
	privValStateFile := config.PrivValidatorStateFile()
	pv := privval.LoadOrGenFilePV(privValKeyFile, privValStateFile)
	logger.Info("Private validator", "keyFile", privValKeyFile, "stateFile", privValStateFile)

	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
		return nil
	}

	appState := &genesis.GenesisAppState{}
	if params.InitialSupply > 0 {
		prv, xerr := acrypto.NewPrvKey()
		if xerr != nil {
			return xerr
		}
		wk, xerr := acrypto.NewWalletKey(prv, secret)
		if xerr != nil {
			return xerr
		}
		wkPath := filepath.Join(config.WalletKeyDir(), fmt.Sprintf("wk%X.json", wk.Address))
		if xerr := wk.Save(wkPath); xerr != nil {
			return xerr
		}
		logger.Info("Generated the authority's wallet key file", "path", wkPath)

		appState.Tokens = append(appState.Tokens, &genesis.GenesisToken{
			Authority:     wk.Address,
			Token:         types.RandAddress(),
			Name:          params.Name,
			Symbol:        params.Symbol,
			Decimals:      params.Decimals,
			InitialSupply: params.InitialSupply,
			BaseMarketCap: params.BaseMarketCap,
		})
	}
	if xerr := appState.Validate(); xerr != nil {
		return xerr
	}

	pubKey, err := pv.GetPubKey()
	if err != nil {
		return fmt.Errorf("can't get pubkey: %w", err)
	}
	valset := []tmtypes.GenesisValidator{{
		Address: pubKey.Address(),
		PubKey:  pubKey,
		Power:   10,
	}}

	genDoc, err := genesis.NewGenesisDoc(params.ChainID, tmtypes.DefaultConsensusParams(), valset, appState)
	if err != nil {
		return err
	}
	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile)
	return nil
}
