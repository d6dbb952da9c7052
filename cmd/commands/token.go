package commands

import (
	"crypto/ecdsa"
	"fmt"
	"path/filepath"

	"github.com/beatoz/burnboost-go/ctrlers/account"
	"github.com/beatoz/burnboost-go/ctrlers/boost"
	"github.com/beatoz/burnboost-go/ctrlers/burnboost"
	"github.com/beatoz/burnboost-go/libs"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/node"
	"github.com/beatoz/burnboost-go/types"
	"github.com/beatoz/burnboost-go/types/crypto"
	"github.com/beatoz/burnboost-go/types/xerrors"
	"github.com/spf13/cobra"
)

type tokenFlags struct {
	From   string
	Token  string
	Holder string
	To     string
	Amount uint64

	Name          string
	Symbol        string
	Decimals      uint8
	InitialSupply uint64
	BaseMarketCap uint64
}

var tokenArgs = tokenFlags{}

// NewTokenCmd returns the commands which apply token operations directly
// to the ledgers in the local data directory. The node must be stopped.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Operate tokens on the local ledgers",
	}
	cmd.PersistentFlags().StringVar(&tokenArgs.Token, "token", "", "the address of the token")
	cmd.PersistentFlags().StringVar(&tokenArgs.From, "from", "", "the wallet key file of the signer")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a token and mint its initial supply to the signer",
		RunE:  runTokenInit,
	}
	initCmd.Flags().StringVar(&tokenArgs.Name, "name", "", "the name of the token (up to 32 characters)")
	initCmd.Flags().StringVar(&tokenArgs.Symbol, "symbol", "", "the symbol of the token (up to 16 characters)")
	initCmd.Flags().Uint8Var(&tokenArgs.Decimals, "decimals", 9, "the decimals of the token")
	initCmd.Flags().Uint64Var(&tokenArgs.InitialSupply, "supply", 0, "the initial supply")
	initCmd.Flags().Uint64Var(&tokenArgs.BaseMarketCap, "mcap", 0, "the market cap before any burn")

	burnCmd := &cobra.Command{
		Use:   "burn",
		Short: "Burn the signer's tokens",
		RunE:  runTokenBurn,
	}
	burnCmd.Flags().Uint64Var(&tokenArgs.Amount, "amount", 0, "the amount to burn")

	transferCmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer the signer's tokens",
		RunE:  runTokenTransfer,
	}
	transferCmd.Flags().StringVar(&tokenArgs.To, "to", "", "the address of the receiver")
	transferCmd.Flags().Uint64Var(&tokenArgs.Amount, "amount", 0, "the amount to transfer")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the statistics of the token",
		RunE:  runTokenStats,
	}

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the boost after burning more",
		RunE:  runTokenPreview,
	}
	previewCmd.Flags().Uint64Var(&tokenArgs.Amount, "amount", 0, "the hypothetical amount to burn")

	burnedCmd := &cobra.Command{
		Use:   "burned",
		Short: "Show how much a holder has burned",
		RunE:  runTokenBurned,
	}
	burnedCmd.Flags().StringVar(&tokenArgs.Holder, "holder", "", "the address of the holder")

	cmd.AddCommand(initCmd, burnCmd, transferCmd, statsCmd, previewCmd, burnedCmd)
	return cmd
}

// commit persists the changes when `commit_every_op` is set.
func commitLocal(l *node.LocalLedgers) error {
	if !rootConfig.BurnBoost.CommitEveryOp {
		logger.Info("Changes are not committed (burnboost.commit_every_op = false)")
		return nil
	}
	if xerr := l.Commit(); xerr != nil {
		return xerr
	}
	return nil
}

func withLocalLedgers(cb func(*node.LocalLedgers) error) error {
	l, err := node.OpenLocalLedgers(rootConfig, logger)
	if err != nil {
		return err
	}
	defer l.Close()
	return cb(l)
}

func unlockSigner() (*ecdsa.PrivateKey, error) {
	if tokenArgs.From == "" {
		return nil, fmt.Errorf("please set the wallet key file of the signer (--from)")
	}
	wk, xerr := crypto.OpenWalletKey(tokenArgs.From)
	if xerr != nil {
		return nil, xerr
	}

	s, err := libs.CredentialFromEnv("BURNBOOST_WALLET_SECRET", fmt.Sprintf("Passphrase for %v: ", filepath.Base(tokenArgs.From)))
	if err != nil {
		return nil, err
	}
	defer libs.ClearCredential(s)

	prv, xerr := wk.PrvKey(s)
	if xerr != nil {
		return nil, xerr
	}
	return prv, nil
}

func parseAddress(name, s string) (types.Address, error) {
	addr, err := types.HexToAddress(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return addr, nil
}

func printJSON(v interface{}) error {
	bz, err := jsonx.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func runTokenInit(cmd *cobra.Command, args []string) error {
	prv, err := unlockSigner()
	if err != nil {
		return err
	}
	token := types.RandAddress()
	if tokenArgs.Token != "" {
		if token, err = parseAddress("token", tokenArgs.Token); err != nil {
			return err
		}
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		state, xerr := l.BurnCtrler.Initialize(
			crypto.PrvKey2Addr(prv), token,
			tokenArgs.Name, tokenArgs.Symbol, tokenArgs.Decimals,
			tokenArgs.InitialSupply, tokenArgs.BaseMarketCap)
		if xerr != nil {
			return xerr
		}
		if err := commitLocal(l); err != nil {
			return err
		}
		return printJSON(state)
	})
}

func runTokenBurn(cmd *cobra.Command, args []string) error {
	token, err := parseAddress("token", tokenArgs.Token)
	if err != nil {
		return err
	}
	prv, err := unlockSigner()
	if err != nil {
		return err
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		ret, xerr := l.BurnCtrler.Burn(token, crypto.PrvKey2Addr(prv), tokenArgs.Amount)
		if xerr != nil {
			return xerr
		}
		if err := commitLocal(l); err != nil {
			return err
		}
		return printJSON(ret)
	})
}

func runTokenTransfer(cmd *cobra.Command, args []string) error {
	token, err := parseAddress("token", tokenArgs.Token)
	if err != nil {
		return err
	}
	to, err := parseAddress("to", tokenArgs.To)
	if err != nil {
		return err
	}
	if tokenArgs.Amount == 0 {
		return xerrors.ErrInvalidTrxPayloadParams.Wrapf("amount is zero")
	}
	prv, err := unlockSigner()
	if err != nil {
		return err
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		from := crypto.PrvKey2Addr(prv)
		if xerr := l.AcctCtrler.Transfer(token, from, to, tokenArgs.Amount, true); xerr != nil {
			return xerr
		}
		if err := commitLocal(l); err != nil {
			return err
		}
		bal, xerr := l.AcctCtrler.BalanceOf(token, from, true)
		if xerr != nil {
			return xerr
		}
		return printJSON(&account.TokenAccount{Token: token, Owner: from, Balance: bal})
	})
}

func runTokenStats(cmd *cobra.Command, args []string) error {
	token, err := parseAddress("token", tokenArgs.Token)
	if err != nil {
		return err
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		stats, xerr := l.BurnCtrler.GetStats(token)
		if xerr != nil {
			return xerr
		}
		if err := printJSON(stats); err != nil {
			return err
		}
		fmt.Printf("burned: %s%%, boost: +%s%%\n",
			boost.FormatBp(stats.BurnedPercentage), boost.FormatBp(stats.BoostPercentage))
		return nil
	})
}

func runTokenPreview(cmd *cobra.Command, args []string) error {
	token, err := parseAddress("token", tokenArgs.Token)
	if err != nil {
		return err
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		preview, xerr := l.BurnCtrler.PreviewBoost(token, tokenArgs.Amount)
		if xerr != nil {
			return xerr
		}
		if err := printJSON(preview); err != nil {
			return err
		}
		fmt.Printf("boost after burning %d: +%s%%\n", tokenArgs.Amount, boost.FormatBp(preview.BoostBp))
		return nil
	})
}

func runTokenBurned(cmd *cobra.Command, args []string) error {
	token, err := parseAddress("token", tokenArgs.Token)
	if err != nil {
		return err
	}
	holder, err := parseAddress("holder", tokenArgs.Holder)
	if err != nil {
		return err
	}

	return withLocalLedgers(func(l *node.LocalLedgers) error {
		burned, xerr := l.BurnCtrler.BurnedBy(token, holder)
		if xerr != nil {
			return xerr
		}
		return printJSON(&burnboost.UserBurn{Holder: holder, Token: token, BurnedAmount: burned})
	})
}
