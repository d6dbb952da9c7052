package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beatoz/burnboost-go/libs"
	"github.com/beatoz/burnboost-go/libs/jsonx"
	"github.com/beatoz/burnboost-go/types/bytes"
	"github.com/beatoz/burnboost-go/types/crypto"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	changePass bool
	newKey     bool
)

func AddWalletKeyCmdFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(
		&changePass,
		"change-passphrase",
		"c",
		false,
		"Change passphrase of a wallet key file")
	cmd.Flags().BoolVarP(
		&newKey,
		"new",
		"n",
		false,
		"Generate a new secp256k1 wallet key file in each directory of the arguments")
}

func NewWalletKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallet-key",
		Aliases: []string{"wallet_key"},
		Short:   "Wallet key file management",
		RunE:    handleWalletKey,
		PreRun:  deprecateSnakeCase,
	}

	AddWalletKeyCmdFlag(cmd)

	return cmd
}

func handleWalletKey(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{rootConfig.WalletKeyDir()}
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "~") {
			arg = strings.Replace(arg, "~", libs.GetHome(), 1)
		}

		if newKey {
			if err := newWalletKey(arg); err != nil {
				return err
			}
			continue
		}

		fileInfo, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if changePass {
			if err := resetPassphrase(arg); err != nil {
				return err
			}
		} else if fileInfo.IsDir() {
			if err := showWalletKeyDir(arg); err != nil {
				return err
			}
		} else {
			if err := showWalletKeyFile(arg); err != nil {
				return err
			}
		}
	}
	return nil
}

func newWalletKey(dir string) error {
	if err := os.MkdirAll(dir, walletKeyDirPerm); err != nil {
		return err
	}

	prv, xerr := crypto.NewPrvKey()
	if xerr != nil {
		return xerr
	}

	s, err := libs.ReadCredential("Passphrase for the new wallet key: ")
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	wk, xerr := crypto.NewWalletKey(prv, s)
	if xerr != nil {
		return xerr
	}
	path := filepath.Join(dir, fmt.Sprintf("wk%X.json", wk.Address))
	if xerr := wk.Save(path); xerr != nil {
		return xerr
	}
	fmt.Println("address:", wk.Address)
	fmt.Println("path:", path)
	return nil
}

func showWalletKeyDir(path string) error {
	err := filepath.WalkDir(path, func(entry string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			fmt.Println("it is directory", entry)
		} else if err := showWalletKeyFile(entry); err != nil {
			return err
		}
		fmt.Println("---")
		fmt.Println(" ")
		return nil
	})
	return err
}

func showWalletKeyFile(path string) error {
	wk, xerr := crypto.OpenWalletKey(path)
	if xerr != nil {
		return xerr
	}

	s, err := libs.ReadCredential(fmt.Sprintf("Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer libs.ClearCredential(s)

	prv, xerr := wk.PrvKey(s)
	if xerr != nil {
		return xerr
	}
	prvBytes := ethcrypto.FromECDSA(prv)
	defer bytes.ClearBytes(prvBytes)

	tmp := &struct {
		*crypto.WalletKey `json:"walletKey"`
		PrvKey            bytes.HexBytes `json:"prvKey"`
		PubKey            bytes.HexBytes `json:"pubKey"`
	}{
		WalletKey: wk,
		PrvKey:    prvBytes,
		PubKey:    ethcrypto.CompressPubkey(&prv.PublicKey),
	}
	bz, err := jsonx.MarshalIndent(tmp, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bz))
	return nil
}

func resetPassphrase(path string) error {
	wk, xerr := crypto.OpenWalletKey(path)
	if xerr != nil {
		return xerr
	}

	pass0, err := libs.ReadCredential(fmt.Sprintf("Current Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(pass0)
	prv, xerr := wk.PrvKey(pass0)
	if xerr != nil {
		return xerr
	}

	pass1, err := libs.ReadCredential(fmt.Sprintf("New Passphrase for %v: ", filepath.Base(path)))
	if err != nil {
		return err
	}
	defer bytes.ClearBytes(pass1)
	newWk, xerr := crypto.NewWalletKey(prv, pass1)
	if xerr != nil {
		return xerr
	}
	if xerr := newWk.Save(path); xerr != nil {
		return xerr
	}
	return nil
}
