package main

import (
	"path/filepath"

	"github.com/beatoz/burnboost-go/cmd/commands"
	"github.com/beatoz/burnboost-go/libs"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.NewRunNodeCmd(),
		commands.NewWalletKeyCmd(),
		commands.NewTokenCmd(),
		commands.VersionCmd,
	)

	executor := cli.PrepareBaseCmd(commands.RootCmd, "BURNBOOST", filepath.Join(libs.GetHome(), ".burnboost"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
