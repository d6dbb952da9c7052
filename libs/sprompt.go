package libs

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"

	rbytes "github.com/beatoz/burnboost-go/types/bytes"
	"golang.org/x/crypto/ssh/terminal"
)

var ErrNotTerminal = errors.New("stdin is not a terminal; set the passphrase in the environment")

func ClearCredential(c []byte) {
	rbytes.ClearBytes(c)
}

// CredentialFromEnv returns the value of the environment variable `env`.
// If it is empty, the passphrase is read from the terminal with `prompt`.
func CredentialFromEnv(env, prompt string) ([]byte, error) {
	if s := os.Getenv(env); s != "" {
		return []byte(s), nil
	}
	return ReadCredential(prompt)
}

// ReadCredential reads a passphrase from the terminal without echoing it.
func ReadCredential(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return readFromTERM(prompt, fd)
}

func readFromTERM(prompt string, fd int) ([]byte, error) {
	initialTermState, err := terminal.GetState(fd)
	if err != nil {
		return nil, err
	}

	// the echo must come back even if the prompt is interrupted.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)
	go func() {
		if _, ok := <-c; ok {
			_ = terminal.Restore(fd, initialTermState)
			os.Exit(1)
		}
	}()

	fmt.Print(prompt)
	p, err := terminal.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return nil, err
	}
	return bytes.TrimSpace(p), nil
}
