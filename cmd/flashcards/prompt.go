package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/kpauljoseph/flashcards/internal/config"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/logger"
)

// confirmer asks on the terminal unless the config says yes to everything.
// Without a terminal to ask on, the answer is no.
func confirmer(mode string, log *logger.Logger) store.Confirmer {
	if mode == config.ConfirmYes {
		return store.AlwaysConfirm
	}
	return store.ConfirmFunc(func(prompt string) bool {
		ok, err := promptYesNo(prompt + " [y/N]: ")
		if err != nil {
			log.Warn("not confirmed: %v", err)
			return false
		}
		return ok
	})
}

func promptYesNo(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errors.New("stdin is not a terminal, pass -yes to skip the prompt")
	}
	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
