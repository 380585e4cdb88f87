package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// uploadPrompt collects anything missing from the upload flags interactively.
// Only the fields the caller left blank/zero are prompted for.
func uploadPrompt(path, blockSizeStr *string) error {
	var fields []huh.Field

	if *path == "" {
		fields = append(fields, huh.NewInput().
			Title("File to share").
			Placeholder("./report.pdf").
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("a file path is required")
				}
				if _, err := os.Stat(s); err != nil {
					return fmt.Errorf("cannot access %q: %w", s, err)
				}
				return nil
			}).
			Value(path))
	}

	if *blockSizeStr == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Block size").
			Options(
				huh.NewOption("1 MiB", "1048576"),
				huh.NewOption("10 MiB", "10485760"),
			).
			Value(blockSizeStr))
	}

	if len(fields) == 0 {
		return nil
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	return form.Run()
}

// readPassphrase reads a non-empty passphrase from the terminal. When
// confirm is true it reads it a second time and errors on mismatch,
// mirroring a double-entry confirmation prompt.
func readPassphrase(confirm bool) ([]byte, error) {
	fmt.Print("Passphrase: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read passphrase: %w", err)
	}
	if len(pw) == 0 {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}

	if !confirm {
		return pw, nil
	}

	fmt.Print("Confirm passphrase: ")
	confirmPw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return nil, fmt.Errorf("read passphrase confirmation: %w", err)
	}
	if string(pw) != string(confirmPw) {
		return nil, fmt.Errorf("passphrases do not match")
	}
	return pw, nil
}

func parseBlockSize(s string) (int64, error) {
	if s == "" {
		return defaultBlockSize, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid block size %q", s)
	}
	return n, nil
}
