// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// readPasswordTTY prompts on /dev/tty directly, so prompting works even when
// stdin carries the data being processed.
func readPasswordTTY(prompt string) ([]byte, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open tty: %w", err)
	}
	defer tty.Close()

	fmt.Fprint(tty, prompt)
	pw, err := term.ReadPassword(int(tty.Fd()))
	fmt.Fprintln(tty)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return nil, errors.New("empty password")
	}
	return pw, nil
}

// collectPassword reads a password from the terminal, asking twice and
// comparing when confirm is set.
func collectPassword(confirm bool) ([]byte, error) {
	return collectPasswordPrompt("Password: ", confirm)
}

func collectPasswordPrompt(prompt string, confirm bool) ([]byte, error) {
	pw, err := readPasswordTTY(prompt)
	if err != nil {
		return nil, err
	}
	if !confirm {
		return pw, nil
	}

	again, err := readPasswordTTY("Re-type password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(pw, again) {
		return nil, errors.New("passwords don't match")
	}
	return pw, nil
}
