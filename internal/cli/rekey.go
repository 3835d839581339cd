// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sixafter/spritz"
)

func rekeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "rekey",
		Usage:     "change the password of encrypted files in place",
		ArgsUsage: "file...",
		Flags:     []cli.Flag{oldPasswordFlag, newPasswordFlag, drbgFlag},
		Action:    rekeyAction,
	}
}

func rekeyAction(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return cli.Exit("rekey: no files given", 1)
	}

	oldHash, err := rekeyPasswordHash(c, oldPasswordFlag.Name, "Old password: ", false)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	newHash, err := rekeyPasswordHash(c, newPasswordFlag.Name, "New password: ", true)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	cryptor, err := newCryptor(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	failed := 0
	for _, name := range c.Args().Slice() {
		if err := rekeyOne(cryptor, oldHash, newHash, name); err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: rekeyed\n", name)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func rekeyPasswordHash(c *cli.Context, flag, prompt string, confirm bool) ([]byte, error) {
	if c.IsSet(flag) {
		return spritz.HashPassword([]byte(c.String(flag))), nil
	}
	pw, err := collectPasswordPrompt(prompt, confirm)
	if err != nil {
		return nil, err
	}
	return spritz.HashPassword(pw), nil
}

func rekeyOne(cryptor spritz.Cryptor, oldHash, newHash []byte, name string) error {
	f, err := os.OpenFile(name, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	rerr := cryptor.Rekey(oldHash, newHash, f)
	if cerr := f.Close(); rerr == nil {
		rerr = cerr
	}
	return rerr
}
