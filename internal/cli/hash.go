// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cli

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/sixafter/spritz"
)

func hashCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "print the spritz hash of each file",
		ArgsUsage: "[file...]",
		// -h selects hex output here, so the injected help flag has to go.
		HideHelp: true,
		Flags:    []cli.Flag{hashHexFlag, hashSizeFlag},
		Action:   hashAction,
	}
}

func hashAction(c *cli.Context) error {
	size := (c.Int(hashSizeFlag.Name) + 7) / 8
	if size < 1 {
		size = 1
	}
	if size > spritz.MaxHashSize {
		return cli.Exit(fmt.Sprintf("hash size %d bits is too large", c.Int(hashSizeFlag.Name)), 1)
	}

	files := c.Args().Slice()
	if len(files) == 0 {
		files = []string{"-"}
	}

	failed := 0
	for _, name := range files {
		digest, err := hashOne(name, size)
		if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "%s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(c.App.Writer, "%s: %s\n", name, encodeDigest(c.Bool(hashHexFlag.Name), digest))
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func hashOne(name string, size int) ([]byte, error) {
	var src io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		src = f
	}
	return spritz.SumReader(size, src)
}

func encodeDigest(asHex bool, digest []byte) string {
	if asHex {
		return hex.EncodeToString(digest)
	}
	return base64.StdEncoding.EncodeToString(digest)
}
