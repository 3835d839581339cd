// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package cli implements the spritz command-line tool: a hash verb, an
// encrypt/decrypt/check verb, and an in-place rekey verb over the envelope
// format of the root package.
package cli

import (
	"github.com/urfave/cli/v2"
)

var hashSizeFlag = &cli.IntFlag{
	Name:    "size",
	Aliases: []string{"s"},
	Value:   256,
	Usage:   "size of the hash in bits; rounded up to whole bytes",
}

var hashHexFlag = &cli.BoolFlag{
	Name:    "hex",
	Aliases: []string{"h"},
	Usage:   "print hashes as hex instead of base64",
}

var decryptFlag = &cli.BoolFlag{
	Name:    "decrypt",
	Aliases: []string{"d"},
	Usage:   "decrypt instead of encrypt",
}

var checkFlag = &cli.BoolFlag{
	Name:    "check",
	Aliases: []string{"n"},
	Usage:   "only verify the password against each file; write nothing",
}

var passwordFlag = &cli.StringFlag{
	Name:    "password",
	Aliases: []string{"p"},
	Usage:   "use the given password instead of prompting on the terminal",
}

var outDirFlag = &cli.StringFlag{
	Name:    "odir",
	Aliases: []string{"o"},
	Usage:   "write output files into the given directory",
}

var drbgFlag = &cli.BoolFlag{
	Name:  "drbg",
	Usage: "draw IVs and payload keys from an AES-CTR-DRBG instead of the default source",
}

var oldPasswordFlag = &cli.StringFlag{
	Name:    "old",
	Aliases: []string{"o"},
	Usage:   "the file's current password",
}

var newPasswordFlag = &cli.StringFlag{
	Name:    "new",
	Aliases: []string{"n"},
	Usage:   "the password to rekey the file to",
}

// App builds the spritz command-line application.
func App() *cli.App {
	return &cli.App{
		Name:  "spritz",
		Usage: "hash, encrypt, and rekey files with the spritz cipher",
		Commands: []*cli.Command{
			hashCommand(),
			cryptCommand(),
			rekeyCommand(),
		},
	}
}
