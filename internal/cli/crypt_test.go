// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/sixafter/spritz"
)

// newTestApp builds the app with the exit handler disarmed, so failing
// commands return their error instead of terminating the test process.
func newTestApp(out, errOut *bytes.Buffer) *cli.App {
	app := App()
	app.Writer = out
	app.ErrWriter = errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func TestTargetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		encrypting bool
		odir       string
		src        string
		want       string
	}{
		{"encrypt adds extension", true, "", "notes.txt", "notes.txt.spritz"},
		{"decrypt strips extension", false, "", "notes.txt.spritz", "notes.txt"},
		{"decrypt without extension", false, "", "notes.txt", "notes.txt.unenc"},
		{"decrypt bare extension", false, "", ".spritz", ".spritz.unenc"},
		{"encrypt into directory", true, "out", "a/b/notes.txt", filepath.Join("out", "notes.txt.spritz")},
		{"decrypt into directory", false, "out/", "a/b/notes.txt.spritz", filepath.Join("out", "notes.txt")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, targetName(tt.encrypting, tt.odir, tt.src))
		})
	}
}

// TestCryptCommandFiles drives the crypt verb end to end over real files:
// encrypt, check, decrypt back into another directory.
func TestCryptCommandFiles(t *testing.T) {
	is := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("Hello, Spritz!\n"), 0o600))

	var out, errOut bytes.Buffer
	app := newTestApp(&out, &errOut)

	is.NoError(app.Run([]string{"spritz", "crypt", "-p", "password", src}))
	is.Contains(out.String(), "-encrypt-> "+src+".spritz")
	is.Empty(errOut.String())

	encrypted, err := os.ReadFile(src + ".spritz")
	require.NoError(t, err)
	is.Equal(spritz.HeaderSize+15, len(encrypted))

	out.Reset()
	is.NoError(app.Run([]string{"spritz", "crypt", "-n", "-p", "password", src + ".spritz"}))
	is.Contains(out.String(), src+".spritz: password ok")

	outDir := filepath.Join(dir, "decrypted")
	require.NoError(t, os.Mkdir(outDir, 0o700))

	out.Reset()
	is.NoError(app.Run([]string{"spritz", "crypt", "-d", "-p", "password", "-o", outDir, src + ".spritz"}))
	plain, err := os.ReadFile(filepath.Join(outDir, "notes.txt"))
	require.NoError(t, err)
	is.Equal("Hello, Spritz!\n", string(plain))
}

// TestCryptCommandBadPassword: the wrong password reports per file on
// stderr and exits nonzero.
func TestCryptCommandBadPassword(t *testing.T) {
	is := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("secret"), 0o600))

	var out, errOut bytes.Buffer
	app := newTestApp(&out, &errOut)

	require.NoError(t, app.Run([]string{"spritz", "crypt", "-p", "password", src}))

	err := app.Run([]string{"spritz", "crypt", "-n", "-p", "wrong", src + ".spritz"})
	is.Error(err)
	is.Contains(errOut.String(), "bad password")
}

// TestRekeyCommand rekeys a file in place and verifies both passwords'
// behavior afterward.
func TestRekeyCommand(t *testing.T) {
	is := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(src, []byte("Hello, Spritz!\n"), 0o600))

	var out, errOut bytes.Buffer
	app := newTestApp(&out, &errOut)

	require.NoError(t, app.Run([]string{"spritz", "crypt", "-p", "alpha", src}))

	out.Reset()
	is.NoError(app.Run([]string{"spritz", "rekey", "-o", "alpha", "-n", "beta", src + ".spritz"}))
	is.Contains(out.String(), src+".spritz: rekeyed")

	is.NoError(app.Run([]string{"spritz", "crypt", "-n", "-p", "beta", src + ".spritz"}))
	is.Error(app.Run([]string{"spritz", "crypt", "-n", "-p", "alpha", src + ".spritz"}))
}
