// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSumPinnedVectors pins the hashes of a handful of short inputs, 32 bytes
// unless noted. The "ABC" entry matches the hash vector published in the
// Spritz paper; the rest, including the 20-byte "arcfour" hash, guard this
// implementation against refactors.
func TestSumPinnedVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
		size  int
		want  string
	}{
		{"empty", nil, 32, "eddbfc9e608c1a73eb8d1311c483626104b8ea762d3075768af586838ffb0381"},
		{"zero byte", []byte{0x00}, 32, "6b811093e8ad7053a762862c4d7e05c5777ea86103d1b7281939b73523d1461b"},
		{"abc", []byte("abc"), 32, "caa0decb4e19aab6ef397fb42269c3885b3667cf395be28345c9cef4662b2487"},
		{"ABC paper vector", []byte("ABC"), 32, "028fa2b48b934a1862b86910513a47677c1c2d95ec3e7570786f1c328bbd4a47"},
		{"arcfour 20 bytes", []byte("arcfour"), 20, "20562b38a2301270b46364ff6981fe6de0c703e4"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			is := assert.New(t)

			got, err := Sum(tt.size, tt.input)
			is.NoError(err)
			is.Equal(mustHex(t, tt.want), got)
		})
	}
}

// TestSumLengthExact verifies the hash is length-exact across the size
// range, and that the size itself separates the outputs: a shorter hash is
// never a prefix of a longer one of the same input.
func TestSumLengthExact(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	input := []byte("length tag")
	for _, n := range []int{1, 2, 31, 32, 33, 64, 255, 256, 257, 65535} {
		out, err := Sum(n, input)
		is.NoError(err)
		is.Len(out, n)
	}

	h32, err := Sum(32, input)
	is.NoError(err)
	h64, err := Sum(64, input)
	is.NoError(err)
	is.NotEqual(h32, h64[:32], "hash size must be part of the domain separation")
}

func TestSumInvalidSize(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, n := range []int{0, -1, MaxHashSize + 1} {
		_, err := Sum(n, []byte("x"))
		is.ErrorIs(err, ErrInvalidHashSize)

		_, err = SumReader(n, strings.NewReader("x"))
		is.ErrorIs(err, ErrInvalidHashSize)
	}
}

// TestSumReaderMatchesSum verifies the streaming hash equals the in-memory
// hash, including for inputs that straddle the internal read buffer.
func TestSumReaderMatchesSum(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	for _, size := range []int{0, 1, 4095, 4096, 4097, 3 * 4096} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i * 13)
		}

		want, err := Sum(32, data)
		is.NoError(err)
		got, err := SumReader(32, bytes.NewReader(data))
		is.NoError(err)
		is.Equal(want, got, "input size %d", size)
	}
}

// errReader fails after its prefix is consumed.
type errReader struct {
	prefix io.Reader
	err    error
}

func (r *errReader) Read(p []byte) (int, error) {
	n, err := r.prefix.Read(p)
	if err == io.EOF {
		return n, r.err
	}
	return n, err
}

func TestSumReaderPropagatesError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := errors.New("disk on fire")
	_, err := SumReader(32, &errReader{prefix: strings.NewReader("partial"), err: boom})
	is.ErrorIs(err, boom)
}

func TestHashPassword(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	h := HashPassword([]byte("password"))
	is.Len(h, PasswordHashSize)

	want, err := Sum(PasswordHashSize, []byte("password"))
	is.NoError(err)
	is.Equal(want, h)

	is.Len(HashPassword(nil), PasswordHashSize)
	is.NotEqual(h, HashPassword([]byte("Password")))
}
