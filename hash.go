// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

import (
	"fmt"
	"io"
)

const (
	// PasswordHashSize is the size, in bytes, of the hash every password is
	// reduced to before it touches the envelope format.
	PasswordHashSize = 64

	// MaxHashSize is the largest hash Sum and SumReader will produce.
	MaxHashSize = 65535

	// hashBufferSize is the chunk size SumReader reads with.
	hashBufferSize = 4096
)

// sum is the unchecked core of Sum, for callers inside the package whose
// sizes are fixed and known valid.
func sum(n int, data []byte) []byte {
	sp := NewSponge()
	sp.AbsorbBytes(data)
	sp.AbsorbStop()
	sp.absorbLength(uint64(n))
	out := make([]byte, n)
	sp.DripBytes(out)
	return out
}

// Sum returns the n-byte Spritz hash of data. n must be in 1..MaxHashSize.
func Sum(n int, data []byte) ([]byte, error) {
	if n < 1 || n > MaxHashSize {
		return nil, ErrInvalidHashSize
	}
	return sum(n, data), nil
}

// SumReader returns the n-byte Spritz hash of everything readable from r.
func SumReader(n int, r io.Reader) ([]byte, error) {
	if n < 1 || n > MaxHashSize {
		return nil, ErrInvalidHashSize
	}

	sp := NewSponge()
	buf := make([]byte, hashBufferSize)
	for {
		c, err := r.Read(buf)
		if c > 0 {
			sp.AbsorbBytes(buf[:c])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("spritz: hash read: %w", err)
		}
	}

	sp.AbsorbStop()
	sp.absorbLength(uint64(n))
	out := make([]byte, n)
	sp.DripBytes(out)
	return out, nil
}

// HashPassword reduces a raw password to the fixed-size hash the envelope
// operations consume.
func HashPassword(password []byte) []byte {
	return sum(PasswordHashSize, password)
}

// absorbLength absorbs n as a base-256 positional encoding, most significant
// byte first. The hash size is part of the hash's domain separation, so two
// sizes never share a prefix of the same output stream.
func (sp *Sponge) absorbLength(n uint64) {
	if n > 255 {
		sp.absorbLength(n >> 8)
	}
	sp.Absorb(byte(n))
}
