// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

// Package spritz implements the Spritz sponge construction and a
// password-based file encryption format built on top of it.
//
// The package exposes the sponge itself (Sponge), fixed-length hashing of
// byte slices and streams (Sum, SumReader), and a Cryptor that encrypts,
// decrypts, verifies, and rekeys files in the package's 76-byte header
// envelope format.
package spritz

import (
	"errors"
)

var (
	// ErrBadPassword indicates that a header decrypted but its self-check
	// failed. A corrupted header is indistinguishable from a wrong password
	// at this layer; a truncated one is reported as ErrCorruptHeader.
	ErrBadPassword = errors.New("bad password or corrupt file")

	// ErrCorruptHeader indicates the input ended before a full header could
	// be read.
	ErrCorruptHeader = errors.New("corrupt file: short header")

	// ErrInvalidHashSize indicates a requested hash size outside 1..65535 bytes.
	ErrInvalidHashSize = errors.New("invalid hash size")

	// ErrInvalidPasswordHash indicates a password hash that is not exactly
	// PasswordHashSize bytes.
	ErrInvalidPasswordHash = errors.New("invalid password hash length")

	// ErrNilRandReader indicates a Cryptor was configured without a source
	// of randomness.
	ErrNilRandReader = errors.New("nil random reader")
)

// Sponge is the Spritz permutation state: a 256-byte permutation plus the
// six single-byte registers of the Spritz paper. All register and index
// arithmetic is modulo 256, which byte arithmetic provides for free.
//
// A Sponge is exclusively owned by one operation. It is not safe for
// concurrent use; every top-level operation in this package creates its own.
type Sponge struct {
	i, j, k, z, a, w byte
	s                [256]byte
}

// NewSponge returns a Sponge in its initial state: the identity permutation,
// w = 1, and all other registers zero.
func NewSponge() *Sponge {
	sp := &Sponge{w: 1}
	for i := range sp.s {
		sp.s[i] = byte(i)
	}
	return sp
}

// update runs one step of the Spritz state update.
func (sp *Sponge) update() {
	sp.i += sp.w
	sp.j = sp.k + sp.s[sp.j+sp.s[sp.i]]
	sp.k = sp.i + sp.k + sp.s[sp.j]
	sp.s[sp.i], sp.s[sp.j] = sp.s[sp.j], sp.s[sp.i]
}

// whip runs the update step n times and advances w. Only odd values of w are
// coprime with 256, so w += 2 keeps the walk over i full-period.
func (sp *Sponge) whip(n int) {
	for ; n > 0; n-- {
		sp.update()
	}
	sp.w += 2
}

// crush maps the permutation onto itself, losing information: each pair
// (S[v], S[255-v]) is put in ascending order.
func (sp *Sponge) crush() {
	for v := 0; v < 128; v++ {
		if sp.s[v] > sp.s[255-v] {
			sp.s[v], sp.s[255-v] = sp.s[255-v], sp.s[v]
		}
	}
}

// shuffle transitions the sponge from absorbing to squeezing.
func (sp *Sponge) shuffle() {
	sp.whip(512)
	sp.crush()
	sp.whip(512)
	sp.crush()
	sp.whip(512)
	sp.a = 0
}

func (sp *Sponge) absorbNibble(x byte) {
	if sp.a == 128 {
		sp.shuffle()
	}
	sp.s[sp.a], sp.s[128+x] = sp.s[128+x], sp.s[sp.a]
	sp.a++
}

// Absorb feeds one byte into the sponge, low nibble first.
func (sp *Sponge) Absorb(b byte) {
	sp.absorbNibble(b & 0x0f)
	sp.absorbNibble(b >> 4)
}

// AbsorbBytes absorbs p in input order.
func (sp *Sponge) AbsorbBytes(p []byte) {
	for _, b := range p {
		sp.Absorb(b)
	}
}

// AbsorbStop absorbs the special stop symbol, separating the inputs on
// either side of it. Absorbing "a" then "b" with a stop between them yields
// a different output stream than absorbing "ab".
func (sp *Sponge) AbsorbStop() {
	if sp.a == 128 {
		sp.shuffle()
	}
	sp.a++
}

// dripOne emits one output byte. The caller must have passed the shuffle
// gate already.
func (sp *Sponge) dripOne() byte {
	sp.update()
	sp.z = sp.s[sp.j+sp.s[sp.i+sp.s[sp.z+sp.k]]]
	return sp.z
}

// Drip emits one pseudo-random byte, shuffling first if any input has been
// absorbed since the last squeeze.
func (sp *Sponge) Drip() byte {
	if sp.a > 0 {
		sp.shuffle()
	}
	return sp.dripOne()
}

// DripBytes fills p with output bytes. The shuffle gate is passed at most
// once, so the result equals len(p) successive Drip calls.
func (sp *Sponge) DripBytes(p []byte) {
	if sp.a > 0 {
		sp.shuffle()
	}
	for i := range p {
		p[i] = sp.dripOne()
	}
}

// XORKeyStream XORs src with the sponge's output stream and writes the
// result to dst, which may alias src. It satisfies crypto/cipher.Stream.
// It panics if dst is shorter than src.
func (sp *Sponge) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("spritz: output smaller than input")
	}
	if sp.a > 0 {
		sp.shuffle()
	}
	for i, b := range src {
		dst[i] = b ^ sp.dripOne()
	}
}

// skip discards n output bytes.
func (sp *Sponge) skip(n int) {
	if sp.a > 0 {
		sp.shuffle()
	}
	for ; n > 0; n-- {
		sp.dripOne()
	}
}
