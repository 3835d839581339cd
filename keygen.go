// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

const (
	// payloadKeySize is the size of the key driving the payload keystream.
	payloadKeySize = 64

	// keygenBaseRounds is the minimum number of key-expansion rounds; the
	// last IV byte adds 0..255 more, so the exact work factor varies per file.
	keygenBaseRounds = 20000

	// streamSkipBytes is how much of a fresh keystream is discarded before
	// any of it is used. RC4-family ciphers bias their early output, and the
	// first 2 KiB is comfortably past the distinguishable region.
	streamSkipBytes = 2048
)

// expandKey derives the 64-byte key protecting the header payload from a
// password hash and a 4-byte IV.
//
// A single sponge runs across all rounds and is never reset; it accumulates
// state from every prior round. Each round salts the sponge with a rotating
// window of the original IV (bias below), then feeds the evolving key and IV
// copies back through it.
func expandKey(pwHash, iv []byte) []byte {
	tgt := make([]byte, payloadKeySize)
	copy(tgt, pwHash)
	var ivCopy [4]byte
	copy(ivCopy[:], iv)

	sp := NewSponge()
	rounds := keygenBaseRounds + int(iv[3])
	for r := 0; r < rounds; r++ {
		bias := ivCopy[0] & 3
		sp.AbsorbBytes(ivCopy[:])
		sp.AbsorbStop()
		sp.AbsorbBytes(iv[bias:4])
		sp.AbsorbStop()
		sp.AbsorbBytes(tgt)
		sp.AbsorbStop()
		sp.DripBytes(tgt)
		sp.DripBytes(ivCopy[:])
	}
	return tgt
}

// keystream returns a sponge keyed with a 64-byte key and advanced past the
// first streamSkipBytes+skip bytes of its output.
func keystream(key []byte, skip byte) *Sponge {
	sp := NewSponge()
	sp.AbsorbBytes(key)
	sp.skip(streamSkipBytes + int(skip))
	return sp
}
