// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

import (
	"io"

	ctrdrbg "github.com/sixafter/aes-ctr-drbg"
)

// NewDRBGReader returns a random reader backed by an AES-CTR-DRBG instead of
// the default ChaCha20 pool. The envelope format does not require
// cryptographic strength from its random source, but deployments that want a
// NIST-profile generator can pass the result to WithRandReader.
func NewDRBGReader() (io.Reader, error) {
	r, err := ctrdrbg.NewReader()
	if err != nil {
		return nil, err
	}
	return r, nil
}
