// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

import (
	"io"

	prng "github.com/sixafter/prng-chacha"
)

// Option defines a function type for configuring a Cryptor.
type Option func(*ConfigOptions)

// WithRandReader sets a custom random reader for the Cryptor.
//
// The reader supplies the non-secret random bytes the envelope format needs
// (IV, check bytes, payload key). It does not have to be cryptographically
// strong, but its output must not repeat across invocations; the default is
// a ChaCha20-based pooled reader. Tests substitute deterministic readers
// through this option.
func WithRandReader(reader io.Reader) Option {
	return func(c *ConfigOptions) {
		c.RandReader = reader
	}
}

// ConfigOptions holds the configurable options for a Cryptor.
// It is used with the Function Options pattern.
type ConfigOptions struct {
	// RandReader is the source of randomness for IVs and payload keys.
	RandReader io.Reader
}

// Config holds the runtime configuration of a Cryptor.
// It is immutable after initialization.
type Config interface {
	// RandReader returns the source of randomness for IVs and payload keys.
	RandReader() io.Reader
}

// Configuration defines the interface for retrieving a Cryptor's
// configuration.
type Configuration interface {
	// Config returns the runtime configuration of the Cryptor.
	Config() Config
}

// runtimeConfig is the immutable Config implementation.
type runtimeConfig struct {
	randReader io.Reader
}

// RandReader returns the source of randomness for IVs and payload keys.
func (r runtimeConfig) RandReader() io.Reader {
	return r.randReader
}

// buildRuntimeConfig validates ConfigOptions and freezes it into a
// runtimeConfig.
func buildRuntimeConfig(opts *ConfigOptions) (*runtimeConfig, error) {
	if opts.RandReader == nil {
		return nil, ErrNilRandReader
	}

	return &runtimeConfig{
		randReader: opts.RandReader,
	}, nil
}

// defaultConfigOptions returns the options NewCryptor starts from before
// applying the caller's.
func defaultConfigOptions() *ConfigOptions {
	return &ConfigOptions{
		RandReader: prng.Reader,
	}
}
