// Copyright (c) 2024-2025 Six After, Inc
//
// This source code is licensed under the Apache 2.0 License found in the
// LICENSE file in the root directory of this source tree.

package spritz

import (
	"bytes"
	"fmt"
	"io"
)

// HeaderSize is the exact size of the envelope header at the front of every
// encrypted file. The payload that follows is the same length as the
// plaintext; there is no trailer and no length field.
const HeaderSize = 76

// Header layout. The IV is XORed with the tail of the password hash; the
// rest is XOR-encrypted under the IV-derived keystream, with an extra
// CHECK[0]-dependent skip between the hash check and the payload key.
const (
	headerIVEnd    = 4  // [0:4)  IV
	headerCheckEnd = 8  // [4:8)  CHECK, 4 random bytes
	headerHashEnd  = 12 // [8:12) Spritz-hash(CHECK, 4)
	checkHashSize  = 4
)

// copyBufferSize is the chunk size the payload XOR-copy loop works in.
const copyBufferSize = 4096

// Cryptor encrypts, decrypts, verifies, and rekeys files in the package's
// envelope format. Every method derives its keys from a 64-byte password
// hash as produced by HashPassword.
//
// Implementations are safe for concurrent use if their configured random
// reader is; every operation owns its own sponges for the duration of the
// call.
type Cryptor interface {
	// Encrypt writes the encryption of src to dst: a HeaderSize-byte header
	// followed by the XOR of src with the payload keystream.
	Encrypt(pwHash []byte, src io.Reader, dst io.Writer) error

	// Decrypt reads an encrypted stream from src and writes the recovered
	// plaintext to dst. It returns ErrBadPassword if the header does not
	// verify under pwHash.
	Decrypt(pwHash []byte, src io.Reader, dst io.Writer) error

	// Check verifies that pwHash opens the encrypted stream on src without
	// producing any plaintext.
	Check(pwHash []byte, src io.Reader) error

	// Rekey re-encrypts the header of f, in place, from oldHash to newHash
	// under a fresh IV. The payload is untouched. A failed write after the
	// header verification leaves f corrupted; in-place rekey cannot avoid
	// that window.
	Rekey(oldHash, newHash []byte, f io.ReadWriteSeeker) error
}

// cryptor implements the Cryptor interface.
type cryptor struct {
	config *runtimeConfig
}

// DefaultCryptor is a global, shared Cryptor using the default random
// source. It is safe for concurrent use.
var DefaultCryptor Cryptor

func init() {
	var err error
	DefaultCryptor, err = NewCryptor()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize DefaultCryptor: %v", err))
	}
}

// NewCryptor creates a new Cryptor. It accepts variadic Option parameters
// to configure the Cryptor, and returns an error if the configured random
// reader is nil.
func NewCryptor(options ...Option) (Cryptor, error) {
	configOpts := defaultConfigOptions()
	for _, opt := range options {
		opt(configOpts)
	}

	config, err := buildRuntimeConfig(configOpts)
	if err != nil {
		return nil, err
	}

	return &cryptor{config: config}, nil
}

// Config returns the runtime configuration of the Cryptor.
// It implements the Configuration interface.
func (c *cryptor) Config() Config {
	return c.config
}

// Encrypt encrypts src to dst with the package's DefaultCryptor.
func Encrypt(pwHash []byte, src io.Reader, dst io.Writer) error {
	return DefaultCryptor.Encrypt(pwHash, src, dst)
}

// Decrypt decrypts src to dst with the package's DefaultCryptor.
func Decrypt(pwHash []byte, src io.Reader, dst io.Writer) error {
	return DefaultCryptor.Decrypt(pwHash, src, dst)
}

// Check verifies src against pwHash with the package's DefaultCryptor.
func Check(pwHash []byte, src io.Reader) error {
	return DefaultCryptor.Check(pwHash, src)
}

// Rekey rekeys f with the package's DefaultCryptor.
func Rekey(oldHash, newHash []byte, f io.ReadWriteSeeker) error {
	return DefaultCryptor.Rekey(oldHash, newHash, f)
}

func checkPasswordHash(pwHash []byte) error {
	if len(pwHash) != PasswordHashSize {
		return ErrInvalidPasswordHash
	}
	return nil
}

// fill reads exactly len(p) bytes from the configured random reader.
func (c *cryptor) fill(p []byte) error {
	if _, err := io.ReadFull(c.config.randReader, p); err != nil {
		return fmt.Errorf("spritz: random source: %w", err)
	}
	return nil
}

// encryptHeader encrypts a fully populated plaintext header in place.
//
// The extra skip between the hash check and the payload key is derived from
// the plaintext CHECK[0], so it must be captured before the CHECK bytes are
// XORed.
func encryptHeader(header, pwHash []byte) {
	var iv [headerIVEnd]byte
	copy(iv[:], header[:headerIVEnd])
	for i := range iv {
		header[i] ^= pwHash[PasswordHashSize-headerIVEnd+i]
	}

	key := expandKey(pwHash, iv[:])
	stream := keystream(key, iv[1])

	extraSkip := 5 + int(header[headerIVEnd])
	stream.XORKeyStream(header[headerIVEnd:headerHashEnd], header[headerIVEnd:headerHashEnd])
	stream.skip(extraSkip)
	stream.XORKeyStream(header[headerHashEnd:], header[headerHashEnd:])
}

// decryptHeader decrypts an encrypted header in place, verifying the check
// bytes against their embedded hash before touching the payload key.
func decryptHeader(header, pwHash []byte) error {
	for i := 0; i < headerIVEnd; i++ {
		header[i] ^= pwHash[PasswordHashSize-headerIVEnd+i]
	}

	key := expandKey(pwHash, header[:headerIVEnd])
	stream := keystream(key, header[1])

	stream.XORKeyStream(header[headerIVEnd:headerHashEnd], header[headerIVEnd:headerHashEnd])
	if !bytes.Equal(sum(checkHashSize, header[headerIVEnd:headerCheckEnd]), header[headerCheckEnd:headerHashEnd]) {
		return ErrBadPassword
	}

	stream.skip(5 + int(header[headerIVEnd]))
	stream.XORKeyStream(header[headerHashEnd:], header[headerHashEnd:])
	return nil
}

// newHeader builds a plaintext header from the configured random source and
// returns it alongside the payload keystream. The keystream is built here
// because it is keyed by fields that are only in the clear before
// encryptHeader runs.
func (c *cryptor) newHeader() (header []byte, payload *Sponge, err error) {
	header = make([]byte, HeaderSize)
	if err = c.fill(header[:headerCheckEnd]); err != nil {
		return nil, nil, err
	}
	copy(header[headerCheckEnd:headerHashEnd], sum(checkHashSize, header[headerIVEnd:headerCheckEnd]))
	if err = c.fill(header[headerHashEnd:]); err != nil {
		return nil, nil, err
	}

	payload = keystream(header[headerHashEnd:], header[5])
	return header, payload, nil
}

func (c *cryptor) Encrypt(pwHash []byte, src io.Reader, dst io.Writer) error {
	if err := checkPasswordHash(pwHash); err != nil {
		return err
	}

	header, payload, err := c.newHeader()
	if err != nil {
		return err
	}
	encryptHeader(header, pwHash)

	if _, err := dst.Write(header); err != nil {
		return fmt.Errorf("spritz: write header: %w", err)
	}
	return xorCopy(payload, dst, src)
}

// readHeader reads and decrypts the header at the front of src.
func readHeader(pwHash []byte, src io.Reader) ([]byte, error) {
	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(src, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrCorruptHeader
		}
		return nil, fmt.Errorf("spritz: read header: %w", err)
	}
	if err := decryptHeader(header, pwHash); err != nil {
		return nil, err
	}
	return header, nil
}

func (c *cryptor) Decrypt(pwHash []byte, src io.Reader, dst io.Writer) error {
	if err := checkPasswordHash(pwHash); err != nil {
		return err
	}

	header, err := readHeader(pwHash, src)
	if err != nil {
		return err
	}

	payload := keystream(header[headerHashEnd:], header[5])
	return xorCopy(payload, dst, src)
}

func (c *cryptor) Check(pwHash []byte, src io.Reader) error {
	if err := checkPasswordHash(pwHash); err != nil {
		return err
	}

	_, err := readHeader(pwHash, src)
	return err
}

func (c *cryptor) Rekey(oldHash, newHash []byte, f io.ReadWriteSeeker) error {
	if err := checkPasswordHash(oldHash); err != nil {
		return err
	}
	if err := checkPasswordHash(newHash); err != nil {
		return err
	}

	header, err := readHeader(oldHash, f)
	if err != nil {
		return err
	}

	if err := c.fill(header[:headerIVEnd]); err != nil {
		return err
	}
	encryptHeader(header, newHash)

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("spritz: seek: %w", err)
	}
	if _, err := f.Write(header); err != nil {
		return fmt.Errorf("spritz: rewrite header: %w", err)
	}
	return nil
}

// xorCopy streams src to dst through the payload keystream. The XOR stream
// has no block structure, so any input length round-trips.
func xorCopy(stream *Sponge, dst io.Writer, src io.Reader) error {
	buf := make([]byte, copyBufferSize)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			stream.XORKeyStream(buf[:n], buf[:n])
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return fmt.Errorf("spritz: write payload: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("spritz: read payload: %w", err)
		}
	}
}
