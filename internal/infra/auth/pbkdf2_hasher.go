// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"library/config"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/service"
	"library/internal/errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minIterations = 1
	minSaltLength = 8
	minKeyLength  = 16
)

// HasherConfig holds the parameters used for newly created records.
type HasherConfig struct {
	Iterations int
	// MaxIterations is the highest iteration count a stored record may carry.
	// Zero selects config.DefaultMaxIterations, raised to Iterations if needed.
	MaxIterations    int
	SaltLength       int
	KeyLength        int
	MaxPasswordBytes int
}

// DefaultHasherConfig returns 1000 iterations with 24-byte salts and keys.
func DefaultHasherConfig() HasherConfig {
	return HasherConfig{
		Iterations:       config.DefaultIterations,
		MaxIterations:    config.DefaultMaxIterations,
		SaltLength:       config.DefaultSaltLength,
		KeyLength:        config.DefaultKeyLength,
		MaxPasswordBytes: config.DefaultMaxPasswordBytes,
	}
}

// Option customizes a hasher at construction.
type Option func(*pbkdf2Hasher)

// WithRandomSource replaces crypto/rand as the salt source. Tests use it to
// get deterministic salts; production code should not.
func WithRandomSource(r io.Reader) Option {
	return func(h *pbkdf2Hasher) {
		if r != nil {
			h.random = r
		}
	}
}

// pbkdf2Hasher implements service.PasswordHasher with PBKDF2-HMAC-SHA256.
// It holds only immutable settings and is safe for concurrent use.
type pbkdf2Hasher struct {
	config HasherConfig
	random io.Reader
}

// NewPBKDF2Hasher validates cfg and returns the hasher as a service.PasswordHasher.
func NewPBKDF2Hasher(cfg HasherConfig, opts ...Option) (service.PasswordHasher, error) {
	if cfg.MaxIterations == 0 {
		cfg.MaxIterations = max(config.DefaultMaxIterations, cfg.Iterations)
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	h := &pbkdf2Hasher{
		config: cfg,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(h)
	}

	return h, nil
}

// NewPBKDF2HasherFromConfig is the Fx provider reading the credential section.
func NewPBKDF2HasherFromConfig(cfg *config.Config) (service.PasswordHasher, error) {
	hasherConfig := DefaultHasherConfig()
	if cfg != nil && cfg.Credential != nil {
		hasherConfig = HasherConfig{
			Iterations:       cfg.Credential.Iterations,
			MaxIterations:    cfg.Credential.MaxIterations,
			SaltLength:       cfg.Credential.SaltLength,
			KeyLength:        cfg.Credential.KeyLength,
			MaxPasswordBytes: cfg.Credential.MaxPasswordBytes,
		}
	}

	return NewPBKDF2Hasher(hasherConfig)
}

// Hash derives a credential record "<iterations>:<saltHex>:<hashHex>" from password.
func (h *pbkdf2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domainerrors.ErrInvalidInput.WrapMessage("password must not be empty")
	}
	if len(password) > h.config.MaxPasswordBytes {
		return "", domainerrors.ErrInvalidInput.WrapMessage(
			fmt.Sprintf("password must be at most %d bytes", h.config.MaxPasswordBytes))
	}

	salt := make([]byte, h.config.SaltLength)
	if _, err := io.ReadFull(h.random, salt); err != nil {
		return "", errors.Wrapf(domainerrors.ErrRandomSource, "read salt: %v", err)
	}

	key := derive(password, salt, h.config.Iterations, h.config.KeyLength)

	return formatRecord(h.config.Iterations, salt, key), nil
}

// Verify parses record, re-derives with its parameters and compares in constant time.
func (h *pbkdf2Hasher) Verify(password, record string) (bool, error) {
	parsed, err := h.parse(record)
	if err != nil {
		return false, err
	}

	// A missing password is a wrong password, not a usage error.
	if password == "" || len(password) > h.config.MaxPasswordBytes {
		return false, nil
	}

	candidate := derive(password, parsed.salt, parsed.iterations, len(parsed.hash))

	return constantTimeEqual(candidate, parsed.hash), nil
}

// NeedsRehash reports whether record uses fewer iterations or shorter salt or key than configured.
func (h *pbkdf2Hasher) NeedsRehash(record string) (bool, error) {
	parsed, err := h.parse(record)
	if err != nil {
		return false, err
	}

	return parsed.iterations < h.config.Iterations ||
		len(parsed.salt) < h.config.SaltLength ||
		len(parsed.hash) < h.config.KeyLength, nil
}

// parse rejects records whose iteration count exceeds the configured ceiling.
func (h *pbkdf2Hasher) parse(record string) (*parsedRecord, error) {
	parsed, err := parseRecord(record)
	if err != nil {
		return nil, err
	}
	if parsed.iterations > h.config.MaxIterations {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage(
			fmt.Sprintf("iteration count exceeds %d", h.config.MaxIterations))
	}

	return parsed, nil
}

func derive(password string, salt []byte, iterations, keyLength int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
}

func validateConfig(cfg HasherConfig) error {
	if cfg.Iterations < minIterations {
		return domainerrors.ErrInvalidInput.WrapMessage("credential iterations must be >= 1")
	}
	if cfg.MaxIterations < cfg.Iterations {
		return domainerrors.ErrInvalidInput.WrapMessage("credential max iterations must be >= iterations")
	}
	if cfg.SaltLength < minSaltLength || cfg.SaltLength > maxSaltLength {
		return domainerrors.ErrInvalidInput.WrapMessage("credential salt length must be between 8 and 64")
	}
	if cfg.KeyLength < minKeyLength || cfg.KeyLength > maxKeyLength {
		return domainerrors.ErrInvalidInput.WrapMessage("credential key length must be between 16 and 64")
	}
	if cfg.MaxPasswordBytes < 1 {
		return domainerrors.ErrInvalidInput.WrapMessage("credential max password bytes must be >= 1")
	}

	return nil
}
