// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

import "context"

// PasswordHasher turns plaintext passwords into credential records and checks
// plaintext guesses against them.
//
// A credential record is the text "<iterations>:<saltHex>:<hashHex>". It embeds
// every parameter needed to verify it, so records created under older settings
// keep verifying after the defaults change.
type PasswordHasher interface {
	// Hash derives a new credential record with a fresh random salt.
	// An empty password fails with ErrInvalidInput.
	Hash(password string) (string, error)

	// Verify reports whether password matches the record. A wrong or empty
	// password is (false, nil); a record that does not parse fails with
	// ErrInvalidCredentialRecord.
	Verify(password, record string) (bool, error)

	// NeedsRehash reports whether the record was derived with weaker
	// parameters than the hasher currently uses.
	NeedsRehash(record string) (bool, error)
}

// CredentialDeriver runs PasswordHasher work on a bounded set of workers.
// Hash and Verify block until a worker is free or ctx is done.
type CredentialDeriver interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, record string) (bool, error)
	NeedsRehash(record string) (bool, error)
}
