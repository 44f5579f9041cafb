package auth

import (
	"bytes"
	"crypto/sha256"
	"strconv"
	"strings"
	"sync"
	"testing"

	"library/config"
	domainerrors "library/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

func newTestHasher(t *testing.T, opts ...Option) *pbkdf2Hasher {
	t.Helper()

	hasher, err := NewPBKDF2Hasher(DefaultHasherConfig(), opts...)
	require.NoError(t, err)

	return hasher.(*pbkdf2Hasher)
}

// sequenceReader yields 0x00, 0x01, 0x02, ... so salts are predictable.
type sequenceReader struct {
	next byte
}

func (r *sequenceReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}

	return len(p), nil
}

func TestPBKDF2Hasher_HashFormat(t *testing.T) {
	hasher := newTestHasher(t)

	record, err := hasher.Hash("secret")
	require.NoError(t, err)

	parts := strings.Split(record, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "1000", parts[0])
	assert.Len(t, parts[1], 2*config.DefaultSaltLength)
	assert.Len(t, parts[2], 2*config.DefaultKeyLength)
	assert.Equal(t, strings.ToLower(record), record)
}

func TestPBKDF2Hasher_HashMatchesReferenceDerivation(t *testing.T) {
	hasher := newTestHasher(t, WithRandomSource(&sequenceReader{}))

	record, err := hasher.Hash("secret")
	require.NoError(t, err)

	salt := make([]byte, config.DefaultSaltLength)
	_, _ = (&sequenceReader{}).Read(salt)
	want := pbkdf2.Key([]byte("secret"), salt, 1000, 24, sha256.New)

	assert.Equal(t, "1000:"+EncodeHex(salt)+":"+EncodeHex(want), record)
	assert.True(t, strings.HasPrefix(record, "1000:000102030405"))
}

func TestPBKDF2Hasher_HashIsSalted(t *testing.T) {
	hasher := newTestHasher(t)

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, record := range []string{first, second} {
		ok, err := hasher.Verify("secret", record)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestPBKDF2Hasher_VerifyWrongPassword(t *testing.T) {
	hasher := newTestHasher(t)

	record, err := hasher.Hash("secret")
	require.NoError(t, err)

	ok, err := hasher.Verify("wrong", record)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPBKDF2Hasher_HashEmptyPassword(t *testing.T) {
	hasher := newTestHasher(t)

	record, err := hasher.Hash("")
	require.Error(t, err)
	assert.Empty(t, record)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
}

func TestPBKDF2Hasher_HashTooLongPassword(t *testing.T) {
	cfg := DefaultHasherConfig()
	cfg.MaxPasswordBytes = 64
	hasher, err := NewPBKDF2Hasher(cfg)
	require.NoError(t, err)

	_, err = hasher.Hash(strings.Repeat("a", 65))
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))

	record, err := hasher.Hash(strings.Repeat("b", 64))
	require.NoError(t, err)

	ok, err := hasher.Verify(strings.Repeat("b", 65), record)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPBKDF2Hasher_VerifyEmptyPassword(t *testing.T) {
	hasher := newTestHasher(t)

	record, err := hasher.Hash("secret")
	require.NoError(t, err)

	ok, err := hasher.Verify("", record)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPBKDF2Hasher_VerifyMalformedRecord(t *testing.T) {
	hasher := newTestHasher(t)

	valid, err := hasher.Hash("secret")
	require.NoError(t, err)
	parts := strings.Split(valid, ":")

	malformed := map[string]string{
		"not a record":         "not-a-valid-record",
		"empty":                "",
		"two fields":           parts[0] + ":" + parts[1],
		"four fields":          valid + ":00",
		"negative iterations":  "-1:" + parts[1] + ":" + parts[2],
		"zero iterations":      "0:" + parts[1] + ":" + parts[2],
		"text iterations":      "many:" + parts[1] + ":" + parts[2],
		"iterations overflow":  "99999999999999999999:" + parts[1] + ":" + parts[2],
		"odd salt":             parts[0] + ":abc:" + parts[2],
		"non-hex salt":         parts[0] + ":zz:" + parts[2],
		"empty salt":           parts[0] + "::" + parts[2],
		"non-hex hash":         parts[0] + ":" + parts[1] + ":xyz0",
		"empty hash":           parts[0] + ":" + parts[1] + ":",
		"whitespace iteration": " 1000:" + parts[1] + ":" + parts[2],
		"max int31 iterations": "2147483647:" + parts[1] + ":" + parts[2],
		"iterations too high":  "1000001:" + parts[1] + ":" + parts[2],
		"oversized salt":       parts[0] + ":" + strings.Repeat("00", 65) + ":" + parts[2],
		"oversized hash":       parts[0] + ":" + parts[1] + ":" + strings.Repeat("00", 65),
		"huge hash":            parts[0] + ":" + parts[1] + ":" + strings.Repeat("00", 4<<20),
	}

	for name, record := range malformed {
		t.Run(name, func(t *testing.T) {
			ok, err := hasher.Verify("secret", record)
			require.Error(t, err)
			assert.False(t, ok)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentialRecord))
			assert.False(t, errors.Is(err, domainerrors.ErrInvalidInput))
		})
	}
}

func TestPBKDF2Hasher_VerifyMalformedRecordWithEmptyPassword(t *testing.T) {
	hasher := newTestHasher(t)

	_, err := hasher.Verify("", "garbage")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentialRecord))
}

func TestPBKDF2Hasher_VerifyUsesRecordParameters(t *testing.T) {
	legacyConfig := HasherConfig{Iterations: 10, SaltLength: 8, KeyLength: 16, MaxPasswordBytes: 1024}
	legacy, err := NewPBKDF2Hasher(legacyConfig)
	require.NoError(t, err)

	record, err := legacy.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record, "10:"))

	current := newTestHasher(t)
	ok, err := current.Verify("secret", record)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPBKDF2Hasher_MaxIterations(t *testing.T) {
	cfg := DefaultHasherConfig()
	cfg.MaxIterations = 5000
	hasher, err := NewPBKDF2Hasher(cfg)
	require.NoError(t, err)

	salt := strings.Repeat("00", 24)
	key := strings.Repeat("00", 24)

	_, err = hasher.Verify("secret", "5000:"+salt+":"+key)
	require.NoError(t, err)

	ok, err := hasher.Verify("secret", "5001:"+salt+":"+key)
	assert.False(t, ok)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentialRecord))

	_, err = hasher.NeedsRehash("5001:" + salt + ":" + key)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentialRecord))
}

func TestNewPBKDF2Hasher_MaxIterationsDefault(t *testing.T) {
	cfg := DefaultHasherConfig()
	cfg.Iterations = 2_000_000
	cfg.MaxIterations = 0
	hasher, err := NewPBKDF2Hasher(cfg)
	require.NoError(t, err)

	assert.Equal(t, 2_000_000, hasher.(*pbkdf2Hasher).config.MaxIterations)

	cfg = DefaultHasherConfig()
	cfg.MaxIterations = 0
	hasher, err = NewPBKDF2Hasher(cfg)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMaxIterations, hasher.(*pbkdf2Hasher).config.MaxIterations)
}

func TestPBKDF2Hasher_VerifyUppercaseHex(t *testing.T) {
	hasher := newTestHasher(t)

	record, err := hasher.Hash("secret")
	require.NoError(t, err)

	ok, err := hasher.Verify("secret", strings.ToUpper(record))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPBKDF2Hasher_NeedsRehash(t *testing.T) {
	legacy, err := NewPBKDF2Hasher(HasherConfig{Iterations: 500, SaltLength: 24, KeyLength: 24, MaxPasswordBytes: 1024})
	require.NoError(t, err)
	current := newTestHasher(t)

	legacyRecord, err := legacy.Hash("secret")
	require.NoError(t, err)
	currentRecord, err := current.Hash("secret")
	require.NoError(t, err)

	needs, err := current.NeedsRehash(legacyRecord)
	require.NoError(t, err)
	assert.True(t, needs)

	needs, err = current.NeedsRehash(currentRecord)
	require.NoError(t, err)
	assert.False(t, needs)

	_, err = current.NeedsRehash("1000:zz")
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentialRecord))
}

func TestPBKDF2Hasher_RandomSourceFailure(t *testing.T) {
	hasher := newTestHasher(t, WithRandomSource(bytes.NewReader([]byte{1, 2, 3})))

	record, err := hasher.Hash("secret")
	require.Error(t, err)
	assert.Empty(t, record)
	assert.True(t, errors.Is(err, domainerrors.ErrRandomSource))
}

func TestPBKDF2Hasher_NilRandomSourceKeepsDefault(t *testing.T) {
	hasher := newTestHasher(t, WithRandomSource(nil))

	_, err := hasher.Hash("secret")
	assert.NoError(t, err)
}

func TestNewPBKDF2Hasher_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HasherConfig)
	}{
		{name: "zero iterations", mutate: func(c *HasherConfig) { c.Iterations = 0 }},
		{name: "short salt", mutate: func(c *HasherConfig) { c.SaltLength = 4 }},
		{name: "short key", mutate: func(c *HasherConfig) { c.KeyLength = 8 }},
		{name: "long salt", mutate: func(c *HasherConfig) { c.SaltLength = 65 }},
		{name: "long key", mutate: func(c *HasherConfig) { c.KeyLength = 65 }},
		{name: "ceiling below iterations", mutate: func(c *HasherConfig) { c.MaxIterations = 999 }},
		{name: "no password budget", mutate: func(c *HasherConfig) { c.MaxPasswordBytes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultHasherConfig()
			tt.mutate(&cfg)

			_, err := NewPBKDF2Hasher(cfg)
			assert.True(t, errors.Is(err, domainerrors.ErrInvalidInput))
		})
	}
}

func TestNewPBKDF2HasherFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()
	cfg.Credential.Iterations = 2000

	hasher, err := NewPBKDF2HasherFromConfig(cfg)
	require.NoError(t, err)

	record, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record, strconv.Itoa(2000)+":"))

	hasher, err = NewPBKDF2HasherFromConfig(nil)
	require.NoError(t, err)
	record, err = hasher.Hash("secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(record, "1000:"))
}

func TestPBKDF2Hasher_ConcurrentUse(t *testing.T) {
	hasher := newTestHasher(t)

	var wg sync.WaitGroup
	failures := make(chan string, 16)
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			password := "password-" + strconv.Itoa(i)
			record, err := hasher.Hash(password)
			if err != nil {
				failures <- err.Error()

				return
			}
			if ok, err := hasher.Verify(password, record); err != nil || !ok {
				failures <- password
			}
		}()
	}
	wg.Wait()
	close(failures)

	for failure := range failures {
		t.Errorf("concurrent hash/verify failed: %s", failure)
	}
}
