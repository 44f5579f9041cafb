package auth

import (
	"encoding/hex"
	"strconv"
	"strings"

	domainerrors "library/internal/domain/errors"
)

const (
	recordSeparator = ":"
	recordFields    = 3

	// Upper bounds on the byte lengths a record may carry. They also bound
	// the work a corrupt record can cause during verification.
	maxSaltLength = 64
	maxKeyLength  = 64
)

type parsedRecord struct {
	iterations int
	salt       []byte
	hash       []byte
}

// EncodeHex returns the lowercase hex form of b. The result is always
// 2*len(b) characters; leading zero bytes are kept.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// DecodeHex reverses EncodeHex. Odd-length or non-hex input is an error.
func DecodeHex(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

func formatRecord(iterations int, salt, hash []byte) string {
	return strconv.Itoa(iterations) + recordSeparator + EncodeHex(salt) + recordSeparator + EncodeHex(hash)
}

func parseRecord(record string) (*parsedRecord, error) {
	parts := strings.Split(record, recordSeparator)
	if len(parts) != recordFields {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("expected 3 colon-separated fields")
	}

	// PBKDF2 needs at least one iteration; 0 is rejected with the other malformed values.
	iterations, err := strconv.ParseUint(parts[0], 10, 31)
	if err != nil || iterations < minIterations {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("invalid iteration count")
	}

	if len(parts[1]) > 2*maxSaltLength {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("salt is too long")
	}
	salt, err := DecodeHex(parts[1])
	if err != nil || len(salt) == 0 {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("invalid salt encoding")
	}

	if len(parts[2]) > 2*maxKeyLength {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("hash is too long")
	}
	hash, err := DecodeHex(parts[2])
	if err != nil || len(hash) == 0 {
		return nil, domainerrors.ErrInvalidCredentialRecord.WrapMessage("invalid hash encoding")
	}

	return &parsedRecord{
		iterations: int(iterations),
		salt:       salt,
		hash:       hash,
	}, nil
}

// RecordInfo describes the parameters embedded in a credential record.
type RecordInfo struct {
	Iterations int
	SaltLength int
	KeyLength  int
}

// DescribeRecord parses record without verifying anything against it.
func DescribeRecord(record string) (RecordInfo, error) {
	parsed, err := parseRecord(record)
	if err != nil {
		return RecordInfo{}, err
	}

	return RecordInfo{
		Iterations: parsed.iterations,
		SaltLength: len(parsed.salt),
		KeyLength:  len(parsed.hash),
	}, nil
}
