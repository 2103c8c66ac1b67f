package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"golang.org/x/crypto/argon2"
)

// Password schemes selectable in the server config.
const (
	SchemeArgon2id = "argon2id"
	SchemeSHA256   = "sha256"
)

var ErrInvalidHash = errors.New("invalid hash format")

// PasswordHasher turns passwords into stored digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
	// Deterministic hashers always produce the same digest for a password,
	// so the store can compare digests directly.
	Deterministic() bool
}

// NewPasswordHasher returns the hasher for scheme.
func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case SchemeArgon2id, "":
		return NewArgon2Hasher(), nil
	case SchemeSHA256:
		return SHA256Hasher{}, nil
	}
	return nil, fmt.Errorf("unknown password scheme %q", scheme)
}

// SHA256Hasher is the legacy scheme: hex SHA-256 of the password with no
// salt. Kept so databases created by older servers keep working.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h SHA256Hasher) Verify(password, encoded string) (bool, error) {
	got, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(got), []byte(encoded)) == 1, nil
}

func (SHA256Hasher) Deterministic() bool { return true }

// Argon2Hasher produces salted argon2id digests in the
// $argon2id$v=19$m=..,t=..,p=..$salt$hash format.
type Argon2Hasher struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  int
	KeyLength   uint32
}

// NewArgon2Hasher uses the OWASP baseline parameters.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(h.SaltLength)
	key := argon2.IDKey([]byte(password), salt, h.Iterations, h.Memory, h.Parallelism, h.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Iterations, h.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// Verify re-derives the key with the parameters stored in encoded, so
// digests made with older parameters still verify.
func (h *Argon2Hasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrInvalidHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func (h *Argon2Hasher) Deterministic() bool { return false }
