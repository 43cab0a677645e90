// Package security hashes and verifies user passwords.
//
// Hashes are self-describing: bcrypt digests start with "$2" and argon2
// digests with "$argon2", so VerifyPassword accepts either regardless of
// which algorithm is currently configured for new hashes.
package security

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every new bcrypt hash.
const BcryptCost = 10

const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmArgon2 = "argon2"
)

var ErrUnknownHashFormat = errors.New("unknown password hash format")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) (bool, error)
}

// NewPasswordHasher returns the hasher for the named algorithm.
func NewPasswordHasher(algorithm string) (PasswordHasher, error) {
	switch algorithm {
	case AlgorithmBcrypt, "":
		return NewBcryptHasher(BcryptCost), nil
	case AlgorithmArgon2:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unsupported password hasher %q", algorithm)
	}
}

// HashPassword hashes password with bcrypt at BcryptCost.
func HashPassword(password string) (string, error) {
	return NewBcryptHasher(BcryptCost).HashPassword(password)
}

// VerifyPassword reports whether password matches the encoded hash. A
// mismatch is not an error; a hash that cannot be decoded is.
func VerifyPassword(password, encoded string) (bool, error) {
	switch {
	case strings.HasPrefix(encoded, "$argon2"):
		return argon2.VerifyEncoded([]byte(password), []byte(encoded))
	case strings.HasPrefix(encoded, "$2"):
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, err
		}

		return true, nil
	default:
		return false, ErrUnknownHashFormat
	}
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt hasher with the given cost.
func NewBcryptHasher(cost int) PasswordHasher {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

func (h *bcryptHasher) VerifyPassword(password, hash string) (bool, error) {
	return VerifyPassword(password, hash)
}

type argon2Hasher struct {
	config argon2.Config
}

// NewArgon2Hasher returns an argon2id hasher with the library defaults.
func NewArgon2Hasher() PasswordHasher {
	return &argon2Hasher{config: argon2.DefaultConfig()}
}

func (h *argon2Hasher) HashPassword(password string) (string, error) {
	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(encoded), nil
}

func (h *argon2Hasher) VerifyPassword(password, hash string) (bool, error) {
	return VerifyPassword(password, hash)
}
