package application

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a raw password into a storable one-way hash and checks
// candidates against it.
type Hasher interface {
	Hash(password string) (string, error)
	Matches(hash, password string) bool
}

// SHA256Hasher stores the unsalted hex SHA-256 digest of the password. It is
// the default and matches credential files written by earlier releases.
type SHA256Hasher struct{}

// Hash returns the lowercase hex SHA-256 digest of password.
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Matches compares digests in constant time.
func (h SHA256Hasher) Matches(hash, password string) bool {
	candidate, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(hash)), []byte(candidate)) == 1
}

// BcryptHasher stores salted bcrypt hashes. Use it when the catalog is
// reachable from outside a trusted network.
type BcryptHasher struct {
	Cost int
}

// Hash returns a bcrypt hash of password. A zero Cost uses bcrypt.DefaultCost.
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

// Matches reports whether password produces hash.
func (BcryptHasher) Matches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewHasher returns the hasher registered under name ("sha256" or "bcrypt").
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	}
	return nil, fmt.Errorf("unknown password hasher %q", name)
}

// hasherFor picks the hasher able to verify a stored hash, so switching the
// configured hasher never invalidates the current credential.
func hasherFor(hash string) Hasher {
	if isBcrypt(hash) {
		return BcryptHasher{}
	}
	return SHA256Hasher{}
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}

// wellFormedHash reports whether hash is something one of the hashers could
// have written: a hex SHA-256 digest or a parseable bcrypt hash.
func wellFormedHash(hash string) bool {
	if isBcrypt(hash) {
		_, err := bcrypt.Cost([]byte(hash))
		return err == nil
	}
	if len(hash) != hex.EncodedLen(sha256.Size) {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
