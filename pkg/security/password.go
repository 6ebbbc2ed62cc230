package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"golang.org/x/crypto/scrypt"
)

// hashSeparator joins the hex key and hex salt; it can never occur in hex.
const hashSeparator = "."

// costSeparator ends the optional "n=..,r=..,p=.." prefix written when the
// configured cost differs from DefaultParams. Unprefixed hashes were derived
// with DefaultParams.
const costSeparator = "$"

// ErrInvalidHash signals a malformed stored password.
var ErrInvalidHash = fmt.Errorf("invalid scrypt hash")

// ScryptParams captures the cost parameters used to derive keys.
type ScryptParams struct {
	N       int
	R       int
	P       int
	SaltLen int
	KeyLen  int
}

// DefaultParams mirrors the configuration defaults.
var DefaultParams = ScryptParams{N: 16384, R: 8, P: 1, SaltLen: 16, KeyLen: 64}

// HashPassword returns hex(key) + "." + hex(salt) for the provided password,
// prefixed with the cost when it is not DefaultParams.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	params := paramsFromConfig(cfg)
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), []byte(hex.EncodeToString(salt)), params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	encoded := hex.EncodeToString(key) + hashSeparator + hex.EncodeToString(salt)
	if !params.sameCost(DefaultParams) {
		encoded = params.costPrefix() + costSeparator + encoded
	}
	return encoded, nil
}

// VerifyPassword reports whether password matches the stored hash. The cost
// is read from the hash, so changing the configured cost never invalidates
// stored passwords. Malformed hashes never match.
func VerifyPassword(password, stored string) bool {
	params, key, salt, err := decodeHash(stored)
	if err != nil {
		return false
	}

	computed, err := scrypt.Key([]byte(password), []byte(hex.EncodeToString(salt)), params.N, params.R, params.P, len(key))
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, computed) == 1
}

func decodeHash(stored string) (ScryptParams, []byte, []byte, error) {
	params := DefaultParams
	if cost, rest, ok := strings.Cut(stored, costSeparator); ok {
		parsed, err := parseCost(cost)
		if err != nil {
			return params, nil, nil, err
		}
		params, stored = parsed, rest
	}
	keyHex, saltHex, ok := strings.Cut(stored, hashSeparator)
	if !ok || keyHex == "" || saltHex == "" {
		return params, nil, nil, ErrInvalidHash
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil || len(key) < 16 {
		return params, nil, nil, ErrInvalidHash
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return params, nil, nil, ErrInvalidHash
	}
	return params, key, salt, nil
}

func (p ScryptParams) sameCost(other ScryptParams) bool {
	return p.N == other.N && p.R == other.R && p.P == other.P
}

func (p ScryptParams) costPrefix() string {
	return fmt.Sprintf("n=%d,r=%d,p=%d", p.N, p.R, p.P)
}

func parseCost(cost string) (ScryptParams, error) {
	params := DefaultParams
	if _, err := fmt.Sscanf(cost, "n=%d,r=%d,p=%d", &params.N, &params.R, &params.P); err != nil {
		return params, fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
	if params.N <= 1 || params.N&(params.N-1) != 0 || params.R <= 0 || params.P <= 0 || params.costPrefix() != cost {
		return params, ErrInvalidHash
	}
	return params, nil
}

func paramsFromConfig(cfg config.PasswordConfig) ScryptParams {
	params := DefaultParams
	if cfg.ScryptN > 1 && cfg.ScryptN&(cfg.ScryptN-1) == 0 {
		params.N = cfg.ScryptN
	}
	if cfg.ScryptR > 0 {
		params.R = cfg.ScryptR
	}
	if cfg.ScryptP > 0 {
		params.P = cfg.ScryptP
	}
	params.SaltLen = clampInt(cfg.SaltLen, 16, 64)
	params.KeyLen = clampInt(cfg.KeyLen, 32, 128)
	return params
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
