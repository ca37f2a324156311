package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Supported hash algorithms.
const (
	AlgorithmArgon2id = "argon2id"
	AlgorithmBcrypt   = "bcrypt"
)

const argonSaltLen = 16
const argonKeyLen = 32

// ErrUnknownHashFormat is returned for stored hashes neither algorithm produced.
var ErrUnknownHashFormat = errors.New("unknown password hash format")

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, encodedHash, password string) (bool, error)
}

// HasherConfig selects the algorithm for new hashes and its cost parameters.
type HasherConfig struct {
	Algorithm     string
	ArgonTime     uint32
	ArgonMemoryKB uint32
	ArgonThreads  uint8
	BcryptCost    int
	// Concurrency caps how many hash computations run at once.
	Concurrency int
}

// Hasher runs hashing work on a bounded set of slots so CPU-heavy key
// derivation never fans out with request concurrency.
type Hasher struct {
	cfg   HasherConfig
	slots chan struct{}
}

var _ PasswordHasher = (*Hasher)(nil)

// NewHasher creates a Hasher. Zero values fall back to safe defaults.
func NewHasher(cfg HasherConfig) *Hasher {
	if cfg.Algorithm == "" {
		cfg.Algorithm = AlgorithmArgon2id
	}
	if cfg.ArgonTime == 0 {
		cfg.ArgonTime = 2
	}
	if cfg.ArgonMemoryKB == 0 {
		cfg.ArgonMemoryKB = 64 * 1024
	}
	if cfg.ArgonThreads == 0 {
		cfg.ArgonThreads = 2
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Hasher{cfg: cfg, slots: make(chan struct{}, cfg.Concurrency)}
}

// Hash derives an encoded hash using the configured algorithm.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	return run(ctx, h, func() (string, error) {
		if strings.EqualFold(h.cfg.Algorithm, AlgorithmBcrypt) {
			b, err := bcrypt.GenerateFromPassword([]byte(password), h.cfg.BcryptCost)
			if err != nil {
				return "", fmt.Errorf("bcrypt: %w", err)
			}
			return string(b), nil
		}
		return h.argonHash(password)
	})
}

// Verify checks password against an argon2id or bcrypt encoded hash.
func (h *Hasher) Verify(ctx context.Context, encodedHash, password string) (bool, error) {
	return run(ctx, h, func() (bool, error) {
		switch {
		case strings.HasPrefix(encodedHash, "$argon2id$"):
			return argonVerify(encodedHash, password)
		case strings.HasPrefix(encodedHash, "$2a$"), strings.HasPrefix(encodedHash, "$2b$"), strings.HasPrefix(encodedHash, "$2y$"):
			err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return false, nil
			}
			return err == nil, err
		default:
			return false, ErrUnknownHashFormat
		}
	})
}

type result[T any] struct {
	val T
	err error
}

func run[T any](ctx context.Context, h *Hasher, fn func() (T, error)) (T, error) {
	var zero T
	select {
	case h.slots <- struct{}{}:
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	done := make(chan result[T], 1)
	go func() {
		defer func() { <-h.slots }()
		v, err := fn()
		done <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (h *Hasher) argonHash(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.cfg.ArgonTime, h.cfg.ArgonMemoryKB, h.cfg.ArgonThreads, argonKeyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.cfg.ArgonMemoryKB, h.cfg.ArgonTime, h.cfg.ArgonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// argonVerify re-derives with the parameters stored in the hash, so changing
// configuration never invalidates existing passwords.
func argonVerify(encoded, password string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, ErrUnknownHashFormat
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrUnknownHashFormat
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrUnknownHashFormat
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrUnknownHashFormat
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, ErrUnknownHashFormat
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
