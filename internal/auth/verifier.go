package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

// PasswordVerifier сверяет введённый пароль с сохранённым значением.
type PasswordVerifier interface {
	Verify(supplied, stored string) bool
}

// Verifier определяет схему по виду сохранённого значения:
// bcrypt, argon2id (PHC), werkzeug pbkdf2/scrypt. Всё прочее — старый
// открытый пароль, сравнивается как есть.
type Verifier struct{}

func NewVerifier() *Verifier { return &Verifier{} }

// Verify никогда не паникует: битый хэш — просто false.
func (v *Verifier) Verify(supplied, stored string) bool {
	if stored == "" {
		return false
	}

	var err error
	switch {
	case isBcrypt(stored):
		err = bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	case strings.HasPrefix(stored, "$argon2id$"):
		err = verifyArgon2ID(supplied, stored)
	case strings.HasPrefix(stored, "pbkdf2:"):
		err = verifyWerkzeugPBKDF2(supplied, stored)
	case strings.HasPrefix(stored, "scrypt:"), strings.HasPrefix(stored, "scrypt$"):
		err = verifyWerkzeugScrypt(supplied, stored)
	default:
		return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
	}
	return err == nil
}

// HashPassword — bcrypt с cost по умолчанию. Для users и ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

var errMismatch = errors.New("password mismatch")

// ограничения на параметры из хэша: строка из БД не должна заставить
// сервер считать ключ минутами
const (
	maxKeyLen        = 512
	maxPBKDF2Iter    = 10_000_000
	maxArgon2Memory  = 1 << 20 // KiB
	maxArgon2Time    = 64
	maxScryptN       = 1 << 20
	defaultPBKDF2Itr = 600_000
)

func constantTimeMatch(derived, expected []byte) error {
	if subtle.ConstantTimeCompare(derived, expected) == 1 {
		return nil
	}
	return errMismatch
}

// verifyArgon2ID: $argon2id$v=19$m=65536,t=2,p=1$<salt_b64>$<hash_b64>
func verifyArgon2ID(password, encoded string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || !strings.HasPrefix(parts[2], "v=") {
		return errors.New("invalid argon2id format")
	}

	var memory, time uint32
	var threads uint8
	for _, kv := range strings.Split(parts[3], ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid argon2id param %q", kv)
		}
		n, err := strconv.ParseUint(val, 10, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("invalid argon2id param %q", kv)
		}
		switch key {
		case "m":
			memory = uint32(n)
		case "t":
			time = uint32(n)
		case "p":
			if n > 255 {
				return fmt.Errorf("invalid argon2id param %q", kv)
			}
			threads = uint8(n)
		}
	}
	if memory == 0 || time == 0 || threads == 0 || memory > maxArgon2Memory || time > maxArgon2Time {
		return errors.New("invalid argon2id params")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("invalid argon2id salt: %w", err)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("invalid argon2id hash: %w", err)
	}
	if len(expected) == 0 || len(expected) > maxKeyLen {
		return errors.New("invalid argon2id hash length")
	}

	derived := argon2.IDKey([]byte(password), salt, time, memory, threads, uint32(len(expected)))
	return constantTimeMatch(derived, expected)
}

// splitWerkzeug разбирает "method$salt$hexhash".
func splitWerkzeug(encoded string) (method, salt string, expected []byte, err error) {
	method, rest, ok := strings.Cut(encoded, "$")
	if !ok {
		return "", "", nil, errors.New("invalid werkzeug hash")
	}
	salt, hexHash, ok := strings.Cut(rest, "$")
	if !ok || salt == "" {
		return "", "", nil, errors.New("invalid werkzeug hash")
	}
	expected, err = hex.DecodeString(hexHash)
	if err != nil {
		return "", "", nil, fmt.Errorf("invalid werkzeug hash: %w", err)
	}
	if len(expected) == 0 || len(expected) > maxKeyLen {
		return "", "", nil, errors.New("invalid werkzeug hash length")
	}
	return method, salt, expected, nil
}

// verifyWerkzeugPBKDF2: pbkdf2:sha256:600000$salt$hex. Соль — строка, не base64.
func verifyWerkzeugPBKDF2(password, encoded string) error {
	method, salt, expected, err := splitWerkzeug(encoded)
	if err != nil {
		return err
	}

	args := strings.Split(strings.TrimPrefix(method, "pbkdf2:"), ":")
	var newHash func() hash.Hash
	switch args[0] {
	case "sha256":
		newHash = sha256.New
	case "sha512":
		newHash = sha512.New
	case "sha1":
		newHash = sha1.New
	default:
		return fmt.Errorf("unsupported pbkdf2 digest %q", args[0])
	}

	iter := defaultPBKDF2Itr
	if len(args) > 1 {
		iter, err = strconv.Atoi(args[1])
		if err != nil || iter <= 0 || iter > maxPBKDF2Iter {
			return fmt.Errorf("invalid pbkdf2 iterations %q", args[1])
		}
	}

	derived := pbkdf2.Key([]byte(password), []byte(salt), iter, len(expected), newHash)
	return constantTimeMatch(derived, expected)
}

// verifyWerkzeugScrypt: scrypt:32768:8:1$salt$hex.
func verifyWerkzeugScrypt(password, encoded string) error {
	method, salt, expected, err := splitWerkzeug(encoded)
	if err != nil {
		return err
	}

	n, r, p := 1<<15, 8, 1
	if params := strings.TrimPrefix(method, "scrypt"); params != "" {
		args := strings.Split(strings.TrimPrefix(params, ":"), ":")
		if len(args) != 3 {
			return fmt.Errorf("invalid scrypt params %q", params)
		}
		vals := make([]int, 3)
		for i, a := range args {
			if vals[i], err = strconv.Atoi(a); err != nil || vals[i] <= 0 {
				return fmt.Errorf("invalid scrypt params %q", params)
			}
		}
		n, r, p = vals[0], vals[1], vals[2]
	}
	if n > maxScryptN || r > 64 || p > 64 {
		return errors.New("scrypt params out of range")
	}

	derived, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, len(expected))
	if err != nil {
		return err
	}
	return constantTimeMatch(derived, expected)
}
