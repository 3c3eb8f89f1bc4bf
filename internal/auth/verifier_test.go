package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

func randomPasswords(t *testing.T, n int) []string {
	t.Helper()
	seen := make(map[string]bool, n)
	out := make([]string, 0, n)
	for len(out) < n {
		b := make([]byte, 12)
		_, err := rand.Read(b)
		require.NoError(t, err)
		pw := base64.RawURLEncoding.EncodeToString(b)
		if !seen[pw] {
			seen[pw] = true
			out = append(out, pw)
		}
	}
	return out
}

func TestVerify_BcryptRandomPasswords(t *testing.T) {
	v := NewVerifier()
	pws := randomPasswords(t, 100)

	for i, pw := range pws {
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
		require.NoError(t, err)

		assert.True(t, v.Verify(pw, string(h)), "password %d", i)
		other := pws[(i+1)%len(pws)]
		assert.False(t, v.Verify(other, string(h)), "password %d accepted a foreign password", i)
	}
}

func TestVerify_BcryptVariants(t *testing.T) {
	v := NewVerifier()
	h, err := bcrypt.GenerateFromPassword([]byte("s3cr3t"), bcrypt.MinCost)
	require.NoError(t, err)
	s := string(h) // $2a$

	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		variant := prefix + s[4:]
		assert.True(t, v.Verify("s3cr3t", variant), prefix)
		assert.False(t, v.Verify("S3cr3t", variant), prefix)
	}
}

func argon2idHash(password string, salt []byte) string {
	sum := argon2.IDKey([]byte(password), salt, 1, 64, 1, 32)
	return fmt.Sprintf("$argon2id$v=19$m=64,t=1,p=1$%s$%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum))
}

func TestVerify_Argon2ID(t *testing.T) {
	v := NewVerifier()
	h := argon2idHash("correct horse", []byte("saltsaltsaltsalt"))

	assert.True(t, v.Verify("correct horse", h))
	assert.False(t, v.Verify("correct horse ", h))
}

func TestVerify_WerkzeugPBKDF2(t *testing.T) {
	v := NewVerifier()
	sum := pbkdf2.Key([]byte("senha123"), []byte("abcDEF"), 1000, sha256.Size, sha256.New)
	h := "pbkdf2:sha256:1000$abcDEF$" + hex.EncodeToString(sum)

	assert.True(t, v.Verify("senha123", h))
	assert.False(t, v.Verify("senha124", h))
}

func TestVerify_WerkzeugScrypt(t *testing.T) {
	v := NewVerifier()
	sum, err := scrypt.Key([]byte("senha123"), []byte("xyz"), 16, 8, 1, 64)
	require.NoError(t, err)
	h := "scrypt:16:8:1$xyz$" + hex.EncodeToString(sum)

	assert.True(t, v.Verify("senha123", h))
	assert.False(t, v.Verify("senha", h))
}

func TestVerify_Plaintext(t *testing.T) {
	v := NewVerifier()

	assert.True(t, v.Verify("s3cr3ty", "s3cr3ty"))
	assert.False(t, v.Verify("s3cr3ty ", "s3cr3ty"))
	assert.False(t, v.Verify("S3CR3TY", "s3cr3ty"))
	assert.False(t, v.Verify("", "s3cr3ty"))
}

func TestVerify_EmptyStored(t *testing.T) {
	v := NewVerifier()
	assert.False(t, v.Verify("", ""))
	assert.False(t, v.Verify("anything", ""))
}

func TestVerify_MalformedHashes(t *testing.T) {
	v := NewVerifier()
	malformed := []string{
		"$2a$",
		"$2b$10$short",
		"$argon2id$",
		"$argon2id$v=19$m=64,t=1,p=1$!!!$AAAA",
		"$argon2id$v=19$m=0,t=1,p=1$c2FsdA$AAAA",
		"$argon2id$v=19$m=64,t=1,p=999$c2FsdA$AAAA",
		"pbkdf2:sha256:1000$salt$zz",
		"pbkdf2:md5:1000$salt$00ff",
		"pbkdf2:sha256:-5$salt$00ff",
		"pbkdf2:sha256",
		"scrypt:15:8:1$salt$00ff",
		"scrypt:16:8$salt$00ff",
		"scrypt:16:8:1$$00ff",
	}
	for _, h := range malformed {
		t.Run(h, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, v.Verify("password", h))
			})
		})
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cr3ty")
	require.NoError(t, err)
	assert.True(t, isBcrypt(h))
	assert.True(t, NewVerifier().Verify("s3cr3ty", h))
	assert.NotEqual(t, "s3cr3ty", h)
}
