package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	key := DeriveKey("a perfectly ordinary secret")

	ciphertext, err := Encrypt([]byte("sk-abc123def456"), key)
	require.NoError(t, err)
	assert.NotEqual(t, "sk-abc123def456", ciphertext)

	plaintext, err := Decrypt(ciphertext, key)
	require.NoError(t, err)
	assert.Equal(t, "sk-abc123def456", plaintext)
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	key := DeriveKey("secret")

	first, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)
	second, err := Encrypt([]byte("same input"), key)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptWrongKey(t *testing.T) {
	ciphertext, err := Encrypt([]byte("payload"), DeriveKey("key one"))
	require.NoError(t, err)

	_, err = Decrypt(ciphertext, DeriveKey("key two"))
	assert.Error(t, err)
}

func TestDecryptGarbage(t *testing.T) {
	key := DeriveKey("secret")

	_, err := Decrypt("not base64 at all!!!", key)
	assert.Error(t, err)

	_, err = Decrypt("c2hvcnQ=", key) // valid base64, too short for a nonce
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	exact := "0123456789abcdef0123456789abcdef"
	assert.Equal(t, []byte(exact), DeriveKey(exact))

	short := DeriveKey("short")
	assert.Len(t, short, 32)
	assert.Equal(t, short, DeriveKey("short"))
	assert.NotEqual(t, short, DeriveKey("other"))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********", MaskKey("", 4))
	assert.Equal(t, "********", MaskKey("abc", 4))
	assert.Equal(t, "*****2345", MaskKey("sk-012345", 4))

	masked := MaskKey("sk-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaa1234", 4)
	assert.Equal(t, "************1234", masked)
}
