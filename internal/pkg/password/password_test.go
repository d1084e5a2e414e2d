package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hashed, err := h.Hash("Str0ngP@ssw0rd1")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ngP@ssw0rd1", hashed)

	assert.True(t, h.Verify("Str0ngP@ssw0rd1", hashed))
	assert.False(t, h.Verify("wrongpassword", hashed))
}

func TestVerify_InvalidHash(t *testing.T) {
	assert.False(t, NewHasher(bcrypt.MinCost).Verify("password123", "invalidhash"))
}

func TestNewHasher_ClampsCost(t *testing.T) {
	assert.Equal(t, DefaultCost, NewHasher(0).cost)
	assert.Equal(t, DefaultCost, NewHasher(99).cost)
}

func TestHashToken(t *testing.T) {
	a := HashToken("token")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashToken("token"))
	assert.NotEqual(t, a, HashToken("other"))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     error
	}{
		{"strong", "Str0ngP@ssw0rd1", nil},
		{"no upper", "lowercase123!", nil},
		{"no lower", "UPPERCASE123!", nil},
		{"no digit", "NoDigitsHere!!", nil},
		{"no special", "NoSpecialChar123", nil},
		{"empty", "", ErrEmpty},
		{"blank", "            ", ErrEmpty},
		{"short", "Sh0rt!", ErrTooShort},
		{"one class", "alllowercaseletters", ErrTooWeak},
		{"two classes", "lowercase1234567", ErrTooWeak},
		// 10 characters but 26 bytes
		{"multibyte short", "비밀번호비밀번호1!", ErrTooShort},
		{"multibyte weak", "비밀번호비밀번호비밀번호1!", ErrTooWeak},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Check(tt.password), tt.want)
		})
	}
}
