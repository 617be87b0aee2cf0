package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "&lt;script&gt;", SanitizeString("  <script>  "))
	assert.Equal(t, "Dupont &amp; Fils", SanitizeString("Dupont & Fils"))
}

func TestSanitizePhone(t *testing.T) {
	assert.Equal(t, "+33 (0)6 12-34", SanitizePhone(" +33 (0)6 12-34 "))
	assert.Equal(t, "0612345678", SanitizePhone("06abc12345678"))
}

func TestSanitizeEmail(t *testing.T) {
	assert.Equal(t, "agent@example.com", SanitizeEmail("  Agent@Example.COM "))
}

func TestValidateStruct_CustomTags(t *testing.T) {
	type statusPayload struct {
		Status string `validate:"required,expedition_status"`
	}
	assert.NoError(t, ValidateStruct(&statusPayload{Status: "in_transit"}))
	assert.Error(t, ValidateStruct(&statusPayload{Status: "lost_in_space"}))

	type methodPayload struct {
		Method string `validate:"required,payment_method"`
	}
	assert.NoError(t, ValidateStruct(&methodPayload{Method: "bank_transfer"}))
	assert.Error(t, ValidateStruct(&methodPayload{Method: "barter"}))
}

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateToken(userID, "agent", "test-secret", 1)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "agent", claims.Role)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "admin", "test-secret", 1)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "test-secret")
	assert.Error(t, err)
}
