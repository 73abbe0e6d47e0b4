package auth

import (
	"testing"

	"shulepro/app/config"
	"shulepro/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	assert.True(t, CheckPasswordHash("correct-horse-battery", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
	assert.False(t, CheckPasswordHash("correct-horse-battery", "not-a-hash"))
}

func TestJWTRoundtrip(t *testing.T) {
	config.Load()

	token, err := GenerateJWT("user-1", "jane@school.ac.ke", "Jane", "Mwangi", []string{models.RoleAdmin, models.RoleTeacher})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@school.ac.ke", claims.Email)
	assert.Equal(t, "Jane", claims.FirstName)
	assert.Equal(t, "Mwangi", claims.LastName)
	assert.Equal(t, []string{models.RoleAdmin, models.RoleTeacher}, claims.Roles)
	assert.Equal(t, "shulepro", claims.Issuer)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	config.Load()

	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)

	_, err = ValidateJWT("")
	assert.Error(t, err)
}
