package jwt_test

import (
	"testing"

	"github.com/jhoicas/heliosuite-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u1", "owner@helio.test", "owner", "heliosuite", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "owner@helio.test", claims.Email)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "heliosuite", claims.Issuer)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u1", "a@b.c", "admin", "heliosuite", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("other", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u1", "a@b.c", "admin", "heliosuite", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := jwt.Generate("", "u1", "a@b.c", "admin", "x", 5)
	assert.Error(t, err)
	_, err = jwt.Parse("", "token")
	assert.Error(t, err)
}
