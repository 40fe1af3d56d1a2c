package service

import (
	"context"
	"testing"
	"time"

	"github.com/goaltracker/api/internal/model"
	"github.com/goaltracker/api/internal/repository/repositorytest"
	"github.com/goaltracker/api/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-test-secret-test-secret"

func newAuthService() (*AuthService, *repositorytest.UserRepository) {
	users := repositorytest.NewUserRepository()
	return NewAuthService(users, testSecret, time.Hour), users
}

func TestSignUpAndSignIn(t *testing.T) {
	auth, _ := newAuthService()
	ctx := context.Background()

	user, token, err := auth.SignUp(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.False(t, user.ID.IsZero())
	assert.NotEqual(t, "correct horse battery", user.HashedPassword)

	userID, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), userID)

	signedIn, token, err := auth.SignIn(ctx, "alice", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)
	assert.NotEmpty(t, token)
}

func TestSignUpRejectsDuplicatesAndWeakInput(t *testing.T) {
	auth, _ := newAuthService()
	ctx := context.Background()

	_, _, err := auth.SignUp(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	_, _, err = auth.SignUp(ctx, "alice", "another long secret")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, _, err = auth.SignUp(ctx, "bob", "short")
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestSignInFailures(t *testing.T) {
	auth, _ := newAuthService()
	ctx := context.Background()
	_, _, err := auth.SignUp(ctx, "alice", "correct horse battery")
	require.NoError(t, err)

	_, _, err = auth.SignIn(ctx, "alice", "wrong horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = auth.SignIn(ctx, "nobody", "correct horse battery")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyJWTRejectsBadTokens(t *testing.T) {
	auth, _ := newAuthService()
	user := &model.User{ID: primitive.NewObjectID(), Username: "alice"}

	t.Run("other secret", func(t *testing.T) {
		other := NewAuthService(repositorytest.NewUserRepository(), "some-other-secret", time.Hour)
		token, err := other.GenerateJWT(user)
		require.NoError(t, err)

		_, err = auth.VerifyJWT(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(repositorytest.NewUserRepository(), testSecret, -time.Minute)
		token, err := expired.GenerateJWT(user)
		require.NoError(t, err)

		_, err = auth.VerifyJWT(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": user.ID.Hex()})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.VerifyJWT(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.VerifyJWT("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
