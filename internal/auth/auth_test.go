package auth

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/pdfchat/internal/data/store"
	"github.com/akolanti/pdfchat/internal/domain/commonModels"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.InitUserStore(), "secret", time.Hour)

	require.NoError(t, svc.Register(ctx, "alice", "pw"))

	err := svc.Register(ctx, "alice", "other")
	assert.Equal(t, commonModels.KindConflict, commonModels.KindOf(err))
	assert.Equal(t, "Username already registered", commonModels.Message(err))

	token, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	user, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, commonModels.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, commonModels.ErrInvalidCredentials)
}

func TestRegister_RequiresFields(t *testing.T) {
	svc := NewService(store.InitUserStore(), "secret", time.Hour)
	err := svc.Register(context.Background(), " ", "pw")
	assert.Equal(t, commonModels.KindValidation, commonModels.KindOf(err))
}

func TestParseToken_Rejects(t *testing.T) {
	svc := NewService(store.InitUserStore(), "secret", time.Minute)

	token, err := svc.IssueToken("alice")
	require.NoError(t, err)

	other := NewService(store.InitUserStore(), "other-secret", time.Minute)
	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, commonModels.ErrTokenInvalid)

	// expired
	svc.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ParseToken(token)
	assert.ErrorIs(t, err, commonModels.ErrTokenInvalid)

	_, err = svc.ParseToken("not-a-token")
	assert.ErrorIs(t, err, commonModels.ErrTokenInvalid)

	// alg none is never accepted
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewService(store.InitUserStore(), "secret", time.Minute).ParseToken(unsigned)
	assert.ErrorIs(t, err, commonModels.ErrTokenInvalid)
}
