package service

import (
	"context"
	"testing"
	"time"

	"github.com/forto/backoffice/internal/domain/enum"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(env *testEnv) *AuthService {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(env.backend, env.sessions, jwtManager, zap.NewNop())
}

func TestLoginOpensSession(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	out, err := svc.Login(context.Background(), &LoginInput{Username: " cashier ", Password: "cashier"})
	require.NoError(t, err)
	assert.Equal(t, enum.RoleCashier, out.Identity.Role)
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	assert.Equal(t, int64(3600), out.ExpiresIn)

	sess, ok := env.sessions.Get(out.SessionID)
	require.True(t, ok)
	identity, _ := sess.Identity()
	assert.Equal(t, int64(cashierID), identity.EmployeeID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	_, err := svc.Login(context.Background(), &LoginInput{Username: "cashier", Password: "nope"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &LoginInput{Username: "", Password: "x"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	assert.Zero(t, env.sessions.Len())
}

func TestRefreshAfterLogoutFails(t *testing.T) {
	env := newTestEnv(t)
	svc := newAuthService(env)

	out, err := svc.Login(context.Background(), &LoginInput{Username: "admin", Password: "admin"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), out.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, out.SessionID, refreshed.SessionID)

	svc.Logout(context.Background(), out.SessionID)

	_, err = svc.RefreshToken(context.Background(), out.RefreshToken)
	assert.ErrorIs(t, err, apperror.ErrSessionClosed)

	_, err = svc.RefreshToken(context.Background(), "garbage")
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}
