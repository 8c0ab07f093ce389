package service

import (
	"context"
	"strings"

	"github.com/forto/backoffice/internal/application/session"
	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/internal/domain/repository"
	"github.com/forto/backoffice/pkg/apperror"
	"github.com/forto/backoffice/pkg/utils"
	"go.uber.org/zap"
)

// AuthService handles staff login and the lifetime of session contexts
type AuthService struct {
	authGateway repository.AuthGateway
	sessions    *session.Store
	jwtManager  *utils.JWTManager
	log         *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	authGateway repository.AuthGateway,
	sessions *session.Store,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		authGateway: authGateway,
		sessions:    sessions,
		jwtManager:  jwtManager,
		log:         log,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Identity     entity.Identity
	SessionID    string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Login verifies the credentials with the backend and opens a session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, apperror.ErrInvalidCredentials
	}

	identity, err := s.authGateway.Authenticate(ctx, username, input.Password)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, apperror.ErrInvalidCredentials
	}
	if !identity.Role.IsValid() {
		s.log.Warn("login rejected for unknown role",
			zap.Int64("employee_id", identity.EmployeeID),
			zap.String("role", string(identity.Role)),
		)
		return nil, apperror.ErrForbidden
	}

	sess := s.sessions.Create(*identity)
	out, err := s.issueTokens(sess.ID(), *identity)
	if err != nil {
		s.sessions.End(sess.ID())
		return nil, err
	}

	s.log.Info("staff logged in",
		zap.Int64("employee_id", identity.EmployeeID),
		zap.String("role", string(identity.Role)),
		zap.String("session_id", sess.ID()),
	)
	return out, nil
}

// RefreshToken issues new tokens for a still-open session
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	sessionID, employeeID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}

	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, apperror.ErrSessionClosed
	}
	identity, ok := sess.Identity()
	if !ok {
		return nil, apperror.ErrSessionClosed
	}
	if identity.EmployeeID != employeeID {
		return nil, apperror.ErrInvalidToken
	}
	sess.Touch()

	return s.issueTokens(sessionID, identity)
}

// Logout clears the session context: identity, shift cache, notifications and list pipeline
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	s.sessions.End(sessionID)
	s.log.Info("staff logged out", zap.String("session_id", sessionID))
}

// Profile returns the identity of the session together with the cached shift
func (s *AuthService) Profile(ctx context.Context, sess *session.Context) (*entity.Identity, *entity.Shift, error) {
	identity, ok := sess.Identity()
	if !ok {
		return nil, nil, apperror.ErrSessionClosed
	}
	return &identity, sess.Shift(), nil
}

func (s *AuthService) issueTokens(sessionID string, identity entity.Identity) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(
		sessionID,
		identity.EmployeeID,
		identity.Name,
		string(identity.Role),
		identity.BranchID,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(sessionID, identity.EmployeeID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Identity:     identity,
		SessionID:    sessionID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessTokenExpiry().Seconds()),
	}, nil
}
