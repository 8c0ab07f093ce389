package memory

import (
	"context"

	"github.com/forto/backoffice/internal/domain/entity"
	"github.com/forto/backoffice/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

func (s *Store) Authenticate(_ context.Context, username, password string) (*entity.Identity, error) {
	s.mu.RLock()
	acc, ok := s.accounts[username]
	s.mu.RUnlock()
	if !ok {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	identity := acc.identity
	return &identity, nil
}

func (s *Store) GetEmployee(_ context.Context, employeeID int64) (*entity.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.identity.EmployeeID == employeeID {
			identity := acc.identity
			return &identity, nil
		}
	}
	return nil, apperror.NewNotFoundError("Employee")
}
