// ABOUTME: Registration, login, and logout operations
// ABOUTME: Enforces pin shape, unique names, and sequential user ids

package tracker

import (
	"context"
	"fmt"

	"github.com/streakfit/streakd/internal/store"
)

// Auth is the result of a successful register or login.
type Auth struct {
	Token string
	Name  string
}

// Register creates a new user and opens a session for it. Names are unique
// with case-sensitive exact matching; pins are exactly 4 ASCII digits, stored
// as given. User ids are assigned sequentially from the current maximum and
// never reused.
func (s *Service) Register(ctx context.Context, name, pin string) (Auth, error) {
	if name == "" {
		return Auth{}, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if !validPIN(pin) {
		return Auth{}, fmt.Errorf("%w: pin must be exactly 4 digits", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return Auth{}, fmt.Errorf("loading users: %w", err)
	}

	var maxID int64
	for _, u := range users {
		if u.Name == name {
			return Auth{}, ErrConflict
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	user := store.User{ID: maxID + 1, Name: name, PIN: pin, CreatedAt: s.now()}
	if err := s.store.SaveUsers(ctx, append(users, user)); err != nil {
		return Auth{}, fmt.Errorf("saving users: %w", err)
	}

	token, err := s.sessions.Create(user.ID, user.Name)
	if err != nil {
		return Auth{}, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "name", user.Name)
	return Auth{Token: token, Name: user.Name}, nil
}

// Login opens a session for an existing user. The name and pin must both
// match exactly.
func (s *Service) Login(ctx context.Context, name, pin string) (Auth, error) {
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return Auth{}, fmt.Errorf("loading users: %w", err)
	}

	for _, u := range users {
		if u.Name == name && u.PIN == pin {
			token, err := s.sessions.Create(u.ID, u.Name)
			if err != nil {
				return Auth{}, err
			}
			s.logger.Info("user logged in", "user_id", u.ID, "name", u.Name)
			return Auth{Token: token, Name: u.Name}, nil
		}
	}

	return Auth{}, fmt.Errorf("%w: invalid name or pin", ErrUnauthorized)
}

// Logout drops the session. An unknown token is a no-op: logging out twice
// must not fail.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// validPIN reports whether pin is exactly 4 ASCII digits.
func validPIN(pin string) bool {
	if len(pin) != 4 {
		return false
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
