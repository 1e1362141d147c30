// Package auth handles user registration, login and session tokens. Password
// hashes go through bcrypt; session tokens are random 256-bit values kept in
// memory with a configurable TTL.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/sqlcanvas/sqlcanvas/pkg/errors"
	"github.com/sqlcanvas/sqlcanvas/server/metadata"
	"golang.org/x/crypto/bcrypt"
)

const tokenBytes = 32

// Service authenticates users against the metadata store and tracks live
// sessions.
type Service struct {
	store      *metadata.Store
	sessionTTL time.Duration

	mu       sync.Mutex
	sessions map[string]session
}

type session struct {
	userID    int64
	expiresAt time.Time
}

// NewService creates an auth service. ttl bounds how long a login stays
// valid without renewal.
func NewService(store *metadata.Store, ttl time.Duration) *Service {
	return &Service{
		store:      store,
		sessionTTL: ttl,
		sessions:   make(map[string]session),
	}
}

// Register creates a user with a bcrypt-hashed password and returns it.
func (s *Service) Register(ctx context.Context, username, email, password string) (*metadata.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New(ErrInvalidInput, "username and password are required", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New(ErrHashFailed, "failed to hash password", err)
	}
	return s.store.CreateUser(ctx, username, email, string(hash))
}

// Login verifies the password and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *metadata.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, errors.New(ErrInvalidLogin, "invalid username or password", nil)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, errors.New(ErrInvalidLogin, "invalid username or password", nil)
	}

	token, err := newToken()
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	s.sessions[token] = session{userID: user.ID, expiresAt: time.Now().Add(s.sessionTTL)}
	s.mu.Unlock()

	return token, user, nil
}

// Authenticate resolves a session token to a user id. Expired sessions are
// pruned on sight.
func (s *Service) Authenticate(token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, errors.New(ErrInvalidSession, "unknown session token", nil)
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, errors.New(ErrSessionExpired, "session expired", nil)
	}
	return sess.userID, nil
}

// Logout discards a session token. Unknown tokens are a no-op.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.New(ErrTokenFailed, "failed to generate session token", err)
	}
	return base64.URLEncoding.EncodeToString(buf), nil
}
