package client

import (
	"strings"
	"sync"

	gojson "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"restora/entity"
)

const (
	currentUserKey  = "RestoraCurrentUser"
	credentialsKey  = "restora_credentials"
	adminDurableKey = "isAdmin"
	adminSessionKey = "isAdmin"
)

// Session holds who is using this client. The admin flag deliberately
// lives in two scopes — the durable cache and a per-process map (the
// sessionStorage analog) — and either one being "true" grants the
// elevated UI. All reads go through IsAdmin so the duplication stays in
// one place.
type Session struct {
	cache Cache
	log   zerolog.Logger

	mu     sync.Mutex
	scoped map[string]string // per-session values, lost on restart
}

func NewSession(cache Cache, log zerolog.Logger) *Session {
	return &Session{cache: cache, log: log, scoped: make(map[string]string)}
}

// CurrentUser returns the signed-in user, nil when signed out or when the
// stored record is corrupt.
func (s *Session) CurrentUser() *entity.User {
	raw, ok := s.cache.Get(currentUserKey)
	if !ok {
		return nil
	}
	var user entity.User
	if err := gojson.Unmarshal(raw, &user); err != nil {
		s.log.Warn().Err(err).Msg("corrupt current user record, treating as signed out")
		return nil
	}
	return &user
}

// SetCurrentUser stores the signed-in user; nil signs out.
func (s *Session) SetCurrentUser(user *entity.User) {
	if user == nil {
		s.cache.Delete(currentUserKey)
		return
	}
	raw, err := gojson.Marshal(user)
	if err != nil {
		s.log.Error().Err(err).Msg("encode current user failed")
		return
	}
	s.cache.Set(currentUserKey, raw)
}

// GrantAdmin sets both admin scopes.
func (s *Session) GrantAdmin() {
	s.cache.Set(adminDurableKey, []byte("true"))
	s.mu.Lock()
	s.scoped[adminSessionKey] = "true"
	s.mu.Unlock()
}

// RevokeAdmin clears both scopes.
func (s *Session) RevokeAdmin() {
	s.cache.Set(adminDurableKey, []byte("false"))
	s.mu.Lock()
	delete(s.scoped, adminSessionKey)
	s.mu.Unlock()
}

// IsAdmin is the single authorization predicate: any scope saying "true"
// wins.
func (s *Session) IsAdmin() bool {
	if raw, ok := s.cache.Get(adminDurableKey); ok && string(raw) == "true" {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoped[adminSessionKey] == "true"
}

// RememberCredentials stores credentials this device has signed in with,
// keyed by lowercased email, so sign-in keeps working when the server is
// unreachable. Passwords are plaintext throughout the data model.
func (s *Session) RememberCredentials(email, password string) {
	creds := s.credentials()
	creds[strings.ToLower(email)] = password
	raw, err := gojson.Marshal(creds)
	if err != nil {
		s.log.Error().Err(err).Msg("encode credentials failed")
		return
	}
	s.cache.Set(credentialsKey, raw)
}

// CheckCredentials reports whether the given credentials match a
// remembered pair.
func (s *Session) CheckCredentials(email, password string) bool {
	stored, ok := s.credentials()[strings.ToLower(email)]
	return ok && password != "" && stored == password
}

func (s *Session) credentials() map[string]string {
	raw, ok := s.cache.Get(credentialsKey)
	if !ok {
		return map[string]string{}
	}
	var creds map[string]string
	if err := gojson.Unmarshal(raw, &creds); err != nil || creds == nil {
		s.log.Warn().Msg("corrupt credential store, treating as empty")
		return map[string]string{}
	}
	return creds
}

// Token returns the session's bearer token, empty when not logged in via
// the server.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoped["token"]
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token == "" {
		delete(s.scoped, "token")
		return
	}
	s.scoped["token"] = token
}
