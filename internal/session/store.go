// Package session implements the session gate: an opaque, server-held
// mapping from a session token to a logged-in user ID. Absence of the
// server-side entry means the caller is anonymous, so logging out (or a
// process restart when running without Redis) genuinely invalidates the
// token even though the token itself is a signed JWT.
package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"warbler/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "session:%s"
	issuer    = "warbler-api"
	audience  = "warbler-client"
)

// Store issues, resolves, and revokes session tokens. Session state lives
// in Redis when a client is configured and in an in-process map otherwise.
type Store struct {
	secret []byte
	ttl    time.Duration
	redis  *redis.Client

	mu    sync.RWMutex
	local map[string]localEntry
}

type localEntry struct {
	userID    uint
	expiresAt time.Time
}

// NewStore creates a session store. rdb may be nil; the store then keeps
// sessions in memory, which is sufficient for single-process deployments
// and tests (no cross-restart persistence is required).
func NewStore(secret string, ttl time.Duration, rdb *redis.Client) *Store {
	return &Store{
		secret: []byte(secret),
		ttl:    ttl,
		redis:  rdb,
		local:  make(map[string]localEntry),
	}
}

// Login establishes a session for the given user and returns its token.
func (s *Store) Login(ctx context.Context, userID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("session secret not configured")
	}

	jti := uuid.New().String()
	if err := s.put(ctx, jti, userID); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": issuer,
		"aud": audience,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		// Roll back the server-side entry; a session that cannot be
		// handed to the client must not linger.
		_ = s.delete(ctx, jti)
		return "", err
	}

	middleware.SessionOps.WithLabelValues("login").Inc()
	return signed, nil
}

// Resolve maps a token to the logged-in user ID. The second return value
// is false for anything other than a live session: missing, malformed,
// tampered, expired, or logged out. Resolution never returns an error;
// an unresolvable token simply means anonymous.
func (s *Store) Resolve(ctx context.Context, tokenString string) (uint, bool) {
	middleware.SessionOps.WithLabelValues("resolve").Inc()

	userID, jti, ok := s.parse(tokenString)
	if !ok {
		return 0, false
	}

	stored, ok := s.get(ctx, jti)
	if !ok || stored != userID {
		return 0, false
	}
	return userID, true
}

// Logout invalidates the session behind the token. Unknown or already
// invalid tokens are a no-op.
func (s *Store) Logout(ctx context.Context, tokenString string) error {
	_, jti, ok := s.parse(tokenString)
	if !ok {
		return nil
	}
	middleware.SessionOps.WithLabelValues("logout").Inc()
	return s.delete(ctx, jti)
}

// parse verifies the token signature and shape and extracts (userID, jti).
func (s *Store) parse(tokenString string) (uint, string, bool) {
	if tokenString == "" {
		return 0, "", false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithAudience(audience))
	if err != nil || !token.Valid {
		return 0, "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", false
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, "", false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, "", false
	}

	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return 0, "", false
	}

	return uint(userID), jti, true
}

func (s *Store) put(ctx context.Context, jti string, userID uint) error {
	if s.redis != nil {
		key := fmt.Sprintf(keyPrefix, jti)
		return s.redis.Set(ctx, key, strconv.FormatUint(uint64(userID), 10), s.ttl).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.local[jti] = localEntry{userID: userID, expiresAt: time.Now().Add(s.ttl)}
	return nil
}

func (s *Store) get(ctx context.Context, jti string) (uint, bool) {
	if s.redis != nil {
		key := fmt.Sprintf(keyPrefix, jti)
		val, err := s.redis.Get(ctx, key).Result()
		if err != nil {
			return 0, false
		}
		userID, err := strconv.ParseUint(val, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(userID), true
	}

	s.mu.RLock()
	entry, ok := s.local[jti]
	s.mu.RUnlock()
	if !ok {
		return 0, false
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.local, jti)
		s.mu.Unlock()
		return 0, false
	}
	return entry.userID, true
}

func (s *Store) delete(ctx context.Context, jti string) error {
	if s.redis != nil {
		key := fmt.Sprintf(keyPrefix, jti)
		return s.redis.Del(ctx, key).Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.local, jti)
	return nil
}
