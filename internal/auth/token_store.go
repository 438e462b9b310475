package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"taskflow/internal/cache"
)

// ErrRefreshTokenNotFound is returned when a refresh token is missing or expired.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

const (
	refreshTokenKeyPrefix = "refresh_token:"
	accessTokenKeyPrefix  = "blacklist:access_token:"
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore handles storage and retrieval of tokens in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte(strconv.FormatUint(uint64(userID), 10)), ttl)
}

// GetRefreshToken retrieves the owning user ID for a refresh token.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return 0, ErrRefreshTokenNotFound
	}
	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, ErrRefreshTokenNotFound
	}
	return uint(id), nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Delete(ctx, key)
}

// BlacklistAccessToken adds an access token to the blacklist until it expires.
func (s *TokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// Token already expired, nothing to blacklist.
		return nil
	}
	key := accessTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte("1"), ttl)
}

// IsAccessTokenBlacklisted checks if an access token is blacklisted.
func (s *TokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	key := accessTokenKeyPrefix + tokenID
	return s.cache.Exists(ctx, key)
}
