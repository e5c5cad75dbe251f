package utils

import (
	"MediLink/cache"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateResetCode generates a random 6-digit reset code.
func GenerateResetCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand should not fail; fall back to an all-zero code being
		// rejected rather than panicking the request.
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// SetResetCode sets the reset code for a given email in Redis with an expiration time of 15 minutes.
func SetResetCode(ctx context.Context, email, code string) error {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return err
	}
	return cacheInstance.Set(ctx, "reset_code:"+email, code, 15*time.Minute)
}

// GetResetCode retrieves the reset code for a given email from Redis.
func GetResetCode(ctx context.Context, email string) (*string, error) {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return nil, err
	}
	code, err := cacheInstance.Get(ctx, "reset_code:"+email)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, nil // Return nil if the code does not exist
	}
	return &code, nil
}

// DeleteResetCode deletes the reset code for a given email from Redis.
func DeleteResetCode(ctx context.Context, email string) error {
	cacheInstance, err := cache.NewCache()
	if err != nil {
		return err
	}
	return cacheInstance.Delete(ctx, "reset_code:"+email)
}
