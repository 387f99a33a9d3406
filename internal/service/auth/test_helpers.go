package auth

import "time"

// NewTestJWTService creates a JWT service with an injectable time function
// for predictable expiry behavior in tests. The refresh lifetime is fixed at
// three times the access lifetime.
func NewTestJWTService(secret string, tokenLifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        tokenLifetime,
		refreshTokenLifetime: 3 * tokenLifetime,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}
