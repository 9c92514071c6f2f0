package adapter

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// describeCredential inspects an API key without verifying its signature
// (the remote does the verification; we only want a helpful message for
// the connection test). CountTrack Cloud keys are JWTs carrying a "role"
// claim and an expiry.
func describeCredential(key string) string {
	parser := jwt.NewParser()

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(key, claims); err != nil {
		return "key is not a recognizable token"
	}

	role, _ := claims["role"].(string)
	if role == "" {
		role = "unknown"
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return fmt.Sprintf("key role %q, no expiry", role)
	}

	if exp.Before(time.Now()) {
		return fmt.Sprintf("key role %q, expired %s", role, exp.Format(time.RFC3339))
	}
	return fmt.Sprintf("key role %q, valid until %s", role, exp.Format(time.RFC3339))
}
