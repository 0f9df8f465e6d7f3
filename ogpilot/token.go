package ogpilot

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenEncoder signs a claims payload into a compact token.
type TokenEncoder interface {
	Encode(claims Claims, secret string) (string, error)
}

// HS256Encoder signs claims as a JWS with HMAC-SHA256. The header is always
// {"alg":"HS256","typ":"JWT"} and claim keys are serialized in sorted order,
// so identical input yields an identical token.
type HS256Encoder struct{}

// Encode implements TokenEncoder.
func (HS256Encoder) Encode(claims Claims, secret string) (string, error) {
	if secret == "" {
		return "", configurationError("API key is missing")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies an HS256 token with secret and returns its claims.
// Registered time claims are not validated: image tokens carry no expiry.
func Decode(token, secret string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token: unexpected claims type %T", parsed.Claims)
	}
	return Claims(claims), nil
}
