package models

import "github.com/golang-jwt/jwt/v5"

// TokenType is the OAuth2 token type returned with every access token.
const TokenType = "bearer"

// TokenClaims is the payload embedded in an access token.
// The subject claim carries the username.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// Username returns the identity from the subject claim.
func (c *TokenClaims) Username() string {
	return c.Subject
}

// AccessToken is the response body for register and login.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// NewAccessToken wraps a signed token string.
func NewAccessToken(token string) *AccessToken {
	return &AccessToken{AccessToken: token, TokenType: TokenType}
}
