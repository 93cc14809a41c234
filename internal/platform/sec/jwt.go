// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec holds the security primitives of the server: RS256 access tokens,
bcrypt password hashes, opaque refresh tokens and the role ladder.

Nothing here touches storage. The auth service decides when to issue and the
middleware decides when to verify.
*/
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the access token payload. The short JSON names keep the
// Authorization header small; the middleware trusts them without a lookup.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"unm"`
	Role     string `json:"rol"`
}

// TokenService signs and verifies access tokens with an RSA key pair.
type TokenService struct {
	signingKey *rsa.PrivateKey
	verifyKey  *rsa.PublicKey
	issuer     string
	parser     *jwt.Parser
	now        func() time.Time
}

/*
NewTokenService loads a PEM key pair from disk.

Parameters:
  - privateKeyPath: PKCS#1 or PKCS#8 RSA private key
  - publicKeyPath: PKIX RSA public key
  - issuer: value of the 'iss' claim, required on verification

Returns:
  - *TokenService: Ready to sign and verify
  - error: Unreadable or malformed key files
*/
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	signingKey, err := readKey(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	verifyKey, err := readKey(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return NewTokenServiceFromKeys(signingKey, verifyKey, issuer), nil
}

// NewTokenServiceFromKeys builds the service from keys already in memory.
func NewTokenServiceFromKeys(signingKey *rsa.PrivateKey, verifyKey *rsa.PublicKey, issuer string) *TokenService {
	service := &TokenService{
		signingKey: signingKey,
		verifyKey:  verifyKey,
		issuer:     issuer,
		now:        time.Now,
	}
	service.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return service.now() }),
	)
	return service
}

// WithClock swaps the time source used for 'iat', 'exp' and expiry checks.
func (service *TokenService) WithClock(now func() time.Time) *TokenService {
	service.now = now
	return service
}

func readKey[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	pemBytes, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: read key %s: %w", path, err)
	}
	key, err := parse(pemBytes)
	if err != nil {
		return zero, fmt.Errorf("sec: parse key %s: %w", path, err)
	}
	return key, nil
}

// GenerateAccessToken signs a token for the account that expires after timeToLive.
func (service *TokenService) GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error) {
	issuedAt := service.now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    service.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	})

	signed, err := token.SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken checks signature, algorithm, issuer and expiry and returns the claims.
func (service *TokenService) VerifyToken(raw string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	if _, err := service.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return service.verifyKey, nil
	}); err != nil {
		return nil, fmt.Errorf("sec: verify token: %w", err)
	}
	if claims.UserID == "" {
		return nil, errors.New("sec: verify token: missing uid claim")
	}
	return claims, nil
}
