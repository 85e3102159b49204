package config

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenLifetime = time.Hour * 24 * 30

type JWT struct {
	publicKey     *rsa.PublicKey
	privateKey    *rsa.PrivateKey
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

// PlayerClaims identify a logged in player. They travel split across the
// auth and sign cookies.
type PlayerClaims struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func loadKey(name string) ([]byte, error) {
	key, ok := os.LookupEnv(name)
	if ok {
		return []byte(key), nil
	}
	path, ok := os.LookupEnv(name + "_FILE")
	if !ok {
		return nil, fmt.Errorf("no %s or %s_FILE env variable set", name, name)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return b, nil
}

func NewJWT() (*JWT, error) {
	privateKeyBytes, err := loadKey("JWT_PRIVATE_KEY")
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT private key: %w", err)
	}

	publicKeyBytes, err := loadKey("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}

	lifetime := defaultTokenLifetime
	if s, ok := os.LookupEnv("JWT_TOKEN_LIFETIME"); ok {
		lifetime, err = time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TOKEN_LIFETIME: %w", err)
		}
	}

	return NewJWTWithKeys(privateKey, lifetime), nil
}

// NewJWTWithKeys signs with key and verifies with its public half.
func NewJWTWithKeys(key *rsa.PrivateKey, lifetime time.Duration) *JWT {
	return &JWT{
		privateKey:    key,
		publicKey:     &key.PublicKey,
		signingMethod: jwt.SigningMethodRS256,
		tokenLifetime: lifetime,
	}
}

func (j *JWT) TokenLifetime() time.Duration {
	return j.tokenLifetime
}

// NewPlayerClaims stamps fresh registered claims valid for the token lifetime.
func (j *JWT) NewPlayerClaims(playerId int64, username string) *PlayerClaims {
	now := time.Now()
	return &PlayerClaims{
		PlayerId: playerId,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
}

func (j *JWT) Sign(claims jwt.Claims) (string, error) {
	return jwt.NewWithClaims(j.signingMethod, claims).SignedString(j.privateKey)
}

func (j *JWT) ParseWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	return jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.publicKey, nil
		},
		jwt.WithValidMethods([]string{j.signingMethod.Alg()}),
	)
}
