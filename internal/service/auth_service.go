package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/studio-console-api/internal/models"
	"github.com/noah-isme/studio-console-api/pkg/config"
	appErrors "github.com/noah-isme/studio-console-api/pkg/errors"
)

// TokenVerifier turns a bearer token into an authenticated principal.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.Principal, error)
}

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// NewTokenVerifier selects the verifier configured by AUTH_MODE.
func NewTokenVerifier(cfg config.AuthConfig, firebaseAuth idTokenVerifier, logger *zap.Logger) (TokenVerifier, error) {
	switch cfg.Mode {
	case config.AuthModeJWT:
		if cfg.JWTSecret == "" {
			return nil, errors.New("auth: JWT_SECRET is required in jwt mode")
		}
		return NewJWTVerifier(cfg.JWTSecret, logger), nil
	case config.AuthModeFirebase, "":
		if firebaseAuth == nil {
			return nil, errors.New("auth: firebase client is required in firebase mode")
		}
		return NewFirebaseVerifier(firebaseAuth, logger), nil
	}
	return nil, fmt.Errorf("auth: unknown mode %q", cfg.Mode)
}

// JWTVerifier validates HS256 service tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewJWTVerifier constructs a JWTVerifier.
func NewJWTVerifier(secret string, logger *zap.Logger) *JWTVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTVerifier{secret: []byte(secret), logger: logger, now: time.Now}
}

// Verify parses and validates a token.
func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*models.Principal, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(v.now))
	if err != nil || !token.Valid {
		v.logger.Debug("jwt rejected", zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	uid := claims.UserID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token has no subject")
	}
	return &models.Principal{UID: uid, Email: claims.Email, Role: normaliseRole(string(claims.Role))}, nil
}

// Issue signs a token for the principal, used for service-to-service calls and local tooling.
func (v *JWTVerifier) Issue(p models.Principal, ttl time.Duration) (string, error) {
	now := v.now()
	claims := models.JWTClaims{
		UserID: p.UID,
		Email:  p.Email,
		Role:   p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// FirebaseVerifier validates ID tokens issued by the hosted auth provider. The role is read
// from the "role" custom claim.
type FirebaseVerifier struct {
	client idTokenVerifier
	logger *zap.Logger
}

// NewFirebaseVerifier constructs a FirebaseVerifier.
func NewFirebaseVerifier(client idTokenVerifier, logger *zap.Logger) *FirebaseVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseVerifier{client: client, logger: logger}
}

// Verify validates an ID token.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*models.Principal, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		v.logger.Debug("id token rejected", zap.Error(err))
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	p := &models.Principal{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		p.Email = email
	}
	if role, ok := token.Claims["role"].(string); ok {
		p.Role = normaliseRole(role)
	}
	return p, nil
}

func normaliseRole(raw string) models.Role {
	switch models.Role(strings.ToLower(strings.TrimSpace(raw))) {
	case models.RoleAdmin:
		return models.RoleAdmin
	case models.RoleInstructor:
		return models.RoleInstructor
	case models.RoleTrainer:
		return models.RoleTrainer
	case models.RoleCustomer:
		return models.RoleCustomer
	case models.RoleUnlabeled:
		return models.RoleUnlabeled
	}
	return models.RoleUnknown
}
