package serviceimpl

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"taskhub-api/domain/services"
)

const (
	audienceAccess            = "taskhub:access"
	audienceEmailVerification = "taskhub:email-verification"
)

// exp/iat เก็บละเอียดถึง millisecond ไม่ให้ token หมดอายุก่อนครบ TTL
func init() {
	jwt.TimePrecision = time.Millisecond
}

// TokenKeyConfig - key และอายุของ token แต่ละชนิด
type TokenKeyConfig struct {
	Secret             string
	VerificationSecret string // ว่าง = derive จาก Secret
	AccessTTL          time.Duration
	VerificationTTL    time.Duration
}

type tokenKind struct {
	key      []byte
	audience string
	ttl      time.Duration
}

type TokenServiceImpl struct {
	kinds map[services.TokenKind]tokenKind
	now   func() time.Time
}

type TokenServiceOption func(*TokenServiceImpl)

// WithClock ใช้ใน test เพื่อควบคุมเวลา
func WithClock(now func() time.Time) TokenServiceOption {
	return func(s *TokenServiceImpl) {
		s.now = now
	}
}

func NewTokenService(cfg TokenKeyConfig, opts ...TokenServiceOption) services.TokenService {
	verificationKey := []byte(cfg.VerificationSecret)
	if len(verificationKey) == 0 {
		verificationKey = deriveKey(cfg.Secret, "email-verification")
	}

	s := &TokenServiceImpl{
		kinds: map[services.TokenKind]tokenKind{
			services.TokenKindAccess: {
				key:      []byte(cfg.Secret),
				audience: audienceAccess,
				ttl:      cfg.AccessTTL,
			},
			services.TokenKindEmailVerification: {
				key:      verificationKey,
				audience: audienceEmailVerification,
				ttl:      cfg.VerificationTTL,
			},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// deriveKey gives the verification kind a key distinct from the access key.
func deriveKey(secret, label string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("taskhub/" + label))
	return mac.Sum(nil)
}

func (s *TokenServiceImpl) Issue(kind services.TokenKind, userID uuid.UUID) (*services.IssuedToken, error) {
	k, ok := s.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}

	now := s.now().Truncate(time.Millisecond)
	expiresAt := now.Add(k.ttl)
	jti := uuid.NewString()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ID:        jti,
		Audience:  jwt.ClaimStrings{k.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(k.key)
	if err != nil {
		return nil, err
	}

	return &services.IssuedToken{
		Token:     signed,
		ID:        jti,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenServiceImpl) Verify(kind services.TokenKind, tokenString string) (*services.TokenClaims, error) {
	k, ok := s.kinds[kind]
	if !ok || tokenString == "" {
		return nil, services.ErrInvalidToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return k.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(k.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, services.ErrExpiredToken
		}
		return nil, services.ErrInvalidToken
	}
	if !token.Valid {
		return nil, services.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, services.ErrInvalidToken
	}

	result := &services.TokenClaims{
		UserID:    userID,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	return result, nil
}
