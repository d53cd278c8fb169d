package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

const accessTokenType = "access"

// Claims are the fields the service reads from an access token.
type Claims struct {
	UserID  int64
	TokenID string
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens. Identity itself is owned by an
// external collaborator; tokens only carry the user id it vouched for.
type TokenService struct {
	AccessTTL time.Duration
	secret    string
	now       func() time.Time
}

func NewTokenService(secret string, accessTTL time.Duration) *TokenService {
	return &TokenService{
		AccessTTL: accessTTL,
		secret:    secret,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Issue signs an access token for the user.
func (s *TokenService) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	ctx = wrap.WithUserID(wrap.WithAction(ctx, "issue_token"), userID)
	if userID <= 0 {
		return "", time.Time{}, wrap.Error(ctx, types.NewValidationError("userId", userID, "must be positive"))
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.AccessTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"typ":     accessTokenType,
		"jti":     uuid.NewString(),
		"sub":     strconv.FormatInt(userID, 10),
		"user_id": strconv.FormatInt(userID, 10),
		"iat":     issuedAt.Unix(),
		"exp":     expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", time.Time{}, wrap.Error(ctx, fmt.Errorf("%w: %w", ErrTokenGenerateFail, err))
	}
	return signed, expiresAt, nil
}

// Validate checks signature, type and expiry and returns the claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*Claims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, wrap.Error(ctx, ErrExpToken)
		}
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if typ, _ := mc["typ"].(string); typ != accessTokenType {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	userIDStr, _ := mc["user_id"].(string)
	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil || userID <= 0 {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: invalid or missing 'user_id' in token claims", ErrInvalidToken))
	}

	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: invalid or missing 'exp' in token claims", ErrInvalidToken))
	}

	tokenID, _ := mc["jti"].(string)

	return &Claims{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userIDStr,
			ExpiresAt: exp,
		},
	}, nil
}
