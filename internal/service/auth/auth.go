package auth

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/models"
	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	wrap "github.com/Temutjin2k/rescue-coordination/pkg/logger/wrapper"
)

// AuthService turns an access token into the actor every core operation takes.
type AuthService struct {
	tokens *TokenService
	teams  TeamDirectory
	log    logger.Logger
}

func NewAuthService(tokens *TokenService, teams TeamDirectory, log logger.Logger) *AuthService {
	return &AuthService{
		tokens: tokens,
		teams:  teams,
		log:    log,
	}
}

// Authenticate validates the token and loads the user's team memberships.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Actor, error) {
	ctx = wrap.WithAction(ctx, "authenticate")

	claims, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: %w", types.ErrUnauthorized, err))
	}

	ctx = wrap.WithUserID(ctx, claims.UserID)
	teams, err := s.teams.TeamsOf(ctx, claims.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load team memberships: %w", err))
	}

	return &models.Actor{UserID: claims.UserID, TeamIDs: teams}, nil
}
