package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/rescue-coordination/internal/domain/types"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
)

type teamsStub map[int64][]int64

func (t teamsStub) TeamsOf(_ context.Context, userID int64) ([]int64, error) {
	return t[userID], nil
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	ctx := context.Background()
	s := NewTokenService("secret", time.Hour)

	token, exp, err := s.Issue(ctx, 7)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := s.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.NotEmpty(t, claims.TokenID)
}

func TestTokenService_RejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	token, _, err := NewTokenService("other", time.Hour).Issue(ctx, 7)
	require.NoError(t, err)

	_, err = NewTokenService("secret", time.Hour).Validate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Expired(t *testing.T) {
	ctx := context.Background()
	s := NewTokenService("secret", time.Minute)
	s.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := s.Issue(ctx, 7)
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrExpToken)
}

func TestTokenService_IssueRejectsBadUser(t *testing.T) {
	_, _, err := NewTokenService("secret", time.Hour).Issue(context.Background(), 0)
	assert.ErrorIs(t, err, types.ErrValidation)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	tokens := NewTokenService("secret", time.Hour)
	s := NewAuthService(tokens, teamsStub{7: {3}}, logger.Discard())

	token, _, err := tokens.Issue(ctx, 7)
	require.NoError(t, err)

	actor, err := s.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), actor.UserID)
	assert.Equal(t, []int64{3}, actor.TeamIDs)

	_, err = s.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
}
