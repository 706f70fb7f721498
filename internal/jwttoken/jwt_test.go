package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "autoriza/pkg/domain"
	dErrors "autoriza/pkg/domain-errors"
)

func TestService_RoundTrip(t *testing.T) {
	s := NewService("test-signing-key", "autoriza", "reviewers")

	token, err := s.GenerateToken("REV-42", time.Hour)
	require.NoError(t, err)

	reviewerID, err := s.ExtractReviewerID(token)
	require.NoError(t, err)
	assert.Equal(t, id.ReviewerID("REV-42"), reviewerID)
}

func TestService_ExpiredToken(t *testing.T) {
	s := NewService("test-signing-key", "autoriza", "reviewers")

	token, err := s.GenerateToken("REV-42", -time.Minute)
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestService_WrongKeyRejected(t *testing.T) {
	issuer := NewService("key-one", "autoriza", "reviewers")
	verifier := NewService("key-two", "autoriza", "reviewers")

	token, err := issuer.GenerateToken("REV-42", time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestService_GarbageTokenRejected(t *testing.T) {
	s := NewService("test-signing-key", "autoriza", "reviewers")
	_, err := s.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestService_BlankReviewerIDRejected(t *testing.T) {
	s := NewService("test-signing-key", "autoriza", "reviewers")

	token, err := s.GenerateToken("", time.Hour)
	require.NoError(t, err)

	_, err = s.ExtractReviewerID(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
