// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workspace_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/core/workspace"
	"github.com/taibuivan/kumiko/internal/platform/apperr"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
	"github.com/taibuivan/kumiko/internal/platform/sec"
)

// stubRepository is an in-memory Repository for service tests.
type stubRepository struct {
	byID     map[string]*workspace.Workspace
	bySlug   map[string]*workspace.Workspace
	byPrefix map[string]*workspace.APIKey
	touched  []string
}

func (s *stubRepository) FindBySlug(_ context.Context, slug string) (*workspace.Workspace, error) {
	if entity, ok := s.bySlug[slug]; ok {
		return entity, nil
	}
	return nil, dberr.ErrNotFound
}

func (s *stubRepository) FindByID(_ context.Context, id string) (*workspace.Workspace, error) {
	if entity, ok := s.byID[id]; ok {
		return entity, nil
	}
	return nil, dberr.ErrNotFound
}

func (s *stubRepository) FindAPIKeyByPrefix(_ context.Context, prefix string) (*workspace.APIKey, error) {
	if key, ok := s.byPrefix[prefix]; ok {
		return key, nil
	}
	return nil, dberr.ErrNotFound
}

func (s *stubRepository) TouchAPIKey(_ context.Context, id string) error {
	s.touched = append(s.touched, id)
	return nil
}

// fixtureRepository seeds one active workspace with one live API key whose
// secret is "s3cret-value".
func fixtureRepository(t *testing.T) *stubRepository {
	t.Helper()

	hash, err := sec.HashAPIKey("s3cret-value")
	require.NoError(t, err)

	tenant := &workspace.Workspace{
		ID:       "ws-123",
		Slug:     "acme",
		Name:     "Acme",
		IsActive: true,
	}

	return &stubRepository{
		byID:   map[string]*workspace.Workspace{"ws-123": tenant},
		bySlug: map[string]*workspace.Workspace{"acme": tenant},
		byPrefix: map[string]*workspace.APIKey{
			"abc123": {
				ID:          "key-1",
				WorkspaceID: "ws-123",
				Name:        "ci",
				KeyPrefix:   "abc123",
				KeyHash:     hash,
				Role:        "editor",
			},
		},
	}
}

/*
TestService_VerifyAPIKey_Valid checks that a well-framed key with the right
secret yields a workspace-scoped principal.
*/
func TestService_VerifyAPIKey_Valid(t *testing.T) {
	repo := fixtureRepository(t)
	service := workspace.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	claims, err := service.VerifyAPIKey(context.Background(), "kmk_abc123_s3cret-value")
	require.NoError(t, err)

	assert.Equal(t, "key-1", claims.UserID)
	assert.Equal(t, "ws-123", claims.WorkspaceID)
	assert.Equal(t, "editor", claims.Role)

	// Verification stamps usage.
	assert.Equal(t, []string{"key-1"}, repo.touched)
}

/*
TestService_VerifyAPIKey_Rejections checks that every failure mode collapses
to the same Unauthorized error.
*/
func TestService_VerifyAPIKey_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		presented string
		mutate    func(repo *stubRepository)
	}{
		{"missing_frame", "abc123_s3cret-value", nil},
		{"missing_secret", "kmk_abc123", nil},
		{"empty_prefix", "kmk__s3cret-value", nil},
		{"unknown_prefix", "kmk_zzz999_s3cret-value", nil},
		{"wrong_secret", "kmk_abc123_wrong", nil},
		{
			"revoked_key", "kmk_abc123_s3cret-value",
			func(repo *stubRepository) {
				revokedAt := time.Now()
				repo.byPrefix["abc123"].RevokedAt = &revokedAt
			},
		},
		{
			"inactive_workspace", "kmk_abc123_s3cret-value",
			func(repo *stubRepository) {
				repo.byID["ws-123"].IsActive = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := fixtureRepository(t)
			if tt.mutate != nil {
				tt.mutate(repo)
			}
			service := workspace.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

			claims, err := service.VerifyAPIKey(context.Background(), tt.presented)
			require.Error(t, err)
			assert.Nil(t, claims)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNAUTHORIZED", ae.Code)

			// Rejected keys never record usage.
			assert.Empty(t, repo.touched)
		})
	}
}

/*
TestService_GetBySlug checks slug resolution against the read model.
*/
func TestService_GetBySlug(t *testing.T) {
	repo := fixtureRepository(t)
	service := workspace.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))

	found, err := service.GetBySlug(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "ws-123", found.ID)

	_, err = service.GetBySlug(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
