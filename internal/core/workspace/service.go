// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package workspace

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/kumiko/internal/platform/apperr"
	"github.com/taibuivan/kumiko/internal/platform/constants"
	"github.com/taibuivan/kumiko/internal/platform/sec"
)

// # Service Layer

// Service exposes workspace resolution and API key verification.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new workspace [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Workspace Resolution

/*
GetBySlug resolves a workspace by its public slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Workspace: Hydrated entity
  - error: ErrNotFound if missing
*/
func (service *Service) GetBySlug(context context.Context, slug string) (*Workspace, error) {
	return service.repo.FindBySlug(context, slug)
}

/*
GetByID retrieves a workspace by its UUID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Workspace: Hydrated entity
  - error: ErrNotFound if missing
*/
func (service *Service) GetByID(context context.Context, id string) (*Workspace, error) {
	return service.repo.FindByID(context, id)
}

// # API Key Verification

/*
VerifyAPIKey authenticates a presented X-API-Key value and returns the
machine principal it represents.

Description: The key is framed as kmk_<prefix>_<secret>. The prefix locates
the stored row; the secret is compared against the stored bcrypt hash.
Revoked keys and keys of deactivated workspaces are rejected. Every failure
collapses to the same Unauthorized error so callers cannot probe which
segment was wrong. The presented secret is never logged.

Parameters:
  - context: context.Context
  - presentedKey: string (raw header value)

Returns:
  - *sec.AuthClaims: Workspace-scoped principal (the key id is the subject)
  - error: apperr.Unauthorized on any verification failure
*/
func (service *Service) VerifyAPIKey(context context.Context, presentedKey string) (*sec.AuthClaims, error) {
	rejected := apperr.Unauthorized("Invalid or revoked API key")

	// ── 1. Frame Validation ───────────────────────────────────────────────
	framed, hasFrame := strings.CutPrefix(presentedKey, constants.APIKeyPrefix)
	if !hasFrame {
		return nil, rejected
	}

	prefix, secret, hasSecret := strings.Cut(framed, "_")
	if !hasSecret || prefix == "" || secret == "" {
		return nil, rejected
	}

	// ── 2. Key Lookup ─────────────────────────────────────────────────────
	key, err := service.repo.FindAPIKeyByPrefix(context, prefix)
	if err != nil {
		service.logger.Warn("api_key_rejected",
			slog.String("key_prefix", prefix),
			slog.String("reason", "unknown_prefix"),
		)
		return nil, rejected
	}

	if key.IsRevoked() {
		service.logger.Warn("api_key_rejected",
			slog.String("key_prefix", prefix),
			slog.String("reason", "revoked"),
		)
		return nil, rejected
	}

	// ── 3. Secret Comparison ──────────────────────────────────────────────
	if !sec.CheckAPIKey(secret, key.KeyHash) {
		service.logger.Warn("api_key_rejected",
			slog.String("key_prefix", prefix),
			slog.String("reason", "hash_mismatch"),
		)
		return nil, rejected
	}

	// ── 4. Workspace Liveness ─────────────────────────────────────────────
	tenant, err := service.repo.FindByID(context, key.WorkspaceID)
	if err != nil || !tenant.IsActive {
		service.logger.Warn("api_key_rejected",
			slog.String("key_prefix", prefix),
			slog.String("reason", "workspace_inactive"),
		)
		return nil, rejected
	}

	// ── 5. Usage Stamp (best effort) ──────────────────────────────────────
	if err := service.repo.TouchAPIKey(context, key.ID); err != nil {
		service.logger.Warn("api_key_touch_failed", slog.String("key_id", key.ID))
	}

	return &sec.AuthClaims{
		UserID:      key.ID,
		WorkspaceID: key.WorkspaceID,
		Role:        key.Role,
	}, nil
}
