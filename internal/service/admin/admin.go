package admin

import (
	"context"
	"fmt"
	"strings"

	xerrors "atlas-service/internal/pkg/errors"
	"atlas-service/internal/pkg/jwt"
	"atlas-service/internal/pkg/session"
	"atlas-service/internal/repository/postgres"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminService guards the admin surface. There is a single admin identity
// authenticated by password; issued tokens are revocable through the
// session store.
type AdminService struct {
	passwordHash string
	tokens       *jwt.Manager
	sessions     *session.Store
	tagRepo      *postgres.TagRepository
	logger       *zap.Logger
}

func NewAdminService(
	passwordHash string,
	tokens *jwt.Manager,
	sessions *session.Store,
	tagRepo *postgres.TagRepository,
	logger *zap.Logger,
) *AdminService {
	return &AdminService{
		passwordHash: passwordHash,
		tokens:       tokens,
		sessions:     sessions,
		tagRepo:      tagRepo,
		logger:       logger,
	}
}

// LoginResult carries the bearer token and its validity window.
type LoginResult struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token"`
	ExpiresIn     int64  `json:"expires_in"`
}

// Login checks the password against the configured bcrypt hash and issues a
// fresh admin token backed by a redis session.
func (s *AdminService) Login(ctx context.Context, password string) (*LoginResult, error) {
	if s.passwordHash == "" {
		return nil, xerrors.Wrap(xerrors.ErrInternal, "admin password not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login rejected")
		return nil, xerrors.ErrUnauthorized
	}

	token, tokenID, err := s.tokens.Generate("admin")
	if err != nil {
		return nil, fmt.Errorf("failed to issue admin token: %w", err)
	}
	if err := s.sessions.Create(ctx, tokenID, "admin"); err != nil {
		return nil, fmt.Errorf("failed to open admin session: %w", err)
	}

	s.logger.Info("admin login", zap.String("token_id", tokenID))
	return &LoginResult{
		Authenticated: true,
		Token:         token,
		ExpiresIn:     int64(s.tokens.TTL().Seconds()),
	}, nil
}

// Logout revokes the session behind the given token id. Revoked tokens fail
// middleware checks even before their JWT expiry.
func (s *AdminService) Logout(ctx context.Context, tokenID string) error {
	return s.sessions.Revoke(ctx, tokenID)
}

// ReplaceTags swaps in a new tag vocabulary. Blank entries are dropped and
// order is preserved; duplicates keep their first position.
func (s *AdminService) ReplaceTags(ctx context.Context, tags []string) ([]string, error) {
	cleaned := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}
	if len(cleaned) == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "tag list cannot be empty")
	}
	if err := s.tagRepo.ReplaceAll(ctx, cleaned); err != nil {
		return nil, fmt.Errorf("failed to replace tags: %w", err)
	}
	s.logger.Info("tag vocabulary replaced", zap.Int("count", len(cleaned)))
	return cleaned, nil
}

// DeleteTag removes one tag from the vocabulary. Existing professionals keep
// the tag on their records; it just stops being offered.
func (s *AdminService) DeleteTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return xerrors.Wrap(xerrors.ErrInvalidInput, "tag name is required")
	}
	if err := s.tagRepo.Delete(ctx, name); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	s.logger.Info("tag deleted", zap.String("tag", name))
	return nil
}
