package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/qiaozhwen/shop-be/internal/shared"
)

// AuditLogger records login events in the system log.
type AuditLogger interface {
	Record(ctx context.Context, log shared.SystemLog) error
}

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	repo   Repository
	tokens *TokenIssuer
	audit  AuditLogger
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, repo Repository, tokens *TokenIssuer, audit AuditLogger) *Service {
	return &Service{logger: logger, repo: repo, tokens: tokens, audit: audit}
}

// Login validates username/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, username, password, ip, userAgent string) (*Account, string, error) {
	acct, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, "", shared.ErrInvalidCredentials
	}
	if acct.Status != StatusActive {
		return nil, "", shared.ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.TouchLastLogin(ctx, acct.ID, now); err != nil {
		s.logger.Warn("touch last login", slog.Any("error", err))
	}

	token, err := s.tokens.Issue(acct, now)
	if err != nil {
		return nil, "", err
	}

	if s.audit != nil {
		logErr := s.audit.Record(ctx, shared.SystemLog{
			StaffID:   acct.ID,
			StaffName: acct.Name,
			Module:    "auth",
			Action:    "login",
			Content:   fmt.Sprintf("staff %s logged in", acct.Username),
			IP:        ip,
			UserAgent: userAgent,
			At:        now,
		})
		if logErr != nil {
			s.logger.Warn("record login audit", slog.Any("error", logErr))
		}
	}

	return acct, token, nil
}

// Profile returns the account for the authenticated staff id.
func (s *Service) Profile(ctx context.Context, staffID int64) (*Account, error) {
	return s.repo.FindByID(ctx, staffID)
}

// ChangePassword rehashes the staff password after verifying the old one.
func (s *Service) ChangePassword(ctx context.Context, staffID int64, oldPassword, newPassword string) error {
	acct, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(oldPassword)); err != nil {
		return fmt.Errorf("%w: old password does not match", shared.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, staffID, string(hash))
}

// Logout records the logout event. Tokens stay stateless; the entry only
// feeds the audit trail.
func (s *Service) Logout(ctx context.Context, staffID int64, name, ip, userAgent string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.SystemLog{
		StaffID:   staffID,
		StaffName: name,
		Module:    "auth",
		Action:    "logout",
		Content:   fmt.Sprintf("staff %s logged out", name),
		IP:        ip,
		UserAgent: userAgent,
		At:        time.Now(),
	}); err != nil {
		s.logger.Warn("record logout audit", slog.Any("error", err))
	}
}
