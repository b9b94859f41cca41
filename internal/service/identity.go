package service

import (
	"fmt"

	"go.uber.org/zap"

	"toolbay/internal/models"
	"toolbay/internal/repository"
)

// IdentityService resolves fingerprints to persistent anonymous users and
// owns the trust ledger attached to them.
type IdentityService interface {
	// Resolve returns the identity for a fingerprint, creating it on first
	// sight. Reads do not touch last_active; write gates update it through
	// the contribution counters instead.
	Resolve(fingerprint string) (*models.User, error)
	AdjustTrust(userID string, delta int, reason, actor string) (int, error)
	Ban(userID, reason, actor string) error
	Unban(userID, actor string) error
}

// Trust deltas applied by moderation events.
const (
	trustDeltaBan   = -25
	trustDeltaUnban = 0
)

type identityService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewIdentityService(users repository.UserRepository, logger *zap.Logger) IdentityService {
	return &identityService{users: users, logger: logger}
}

func (s *identityService) Resolve(fingerprint string) (*models.User, error) {
	if fingerprint == "" {
		return nil, fmt.Errorf("empty fingerprint")
	}

	user, err := s.users.GetByFingerprint(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(fingerprint)
	if err == nil {
		s.logger.Debug("Created new identity",
			zap.String("fingerprint_prefix", fingerprint[:8]),
			zap.Int("trust_score", user.TrustScore))
		return user, nil
	}
	if err != repository.ErrConflict {
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	// Lost a first-sight race: someone else just created this identity.
	user, err = s.users.GetByFingerprint(fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to re-fetch identity after conflict: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("identity vanished after insert conflict")
	}
	return user, nil
}

func (s *identityService) AdjustTrust(userID string, delta int, reason, actor string) (int, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	score, err := s.users.AdjustTrust(userID, delta, reason, actor)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust trust score: %w", err)
	}
	s.logger.Info("Trust score adjusted",
		zap.String("user_id", userID), zap.Int("delta", delta), zap.Int("new_score", score),
		zap.String("actor", actor))
	return score, nil
}

func (s *identityService) Ban(userID, reason, actor string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	banReason := &reason
	if reason == "" {
		banReason = nil
	}
	if err := s.users.SetBanned(userID, true, banReason); err != nil {
		return fmt.Errorf("failed to ban user: %w", err)
	}
	if _, err := s.users.AdjustTrust(userID, trustDeltaBan, "banned: "+reason, actor); err != nil {
		s.logger.Error("Failed to record ban trust event", zap.String("user_id", userID), zap.Error(err))
	}
	s.logger.Info("User banned", zap.String("user_id", userID), zap.String("reason", reason))
	return nil
}

func (s *identityService) Unban(userID, actor string) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.users.SetBanned(userID, false, nil); err != nil {
		return fmt.Errorf("failed to unban user: %w", err)
	}
	if _, err := s.users.AdjustTrust(userID, trustDeltaUnban, "unbanned", actor); err != nil {
		s.logger.Error("Failed to record unban trust event", zap.String("user_id", userID), zap.Error(err))
	}
	s.logger.Info("User unbanned", zap.String("user_id", userID))
	return nil
}
