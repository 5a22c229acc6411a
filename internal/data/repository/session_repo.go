package repository

import (
	"context"
	"fmt"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindValidSession(ctx context.Context, token string) (*entity.Session, error)
	Revoke(ctx context.Context, token string) error
	CleanExpiredSessions(ctx context.Context) error
}

type sessionRepository struct {
	coll *store.Collection[entity.Session]
	log  *zap.Logger
	now  func() time.Time
}

func NewSessionRepository(coll *store.Collection[entity.Session], log *zap.Logger) SessionRepository {
	return &sessionRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "session")),
		now:  time.Now,
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.Session) error {
	if err := r.coll.Append(ctx, *session); err != nil {
		r.log.Error("Failed to create session",
			zap.Error(err),
			zap.String("user_id", session.UserID),
		)
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindValidSession returns nil, nil for unknown, revoked or expired tokens.
func (r *sessionRepository) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	now := r.now()
	sessions, err := r.coll.Filter(ctx, func(s entity.Session) bool {
		return s.Token == token && s.Active(now)
	}, store.ListOptions{})
	if err != nil {
		r.log.Error("Failed to find session", zap.Error(err))
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return &sessions[0], nil
}

func (r *sessionRepository) Revoke(ctx context.Context, token string) error {
	sessions, err := r.coll.Filter(ctx, func(s entity.Session) bool { return s.Token == token }, store.ListOptions{})
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("session not found")
	}

	now := r.now()
	_, err = r.coll.Update(ctx, sessions[0].ID, func(s *entity.Session) error {
		if s.RevokedAt == nil {
			s.RevokedAt = &now
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to revoke session", zap.Error(err), zap.String("session_id", sessions[0].ID))
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// CleanExpiredSessions drops sessions that can no longer authenticate.
func (r *sessionRepository) CleanExpiredSessions(ctx context.Context) error {
	now := r.now()
	n, err := r.coll.RemoveWhere(ctx, func(s entity.Session) bool { return !s.Active(now) })
	if err != nil {
		r.log.Error("Failed to clean expired sessions", zap.Error(err))
		return fmt.Errorf("failed to clean sessions: %w", err)
	}
	if n > 0 {
		r.log.Info("Cleaned expired sessions", zap.Int("count", n))
	}
	return nil
}
