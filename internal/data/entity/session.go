package entity

import (
	"errors"
	"time"
)

type Session struct {
	Base
	UserID    string     `json:"userId"`
	Token     string     `json:"token"`
	UserAgent string     `json:"userAgent,omitempty"`
	IPAddress string     `json:"ipAddress,omitempty"`
	ExpiresAt time.Time  `json:"expiresAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

func (s Session) Timestamp(field string) (time.Time, bool) {
	if field == "expiresAt" {
		return s.ExpiresAt, !s.ExpiresAt.IsZero()
	}
	return s.Base.Timestamp(field)
}

func (s Session) Validate() error {
	if err := s.Base.validate(); err != nil {
		return err
	}
	if s.UserID == "" || s.Token == "" {
		return errors.New("session user and token are required")
	}
	return nil
}

// Active reports whether the session can still authenticate requests.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
