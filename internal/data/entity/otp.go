package entity

import (
	"errors"
	"time"
)

type OTP struct {
	Base
	Email     string     `json:"email"`
	Code      string     `json:"code"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
}

func (o OTP) Validate() error {
	if err := o.Base.validate(); err != nil {
		return err
	}
	if o.Email == "" || o.Code == "" {
		return errors.New("otp email and code are required")
	}
	return nil
}

func (o OTP) Usable(now time.Time) bool {
	return o.UsedAt == nil && now.Before(o.ExpiresAt)
}
