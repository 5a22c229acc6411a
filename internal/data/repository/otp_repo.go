package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/store"

	"go.uber.org/zap"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *entity.OTP) error
	FindValidOTP(ctx context.Context, email, code string) (*entity.OTP, error)
	MarkAsUsed(ctx context.Context, otpID string) error
}

type otpRepository struct {
	coll *store.Collection[entity.OTP]
	log  *zap.Logger
	now  func() time.Time
}

func NewOTPRepository(coll *store.Collection[entity.OTP], log *zap.Logger) OTPRepository {
	return &otpRepository{
		coll: coll,
		log:  log.With(zap.String("repository", "otp")),
		now:  time.Now,
	}
}

func (r *otpRepository) Create(ctx context.Context, otp *entity.OTP) error {
	otp.Email = strings.ToLower(otp.Email)

	// expired or used codes are pruned whenever a new one is issued
	now := r.now()
	if _, err := r.coll.RemoveWhere(ctx, func(o entity.OTP) bool { return !o.Usable(now) }); err != nil {
		r.log.Warn("Failed to prune OTPs", zap.Error(err))
	}

	if err := r.coll.Append(ctx, *otp); err != nil {
		r.log.Error("Failed to create OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("create OTP for %s: %w", otp.Email, err)
	}
	return nil
}

// FindValidOTP returns the newest unused, unexpired code matching email and code.
func (r *otpRepository) FindValidOTP(ctx context.Context, email, code string) (*entity.OTP, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	now := r.now()

	otps, err := r.coll.Filter(ctx, func(o entity.OTP) bool {
		return o.Email == email && o.Code == code && o.Usable(now)
	}, store.ListOptions{SortKey: "createdAt", Order: store.Desc})
	if err != nil {
		return nil, fmt.Errorf("find OTP for %s: %w", email, err)
	}
	if len(otps) == 0 {
		return nil, nil
	}
	return &otps[0], nil
}

func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID string) error {
	now := r.now()
	_, err := r.coll.Update(ctx, otpID, func(o *entity.OTP) error {
		o.UsedAt = &now
		return nil
	})
	if err != nil {
		r.log.Error("Failed to mark OTP used", zap.Error(err), zap.String("otp_id", otpID))
		return fmt.Errorf("mark OTP %s used: %w", otpID, err)
	}
	return nil
}
