package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petcare-booking/internal/data/entity"
	"petcare-booking/internal/data/repository"
	"petcare-booking/internal/dto/request"
	"petcare-booking/internal/dto/response"
	"petcare-booking/pkg/utils"

	"go.uber.org/zap"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrUnauthenticated    = errors.New("invalid or expired session")
)

// ClientInfo is recorded on every session.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest, client ClientInfo) (*response.AuthResponse, error)
	SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*response.AuthResponse, error)
	SignOut(ctx context.Context, token string) error
	SendOTP(ctx context.Context, req *request.SendOTPRequest) error
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest, client ClientInfo) (*response.AuthResponse, error)

	// CurrentUser resolves a bearer token to the signed-in identity.
	CurrentUser(ctx context.Context, token string) (*entity.Identity, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest, client ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Sign up validation failed", zap.String("errors", utils.FormatValidationErrors(errs)))
		return nil, requestValidationError(errs)
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateRecordID("user"),
			CreatedAt: s.now(),
		},
		Name:         name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if req.Phone != "" {
		user.Phone = utils.FormatPhone(req.Phone)
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed up", zap.String("user_id", user.ID), zap.String("email", user.Email))
	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest, client ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		s.log.Warn("Sign in for unknown email", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" || !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if err := s.repo.Session.CleanExpiredSessions(ctx); err != nil {
		s.log.Warn("Failed to prune sessions", zap.Error(err))
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed in", zap.String("user_id", user.ID))
	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err))
		return ErrUnauthenticated
	}
	return nil
}

// SendOTP issues a one-time sign-in code. Delivery is out of band; the code
// is logged at info level.
func (s *authService) SendOTP(ctx context.Context, req *request.SendOTPRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return requestValidationError(errs)
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)
	if s.config.OTP.ExpiryMinutes <= 0 {
		expiresAt = now.Add(10 * time.Minute)
	}

	otp := &entity.OTP{
		Base: entity.Base{
			ID:        utils.GenerateRecordID("otp"),
			CreatedAt: now,
		},
		Email:     req.Email,
		Code:      utils.GenerateOTP(s.config.OTP.Length),
		ExpiresAt: expiresAt,
	}

	if err := s.repo.OTP.Create(ctx, otp); err != nil {
		return err
	}

	s.log.Info("OTP generated",
		zap.String("email", otp.Email),
		zap.String("otp_code", otp.Code),
		zap.Time("expires_at", expiresAt),
	)
	return nil
}

// VerifyOTP consumes a code and signs the caller in, creating the account
// on first use.
func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest, client ClientInfo) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, requestValidationError(errs)
	}

	otp, err := s.repo.OTP.FindValidOTP(ctx, req.Email, req.Code)
	if err != nil {
		return nil, err
	}
	if otp == nil {
		return nil, ErrInvalidOTP
	}
	if err := s.repo.OTP.MarkAsUsed(ctx, otp.ID); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user = &entity.User{
			Base: entity.Base{
				ID:        utils.GenerateRecordID("user"),
				CreatedAt: s.now(),
			},
			Name:  strings.SplitN(req.Email, "@", 2)[0],
			Email: req.Email,
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("User created from OTP", zap.String("user_id", user.ID))
	}

	session, err := s.createSession(ctx, user.ID, client)
	if err != nil {
		return nil, err
	}

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*entity.Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.repo.Session.FindValidSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return &entity.Identity{UserID: user.ID, Email: user.Email, Name: user.Name}, nil
}

func (s *authService) createSession(ctx context.Context, userID string, client ClientInfo) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		Base: entity.Base{
			ID:        utils.GenerateRecordID("session"),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		ExpiresAt: now.Add(s.config.Session.Expiry()),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", userID))
		return nil, err
	}
	return session, nil
}
