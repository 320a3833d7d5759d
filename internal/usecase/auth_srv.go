package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/data/entity"
	"github.com/korey-h/api-yamdb/internal/data/repository"
	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/pkg/mailer"
	"github.com/korey-h/api-yamdb/pkg/throttle"
	"github.com/korey-h/api-yamdb/pkg/token"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

const (
	confirmationSubject = "e-mail confirmation"
	confirmationBody    = "confirmation_code: %s"
)

type AuthService interface {
	// Signup finds or creates the account for the email and mails it a
	// confirmation code.
	Signup(ctx context.Context, req *request.SignupRequest) error
	// ObtainToken exchanges a confirmation code for a bearer access token.
	ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
}

type authService struct {
	userRepo     repository.UserRepository
	tokens       *token.Manager
	mailer       mailer.Sender
	throttle     throttle.Limiter
	resendWindow time.Duration
	log          *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	deps Dependencies,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		tokens:       deps.Tokens,
		mailer:       deps.Mailer,
		throttle:     deps.Throttle,
		resendWindow: time.Duration(config.Confirmation.ResendSeconds) * time.Second,
		log:          log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) error {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return err
	}

	user, err := s.findOrCreate(ctx, req.Email)
	if err != nil {
		return err
	}

	throttleKey := "confirmation:" + utils.NormalizeEmail(user.Email)
	if s.throttle != nil {
		ok, err := s.throttle.Allow(ctx, throttleKey, s.resendWindow)
		if err != nil {
			// fail open when the throttle store is unreachable
			s.log.Error("Resend throttle unavailable", zap.Error(err))
		} else if !ok {
			s.log.Warn("Confirmation resend throttled", zap.String("email", user.Email))
			return fmt.Errorf("confirmation for %s: %w", user.Email, ErrTooManyRequests)
		}
	}

	code, err := s.tokens.IssueConfirmation(user.ID)
	if err != nil {
		s.log.Error("Failed to issue confirmation code", zap.Error(err), zap.Int64("user_id", user.ID))
		s.releaseThrottle(ctx, throttleKey)
		return fmt.Errorf("issue confirmation code: %w", err)
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: confirmationSubject,
		Body:    fmt.Sprintf(confirmationBody, code),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("Failed to send confirmation code", zap.Error(err), zap.String("email", user.Email))
		s.releaseThrottle(ctx, throttleKey)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	s.log.Info("Confirmation code sent", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	return nil
}

// releaseThrottle frees the resend slot of a code that never reached the user.
func (s *authService) releaseThrottle(ctx context.Context, key string) {
	if s.throttle == nil {
		return
	}
	// the request context may already be done after a failed send
	if err := s.throttle.Release(context.WithoutCancel(ctx), key); err != nil {
		s.log.Error("Failed to release resend throttle", zap.Error(err), zap.String("key", key))
	}
}

// findOrCreate resolves the account for email, inserting it with the email's
// local part as username when it does not exist yet.
func (s *authService) findOrCreate(ctx context.Context, email string) (*entity.User, error) {
	username := utils.UsernameFromEmail(email)
	if !utils.IsValidUsername(username) {
		existing, err := s.userRepo.FindByEmail(ctx, email)
		if err != nil {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
		return nil, newValidationError("email", "cannot derive a valid username from this email")
	}

	now := time.Now()
	candidate := &entity.User{
		Base: entity.Base{
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: username,
		Email:    email,
		Role:     entity.RoleUser,
	}

	user, created, err := s.userRepo.FindOrCreateByEmail(ctx, candidate)
	if errors.Is(err, repository.ErrDuplicate) {
		s.log.Warn("Username derived from email is taken",
			zap.String("email", email),
			zap.String("username", username))
		return nil, newValidationError("email", fmt.Sprintf("username %q is already taken", username))
	}
	if err != nil {
		s.log.Error("Failed to find or create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	if created {
		s.log.Info("User created on signup",
			zap.Int64("user_id", user.ID),
			zap.String("username", user.Username))
	}
	return user, nil
}

func (s *authService) ObtainToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Token validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user with email %s: %w", req.Email, ErrNotFound)
	}

	if err := s.tokens.VerifyConfirmation(req.ConfirmationCode, user.ID); err != nil {
		s.log.Warn("Confirmation code rejected", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, ErrConfirmationMismatch
	}

	access, err := s.tokens.IssueAccess(user.ID, string(user.Role))
	if err != nil {
		s.log.Error("Failed to issue access token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	s.log.Info("Access token issued", zap.Int64("user_id", user.ID))
	return &response.TokenResponse{Token: access}, nil
}
