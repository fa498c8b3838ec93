package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cureconnect/cureconnect/internal/domain"
	doctordomain "github.com/cureconnect/cureconnect/internal/domain/doctor"
	"github.com/cureconnect/cureconnect/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	SetDoctorID(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error
}

type AuthService struct {
	userRepo   UserRepository
	doctorRepo doctordomain.Repository
	jwtManager *auth.JWTManager
	log        *zap.Logger
}

func NewAuthService(userRepo UserRepository, doctorRepo doctordomain.Repository, jwtManager *auth.JWTManager, log *zap.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, doctorRepo: doctorRepo, jwtManager: jwtManager, log: log}
}

type RegisterCommand struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role

	// Doctor signups carry the initial profile; it is created pending and
	// waits for admin approval.
	DoctorProfile *doctordomain.RegisterDoctorCommand
}

// Register creates a patient or doctor account. Doctor accounts also get a
// pending doctor profile that an admin must approve before the doctor appears
// in listings.
func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand, ip string) (*domain.User, error) {
	if cmd.Role != domain.RolePatient && cmd.Role != domain.RoleDoctor {
		return nil, &ValidationError{Fields: []string{"role must be patient or doctor"}}
	}
	if err := validatePasswordStrength(cmd.Password); err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}
	if cmd.Role == domain.RoleDoctor && cmd.DoctorProfile == nil {
		return nil, &ValidationError{Fields: []string{"doctor registration requires a profile"}}
	}

	if _, err := s.userRepo.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:             cmd.Email,
		PasswordHash:      string(hash),
		FirstName:         cmd.FirstName,
		LastName:          cmd.LastName,
		Phone:             cmd.Phone,
		Role:              cmd.Role,
		IsActive:          true,
		PasswordChangedAt: time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if cmd.Role == domain.RoleDoctor {
		profile := &doctordomain.Doctor{
			UserID:          user.ID,
			FirstName:       cmd.FirstName,
			LastName:        cmd.LastName,
			Specialization:  cmd.DoctorProfile.Specialization,
			Location:        cmd.DoctorProfile.Location,
			Bio:             cmd.DoctorProfile.Bio,
			Education:       cmd.DoctorProfile.Education,
			ExperienceYrs:   cmd.DoctorProfile.ExperienceYrs,
			ConsultationFee: cmd.DoctorProfile.ConsultationFee,
			AvailableDays:   cmd.DoctorProfile.AvailableDays,
			AvailableSlots:  cmd.DoctorProfile.AvailableSlots,
			ProfileImage:    cmd.DoctorProfile.ProfileImage,
			Status:          doctordomain.StatusPending,
		}
		if err := s.doctorRepo.Create(ctx, profile); err != nil {
			return nil, fmt.Errorf("creating doctor profile: %w", err)
		}
		if err := s.userRepo.SetDoctorID(ctx, user.ID, profile.ID); err != nil {
			return nil, fmt.Errorf("linking doctor profile: %w", err)
		}
		user.DoctorID = &profile.ID
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("ip", ip),
	)

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string, ip string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		// Record failed attempt; lock if threshold exceeded
		_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, false)
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.UpdateLoginAttempt(ctx, user.ID, true)

	claims := &domain.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		DoctorID: user.DoctorID,
	}

	pair, err := s.jwtManager.GenerateTokenPair(claims)
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return pair, nil
}

// RefreshToken issues a new access token given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	updatedClaims := &domain.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		DoctorID: user.DoctorID,
	}

	return s.jwtManager.GenerateTokenPair(updatedClaims)
}

// ChangePassword updates a user's password after verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	if err := validatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, userID, string(hash))
}

func validatePasswordStrength(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}
	return nil
}
