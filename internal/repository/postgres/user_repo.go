package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/service"
)

const maxFailedAttempts = 5

const lockDuration = 15 * time.Minute

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ service.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return service.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, service.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateLoginAttempt records a login outcome. Failures increment the counter
// and lock the account once the threshold is reached; success resets it.
func (r *UserRepo) UpdateLoginAttempt(ctx context.Context, id uuid.UUID, success bool) error {
	if success {
		now := time.Now()
		return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
			"failed_login_count": 0,
			"locked_until":       nil,
			"last_login_at":      now,
		}).Error
	}

	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return err
	}

	updates := map[string]any{"failed_login_count": u.FailedLoginCount + 1}
	if u.FailedLoginCount+1 >= maxFailedAttempts {
		updates["locked_until"] = time.Now().Add(lockDuration)
		updates["failed_login_count"] = 0
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates).Error
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash":       hash,
		"password_changed_at": time.Now(),
	}).Error
}

func (r *UserRepo) SetDoctorID(ctx context.Context, id uuid.UUID, doctorID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Update("doctor_id", doctorID).Error
}
