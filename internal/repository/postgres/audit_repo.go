package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/cureconnect/cureconnect/internal/domain"
	"github.com/cureconnect/cureconnect/internal/service"
)

type AuditRepo struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

var _ service.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
