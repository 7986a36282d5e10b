package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/moonbase-api/internal/models"
)

// ActivityLogFilter narrows activity queries. Zero values match everything.
type ActivityLogFilter struct {
	Page       int
	PageSize   int
	ActorID    *uint
	Action     string
	EntityType string
	EntityID   string
}

func (f ActivityLogFilter) apply(db *gorm.DB) *gorm.DB {
	if f.ActorID != nil {
		db = db.Where("actor_id = ?", *f.ActorID)
	}
	for column, value := range map[string]string{
		"action":      f.Action,
		"entity_type": f.EntityType,
		"entity_id":   f.EntityID,
	} {
		if value != "" {
			db = db.Where(column+" = ?", value)
		}
	}
	return db
}

func (f ActivityLogFilter) paginate(db *gorm.DB) *gorm.DB {
	if f.PageSize <= 0 {
		return db
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return db.Offset((page - 1) * f.PageSize).Limit(f.PageSize)
}

// ActivityLogRepository persists the audit trail of classroom and submission writes.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns one page of entries, newest first, with the unpaged total.
func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActivityLog{}).
		Scopes(filter.apply).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.ActivityLog{}, 0, nil
	}

	var entries []models.ActivityLog
	err := r.db.WithContext(ctx).
		Scopes(filter.apply, filter.paginate).
		Order("created_at DESC").
		Order("id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
