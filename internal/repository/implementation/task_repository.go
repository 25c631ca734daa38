package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-concierge-be/internal/entity"
)

type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) error
	FindByUser(ctx context.Context, userId uuid.UUID) ([]entity.Task, error)
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) ITaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *entity.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByUser(ctx context.Context, userId uuid.UUID) ([]entity.Task, error) {
	var tasks []entity.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Limit(100).
		Find(&tasks).Error
	return tasks, err
}
