package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/database"
	"github.com/yukikurage/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var taskSortColumns = map[string]string{
	SortFieldDescription: "description",
	SortFieldCompleted:   "completed",
	SortFieldCreatedAt:   "created_at",
	SortFieldUpdatedAt:   "updated_at",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	return translateError(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// FindOwned finds a task by ID scoped to its owner
func (r *GormTaskRepository) FindOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ? AND owner = ?", id, owner).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}

	query := r.db.WithContext(ctx).Model(&models.Task{}).Where("owner = ?", filter.Owner)

	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Sort != nil {
		if column, ok := taskSortColumns[filter.Sort.Field]; ok {
			query = query.Order(clause.OrderByColumn{
				Column: clause.Column{Name: column},
				Desc:   filter.Sort.Desc,
			})
		}
	}

	if err := query.Scopes(database.Paginate(filter.Skip, filter.Limit)).Find(&tasks).Error; err != nil {
		return nil, translateError(err)
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	result := r.db.WithContext(ctx).
		Model(task).
		Select("description", "completed", "updated_at").
		Updates(task)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOwned finds and deletes a task scoped to its owner
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner = ?", id, owner).First(&task).Error; err != nil {
			return err
		}
		result := tx.Where("id = ? AND owner = ?", id, owner).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// DeleteByOwner deletes all tasks of an owner
func (r *GormTaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner = ?", owner).Delete(&models.Task{})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	return result.RowsAffected, nil
}
