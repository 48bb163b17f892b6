package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-manager-api/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the query.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicateKey is returned when a unique index rejects a write.
	ErrDuplicateKey = errors.New("repository: duplicate key")
)

// Canonical task sort fields accepted by TaskRepository.List
const (
	SortFieldDescription = "description"
	SortFieldCompleted   = "completed"
	SortFieldCreatedAt   = "created_at"
	SortFieldUpdatedAt   = "updated_at"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user, assigning an ID when empty
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by its normalized email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByIDAndToken finds a user that still holds the given session token
	FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error)

	// UpdateProfile writes name, email, age and password
	UpdateProfile(ctx context.Context, user *models.User) error

	// AddToken appends a session token to the user's token list
	AddToken(ctx context.Context, userID, token string) error

	// RemoveToken removes a single session token
	RemoveToken(ctx context.Context, userID, token string) error

	// ClearTokens removes every session token of the user
	ClearTokens(ctx context.Context, userID string) error

	// SetAvatar stores the avatar bytes; nil clears it
	SetAvatar(ctx context.Context, userID string, avatar []byte) error

	// Delete removes the user document and its tokens
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task, assigning an ID when empty
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID without owner scoping
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// FindOwned finds a task by ID that belongs to owner
	FindOwned(ctx context.Context, id, owner string) (*models.Task, error)

	// List retrieves the owner's tasks with filtering, sorting and pagination
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update writes description and completed
	Update(ctx context.Context, task *models.Task) error

	// DeleteOwned finds and removes a task belonging to owner, returning it
	DeleteOwned(ctx context.Context, id, owner string) (*models.Task, error)

	// DeleteByOwner removes every task of owner and returns how many were removed
	DeleteByOwner(ctx context.Context, owner string) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Owner     string
	Completed *bool
	Sort      *SortOption
	Limit     int
	Skip      int
}

// SortOption orders a listing by one canonical field
type SortOption struct {
	Field string
	Desc  bool
}

// Store groups the repositories of one backend.
type Store interface {
	Users() UserRepository
	Tasks() TaskRepository

	// Transaction runs fn against a store bound to one unit of work.
	// Backends without multi-document transactions run fn directly.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// Ping checks connectivity to the backend
	Ping(ctx context.Context) error
}
