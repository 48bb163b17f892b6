package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-manager-api/internal/models"
)

// Observer times a store operation and records its outcome.
type Observer interface {
	ObserveStore(op string, fn func() error) error
}

// ObservedStore reports every repository call of the wrapped Store to an Observer.
type ObservedStore struct {
	inner Store
	obs   Observer
}

// NewObservedStore wraps inner; a nil observer returns inner unchanged.
func NewObservedStore(inner Store, obs Observer) Store {
	if obs == nil {
		return inner
	}
	return &ObservedStore{inner: inner, obs: obs}
}

func (s *ObservedStore) Users() UserRepository {
	return &observedUsers{inner: s.inner.Users(), obs: s.obs}
}

func (s *ObservedStore) Tasks() TaskRepository {
	return &observedTasks{inner: s.inner.Tasks(), obs: s.obs}
}

func (s *ObservedStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return observe(s.obs, "transaction", func() error {
		return s.inner.Transaction(ctx, func(tx Store) error {
			return fn(&ObservedStore{inner: tx, obs: s.obs})
		})
	})
}

func (s *ObservedStore) Ping(ctx context.Context) error {
	return observe(s.obs, "ping", func() error {
		return s.inner.Ping(ctx)
	})
}

// observe runs fn under op. A missing record is an expected answer, not a failure.
func observe(obs Observer, op string, fn func() error) error {
	var err error
	_ = obs.ObserveStore(op, func() error {
		err = fn()
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	})
	return err
}

type observedUsers struct {
	inner UserRepository
	obs   Observer
}

func (r *observedUsers) Create(ctx context.Context, user *models.User) error {
	return observe(r.obs, "user.create", func() error {
		return r.inner.Create(ctx, user)
	})
}

func (r *observedUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user *models.User
	err := observe(r.obs, "user.find_by_id", func() (err error) {
		user, err = r.inner.FindByID(ctx, id)
		return err
	})
	return user, err
}

func (r *observedUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := observe(r.obs, "user.find_by_email", func() (err error) {
		user, err = r.inner.FindByEmail(ctx, email)
		return err
	})
	return user, err
}

func (r *observedUsers) FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	var user *models.User
	err := observe(r.obs, "user.find_by_token", func() (err error) {
		user, err = r.inner.FindByIDAndToken(ctx, id, token)
		return err
	})
	return user, err
}

func (r *observedUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	return observe(r.obs, "user.update_profile", func() error {
		return r.inner.UpdateProfile(ctx, user)
	})
}

func (r *observedUsers) AddToken(ctx context.Context, userID, token string) error {
	return observe(r.obs, "user.add_token", func() error {
		return r.inner.AddToken(ctx, userID, token)
	})
}

func (r *observedUsers) RemoveToken(ctx context.Context, userID, token string) error {
	return observe(r.obs, "user.remove_token", func() error {
		return r.inner.RemoveToken(ctx, userID, token)
	})
}

func (r *observedUsers) ClearTokens(ctx context.Context, userID string) error {
	return observe(r.obs, "user.clear_tokens", func() error {
		return r.inner.ClearTokens(ctx, userID)
	})
}

func (r *observedUsers) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	return observe(r.obs, "user.set_avatar", func() error {
		return r.inner.SetAvatar(ctx, userID, avatar)
	})
}

func (r *observedUsers) Delete(ctx context.Context, id string) error {
	return observe(r.obs, "user.delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}

type observedTasks struct {
	inner TaskRepository
	obs   Observer
}

func (r *observedTasks) Create(ctx context.Context, task *models.Task) error {
	return observe(r.obs, "task.create", func() error {
		return r.inner.Create(ctx, task)
	})
}

func (r *observedTasks) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task *models.Task
	err := observe(r.obs, "task.find_by_id", func() (err error) {
		task, err = r.inner.FindByID(ctx, id)
		return err
	})
	return task, err
}

func (r *observedTasks) FindOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	var task *models.Task
	err := observe(r.obs, "task.find_owned", func() (err error) {
		task, err = r.inner.FindOwned(ctx, id, owner)
		return err
	})
	return task, err
}

func (r *observedTasks) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task
	err := observe(r.obs, "task.list", func() (err error) {
		tasks, err = r.inner.List(ctx, filter)
		return err
	})
	return tasks, err
}

func (r *observedTasks) Update(ctx context.Context, task *models.Task) error {
	return observe(r.obs, "task.update", func() error {
		return r.inner.Update(ctx, task)
	})
}

func (r *observedTasks) DeleteOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	var task *models.Task
	err := observe(r.obs, "task.delete_owned", func() (err error) {
		task, err = r.inner.DeleteOwned(ctx, id, owner)
		return err
	})
	return task, err
}

func (r *observedTasks) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	var n int64
	err := observe(r.obs, "task.delete_by_owner", func() (err error) {
		n, err = r.inner.DeleteByOwner(ctx, owner)
		return err
	})
	return n, err
}
