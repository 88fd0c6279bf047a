package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"task_tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory domain.TaskRepository used to exercise the service.
type memRepo struct {
	mu     sync.Mutex
	nextID int64
	tasks  map[int64]*domain.Task
	err    error
}

func newMemRepo() *memRepo {
	return &memRepo{tasks: make(map[int64]*domain.Task)}
}

func (m *memRepo) List(_ context.Context, completed *bool) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	res := make([]*domain.Task, 0)
	for id := int64(1); id <= m.nextID; id++ {
		t, ok := m.tasks[id]
		if !ok || (completed != nil && t.Completed != *completed) {
			continue
		}
		res = append(res, t)
	}
	return res, nil
}

func (m *memRepo) Create(_ context.Context, title string, description *string) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.nextID++
	t := &domain.Task{ID: m.nextID, Title: title, Description: description, CreatedAt: time.Now().UTC()}
	m.tasks[t.ID] = t
	return t, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (m *memRepo) Update(_ context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	if patch.Title.Set {
		t.Title = patch.Title.Value
	}
	if patch.Description.Set {
		t.Description = patch.Description.Ptr()
	}
	if patch.Completed.Set {
		t.Completed = patch.Completed.Value
	}
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return t, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memRepo) Ping(context.Context) error { return m.err }

type recorder struct {
	events []domain.TaskEvent
}

func (r *recorder) Publish(ev domain.TaskEvent) { r.events = append(r.events, ev) }

func TestTaskService_PublishesChanges(t *testing.T) {
	rec := &recorder{}
	svc := NewTaskService(newMemRepo(), rec)
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, "A", nil)
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, created.ID, domain.TaskPatch{Completed: domain.Some(true)})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	require.Len(t, rec.events, 3)
	assert.Equal(t, domain.EventTaskCreated, rec.events[0].Type)
	assert.Equal(t, domain.EventTaskUpdated, rec.events[1].Type)
	assert.True(t, rec.events[1].Task.Completed)
	assert.Equal(t, domain.EventTaskDeleted, rec.events[2].Type)
	assert.Nil(t, rec.events[2].Task)
	assert.Equal(t, created.ID, rec.events[2].TaskID)
}

func TestTaskService_NotFoundIsWrapped(t *testing.T) {
	rec := &recorder{}
	svc := NewTaskService(newMemRepo(), rec)
	ctx := context.Background()

	_, err := svc.GetTask(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	_, err = svc.UpdateTask(ctx, 99, domain.TaskPatch{})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, svc.DeleteTask(ctx, 99), domain.ErrTaskNotFound)
	assert.Empty(t, rec.events, "failed operations must not publish")
}

func TestTaskService_StoreError(t *testing.T) {
	repo := newMemRepo()
	repo.err = errors.New("connection refused")
	svc := NewTaskService(repo, nil)

	_, err := svc.ListTasks(context.Background(), nil)
	assert.ErrorContains(t, err, "connection refused")
	assert.Error(t, svc.Ping(context.Background()))
}
