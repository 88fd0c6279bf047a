package service

import (
	"context"
	"fmt"
	"time"

	"task_tracker/internal/domain"
	"task_tracker/internal/logger"
)

// EventPublisher receives committed task changes. Publish must not block.
type EventPublisher interface {
	Publish(ev domain.TaskEvent)
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.TaskEvent) {}

// TaskService is a thin layer over the repository that logs and publishes changes.
type TaskService struct {
	repo   domain.TaskRepository
	events EventPublisher
	now    func() time.Time
}

func NewTaskService(repo domain.TaskRepository, events EventPublisher) *TaskService {
	if events == nil {
		events = noopPublisher{}
	}
	return &TaskService{
		repo:   repo,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *TaskService) ListTasks(ctx context.Context, completed *bool) ([]*domain.Task, error) {
	tasks, err := s.repo.List(ctx, completed)
	if err != nil {
		return nil, fmt.Errorf("service: list tasks: %w", err)
	}
	logger.FromContext(ctx).Debug("tasks listed", "count", len(tasks), "completed_filter", boolAttr(completed))
	return tasks, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	t, err := s.repo.Create(ctx, title, description)
	if err != nil {
		return nil, fmt.Errorf("service: create task: %w", err)
	}
	logger.FromContext(ctx).Info("task created", "id", t.ID)
	s.publish(domain.EventTaskCreated, t.ID, t)
	return t, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: get task: %w", err)
	}
	return t, nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	t, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("service: update task: %w", err)
	}
	logger.FromContext(ctx).Info("task updated", "id", t.ID, "completed", t.Completed)
	s.publish(domain.EventTaskUpdated, t.ID, t)
	return t, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service: delete task: %w", err)
	}
	logger.FromContext(ctx).Info("task deleted", "id", id)
	s.publish(domain.EventTaskDeleted, id, nil)
	return nil
}

// Ping checks that the store is reachable.
func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *TaskService) publish(typ string, id int64, t *domain.Task) {
	s.events.Publish(domain.TaskEvent{Type: typ, TaskID: id, Task: t, At: s.now()})
}

func boolAttr(b *bool) string {
	if b == nil {
		return "none"
	}
	if *b {
		return "true"
	}
	return "false"
}
