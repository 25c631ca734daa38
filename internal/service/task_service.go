package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"ai-concierge-be/internal/dto"
	"ai-concierge-be/internal/repository/implementation"
)

// ITaskService exposes the persisted action results.
type ITaskService interface {
	GetTasks(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error)
}

type taskService struct {
	taskRepo implementation.ITaskRepository
}

func NewTaskService(taskRepo implementation.ITaskRepository) ITaskService {
	return &taskService{taskRepo: taskRepo}
}

func (ts *taskService) GetTasks(ctx context.Context, userId uuid.UUID) ([]*dto.TaskResponse, error) {
	tasks, err := ts.taskRepo.FindByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		var payload interface{}
		if len(task.Payload) > 0 {
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				payload = nil
			}
		}
		response = append(response, &dto.TaskResponse{
			Id:        task.Id,
			SessionId: task.ChatSessionId,
			Intent:    task.Intent,
			Success:   task.Success,
			Message:   task.Message,
			Payload:   payload,
			CreatedAt: task.CreatedAt,
		})
	}
	return response, nil
}
