package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

func createTask(tasks *taskx.Service) func(context.Context, map[string]any, string) (map[string]any, error) {
	return func(ctx context.Context, args map[string]any, callerID string) (map[string]any, error) {
		title, err := stringArg(args, "title")
		if err != nil {
			return nil, err
		}
		description, err := optionalStringArg(args, "description")
		if err != nil {
			return nil, err
		}
		recurrence, err := optionalStringArg(args, "recurrence")
		if err != nil {
			return nil, err
		}
		deadline, err := deadlineArg(args)
		if err != nil {
			return nil, err
		}

		created, err := tasks.Create(ctx, callerID, taskx.CreateParams{
			Title:       title,
			Description: description,
			Deadline:    deadline,
			Recurrence:  recurrence,
		})
		if err != nil {
			return nil, err
		}
		return taskPayload(created), nil
	}
}

func getAllTasks(tasks *taskx.Service) func(context.Context, map[string]any, string) (map[string]any, error) {
	return func(ctx context.Context, args map[string]any, callerID string) (map[string]any, error) {
		filter, err := optionalStringArg(args, "filter_type")
		if err != nil {
			return nil, err
		}
		if filter == "" {
			filter = "all"
		}

		listed, err := tasks.List(ctx, callerID, taskx.ListQuery{Filter: filter})
		if err != nil {
			return nil, err
		}

		payloads := make([]map[string]any, 0, len(listed))
		for i := range listed {
			payloads = append(payloads, taskPayload(&listed[i]))
		}
		return map[string]any{
			"tasks": payloads,
			"total": len(payloads),
		}, nil
	}
}

func updateTask(tasks *taskx.Service) func(context.Context, map[string]any, string) (map[string]any, error) {
	return func(ctx context.Context, args map[string]any, callerID string) (map[string]any, error) {
		taskID, err := stringArg(args, "task_id")
		if err != nil {
			return nil, err
		}

		var params taskx.UpdateParams
		if _, ok := args["title"]; ok {
			title, err := stringArg(args, "title")
			if err != nil {
				return nil, err
			}
			params.Title = &title
		}
		if _, ok := args["description"]; ok {
			description, err := stringArg(args, "description")
			if err != nil {
				return nil, err
			}
			params.Description = &description
		}
		if raw, ok := args["completed"]; ok {
			completed, ok := raw.(bool)
			if !ok {
				return nil, fmt.Errorf("completed must be a boolean")
			}
			params.Completed = &completed
		}
		if _, ok := args["deadline"]; ok {
			deadline, err := deadlineArg(args)
			if err != nil {
				return nil, err
			}
			params.Deadline = deadline
		}

		updated, err := tasks.Update(ctx, callerID, taskID, params)
		if err != nil {
			return nil, err
		}
		return taskPayload(updated), nil
	}
}

func deleteTask(tasks *taskx.Service) func(context.Context, map[string]any, string) (map[string]any, error) {
	return func(ctx context.Context, args map[string]any, callerID string) (map[string]any, error) {
		taskID, err := stringArg(args, "task_id")
		if err != nil {
			return nil, err
		}
		if err := tasks.Delete(ctx, callerID, taskID); err != nil {
			return nil, err
		}
		return map[string]any{
			"deleted": true,
			"task_id": taskID,
		}, nil
	}
}

func taskPayload(t *taskx.Task) map[string]any {
	payload := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"completed":   t.Completed,
		"created_at":  t.CreatedAt.Format(time.RFC3339),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339),
	}
	if t.Deadline != nil {
		payload["deadline"] = t.Deadline.Format(time.RFC3339)
	}
	if t.Recurrence != "" {
		payload["recurrence"] = t.Recurrence
	}
	return payload
}

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

func optionalStringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return strings.TrimSpace(s), nil
}

func deadlineArg(args map[string]any) (*time.Time, error) {
	raw, err := optionalStringArg(args, "deadline")
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("deadline must be an RFC 3339 timestamp: %v", err)
	}
	utc := parsed.UTC()
	return &utc, nil
}
