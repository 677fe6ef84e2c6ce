package tool

import (
	"context"

	"github.com/cloudwego/eino/schema"

	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

const (
	ToolCreateTask  = "create_task"
	ToolGetAllTasks = "get_all_tasks"
	ToolUpdateTask  = "update_task"
	ToolDeleteTask  = "delete_task"
)

// Operation is one registered side-effecting tool. Run receives the caller
// identity out-of-band; it is never read from model-supplied arguments.
type Operation struct {
	Info     *schema.ToolInfo
	Required []string
	Run      func(ctx context.Context, args map[string]any, callerID string) (map[string]any, error)
}

// Registry maps tool names to operations with typed argument contracts.
type Registry struct {
	ops   map[string]Operation
	order []string
}

// NewRegistry builds the task-management catalog: exactly four operations.
func NewRegistry(tasks *taskx.Service) *Registry {
	r := &Registry{ops: make(map[string]Operation, 4)}

	r.register(Operation{
		Info: &schema.ToolInfo{
			Name: ToolCreateTask,
			Desc: "Create a new task with a title, optional description, deadline, and recurrence.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"title":       {Type: schema.String, Desc: "Task title", Required: true},
				"description": {Type: schema.String, Desc: "Task description"},
				"deadline":    {Type: schema.String, Desc: "Deadline as RFC 3339 timestamp"},
				"recurrence":  {Type: schema.String, Desc: "Recurrence pattern, e.g. daily or weekly"},
			}),
		},
		Required: []string{"title"},
		Run:      createTask(tasks),
	})

	r.register(Operation{
		Info: &schema.ToolInfo{
			Name: ToolGetAllTasks,
			Desc: "List the caller's tasks, optionally filtered by status.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"filter_type": {Type: schema.String, Desc: "One of all, complete, incomplete, overdue"},
			}),
		},
		Run: getAllTasks(tasks),
	})

	r.register(Operation{
		Info: &schema.ToolInfo{
			Name: ToolUpdateTask,
			Desc: "Update a task's title, description, completion status, or deadline.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"task_id":     {Type: schema.String, Desc: "Task identifier", Required: true},
				"title":       {Type: schema.String, Desc: "New title"},
				"description": {Type: schema.String, Desc: "New description"},
				"completed":   {Type: schema.Boolean, Desc: "Completion status"},
				"deadline":    {Type: schema.String, Desc: "New deadline as RFC 3339 timestamp"},
			}),
		},
		Required: []string{"task_id"},
		Run:      updateTask(tasks),
	})

	r.register(Operation{
		Info: &schema.ToolInfo{
			Name: ToolDeleteTask,
			Desc: "Permanently delete a task.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"task_id": {Type: schema.String, Desc: "Task identifier", Required: true},
			}),
		},
		Required: []string{"task_id"},
		Run:      deleteTask(tasks),
	})

	return r
}

func (r *Registry) register(op Operation) {
	r.ops[op.Info.Name] = op
	r.order = append(r.order, op.Info.Name)
}

// Lookup returns the operation registered under name.
func (r *Registry) Lookup(name string) (Operation, bool) {
	op, ok := r.ops[name]
	return op, ok
}

// Infos returns the tool contracts in registration order.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.ops[name].Info)
	}
	return infos
}

// Len reports how many operations are registered.
func (r *Registry) Len() int {
	return len(r.ops)
}
