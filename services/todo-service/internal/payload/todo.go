package payload

import "github.com/vasapolrittideah/todo-api/services/todo-service/internal/model"

type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest lists every field a client may change. Completed is
// decoded loosely so that any non-boolean value counts as not completed.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed any     `json:"completed"`
}

// IsCompleted reports whether the request asks for the todo to be completed.
func (r UpdateTodoRequest) IsCompleted() bool {
	completed, ok := r.Completed.(bool)
	return ok && completed
}

// TodoResponse renders CompletedAt as milliseconds since the Unix epoch.
type TodoResponse struct {
	ID          string `json:"_id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
	CreatedBy   string `json:"_createdBy"`
}

type TodoEnvelope struct {
	Todo TodoResponse `json:"todo"`
}

type TodoListResponse struct {
	Todos []TodoResponse `json:"todos"`
}

func NewTodoResponse(todo *model.Todo) TodoResponse {
	resp := TodoResponse{
		ID:        todo.ID.Hex(),
		Text:      todo.Text,
		Completed: todo.Completed,
		CreatedBy: todo.CreatedBy.Hex(),
	}
	if todo.CompletedAt != nil {
		ms := todo.CompletedAt.UnixMilli()
		resp.CompletedAt = &ms
	}

	return resp
}

func NewTodoListResponse(todos []*model.Todo) TodoListResponse {
	resp := TodoListResponse{Todos: make([]TodoResponse, 0, len(todos))}
	for _, todo := range todos {
		resp.Todos = append(resp.Todos, NewTodoResponse(todo))
	}

	return resp
}
