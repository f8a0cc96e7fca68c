package store

// Action names a mutation reported to observers.
type Action string

// Mutation actions.
const (
	ActionAdd             Action = "add"
	ActionDelete          Action = "delete"
	ActionComplete        Action = "complete"
	ActionDeleteCompleted Action = "delete-completed"
	ActionUndo            Action = "undo"
	ActionEdit            Action = "edit"
)

// Event describes one applied mutation.
type Event struct {
	Action Action
	TaskID string
	Title  string
}
