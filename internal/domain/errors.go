package domain

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrNotAuthorized        = errors.New("not authorized to access this project")
	ErrProjectNameTaken     = errors.New("a project with this name already exists for this user")
	ErrTemplateNotFound     = errors.New("message template not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message or template is required")
	ErrMissingPhone         = errors.New("contact has no phone number")
	ErrPersistenceConflict  = errors.New("conversation append conflict")
	ErrInvalidCSV           = errors.New("invalid csv")
	ErrInvalidInput         = errors.New("invalid input")
)

// Models lists every persisted type for auto migration.
func Models() []any {
	return []any{
		&Project{},
		&Contact{},
		&Template{},
		&Conversation{},
		&Message{},
	}
}
