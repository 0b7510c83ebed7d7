package domain

import "github.com/google/uuid"

// MessageSource selects what to send: a stored template when TemplateID is
// set, otherwise the literal Message.
type MessageSource struct {
	TemplateID uuid.UUID
	Message    string
}

// PreparedMessage is a rendered message awaiting confirmation. Field names
// follow the wire format of the confirm/dispatch endpoints.
type PreparedMessage struct {
	Phone     string    `json:"phone"`
	Body      string    `json:"message"`
	ContactID uuid.UUID `json:"contactId"`
	ProjectID uuid.UUID `json:"projectId"`
}

type Outcome string

const (
	OutcomeSent   Outcome = "sent"
	OutcomeFailed Outcome = "failed"
)

// DispatchResult is the per-contact outcome of a send. ProviderMessageID and
// Status are set for sent messages, Reason for failed ones. RecordError is set
// when the send succeeded but the conversation could not be updated.
type DispatchResult struct {
	ContactID         uuid.UUID `json:"contactId"`
	Phone             string    `json:"phone"`
	RenderedBody      string    `json:"renderedBody"`
	Outcome           Outcome   `json:"outcome"`
	ProviderMessageID string    `json:"providerMessageId,omitempty"`
	Status            string    `json:"status,omitempty"`
	Reason            string    `json:"reason,omitempty"`
	RecordError       string    `json:"recordError,omitempty"`
}

// Statistics is a point-in-time rollup of a project's messages.
type Statistics struct {
	TotalSent      int64 `json:"totalMessagesSent"`
	TotalDelivered int64 `json:"totalMessagesDelivered"`
	TotalReceived  int64 `json:"totalResponsesReceived"`
}
