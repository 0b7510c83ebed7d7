package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	conversationRepo "github.com/aniladanir/campaign-messenger/internal/repository/conversation"
	projectRepo "github.com/aniladanir/campaign-messenger/internal/repository/project"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ConversationView is a conversation as shown in the inbox.
type ConversationView struct {
	domain.Conversation
	Phone string      `json:"phone"`
	Turn  domain.Turn `json:"turn"`
}

var reportHeader = []string{"Contact Name", "Last Message", "Last Message Status", "Last Updated At"}

type ProjectService interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	ListProjects(ctx context.Context, userID string) ([]domain.Project, error)
	Authorize(ctx context.Context, userID string, projectID uuid.UUID) (*domain.Project, error)

	ImportContacts(ctx context.Context, projectID uuid.UUID, r io.Reader) ([]domain.Contact, error)
	ListContacts(ctx context.Context, projectID uuid.UUID) ([]domain.Contact, error)
	ResolveContacts(ctx context.Context, projectID uuid.UUID, contactIDs []uuid.UUID) ([]domain.Contact, error)

	CreateTemplate(ctx context.Context, t *domain.Template) error
	ListTemplates(ctx context.Context, projectID uuid.UUID) ([]domain.Template, error)

	ListConversations(ctx context.Context, projectID uuid.UUID) ([]ConversationView, error)
	WriteReport(ctx context.Context, projectID uuid.UUID, w io.Writer) error
	Overview(ctx context.Context, userID string) (domain.Overview, error)
}

type projectService struct {
	projectRepo      projectRepo.Repository
	conversationRepo conversationRepo.Repository
	logger           *slog.Logger
}

func NewProjectService(projectRepo projectRepo.Repository, conversationRepo conversationRepo.Repository, logger *slog.Logger) ProjectService {
	return &projectService{
		projectRepo:      projectRepo,
		conversationRepo: conversationRepo,
		logger:           logger,
	}
}

func (s *projectService) CreateProject(ctx context.Context, p *domain.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: project name is required", domain.ErrInvalidInput)
	}
	if p.UserID == "" {
		return domain.ErrNotAuthorized
	}
	if err := s.projectRepo.CreateProject(ctx, p); err != nil {
		return err
	}
	s.logger.Info("project created", "projectId", p.ID.String(), "userId", p.UserID)
	return nil
}

func (s *projectService) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.projectRepo.ListProjects(ctx, userID)
}

// Authorize returns the project when it is owned by userID
func (s *projectService) Authorize(ctx context.Context, userID string, projectID uuid.UUID) (*domain.Project, error) {
	p, err := s.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, domain.ErrNotAuthorized
	}
	return p, nil
}

// ImportContacts reads a csv with a header row and stores one contact per row.
// phone, fname, lname and surveyLink columns fill the named fields, a metaData
// column holding a json object is merged into the extension fields and every
// other column is stored there verbatim.
func (s *projectService) ImportContacts(ctx context.Context, projectID uuid.UUID, r io.Reader) ([]domain.Contact, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: missing header row", domain.ErrInvalidCSV)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCSV, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	importLogger := s.logger.With(slog.String("projectId", projectID.String()))

	contacts := make([]domain.Contact, 0)
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCSV, err)
		}

		c := domain.Contact{
			ProjectID: projectID,
			ImportRow: row,
		}
		fields := datatypes.JSONMap{}
		for i, col := range header {
			val := record[i]
			switch col {
			case "phone":
				c.Phone = strings.TrimSpace(val)
			case "fname":
				c.FName = val
			case "lname":
				c.LName = val
			case "surveyLink":
				c.SurveyLink = val
			case "metaData":
				if strings.TrimSpace(val) == "" {
					continue
				}
				var meta map[string]any
				if err := json.Unmarshal([]byte(val), &meta); err != nil {
					importLogger.Warn("ignoring invalid metaData", "row", row, "error", err.Error())
					continue
				}
				for k, v := range meta {
					fields[k] = v
				}
			default:
				if col == "" {
					continue
				}
				fields[col] = val
			}
		}
		if len(fields) > 0 {
			c.Fields = fields
		}
		contacts = append(contacts, c)
	}

	if err := s.projectRepo.CreateContacts(ctx, contacts); err != nil {
		return nil, err
	}

	importLogger.Info("contacts imported", "count", len(contacts))
	return contacts, nil
}

func (s *projectService) ListContacts(ctx context.Context, projectID uuid.UUID) ([]domain.Contact, error) {
	return s.projectRepo.ListContacts(ctx, projectID)
}

// ResolveContacts returns the selected contacts of the project in the order
// requested, or all of them in import order when contactIDs is empty.
func (s *projectService) ResolveContacts(ctx context.Context, projectID uuid.UUID, contactIDs []uuid.UUID) ([]domain.Contact, error) {
	all, err := s.projectRepo.ListContacts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(contactIDs) == 0 {
		return all, nil
	}

	byID := make(map[uuid.UUID]domain.Contact, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	selected := make([]domain.Contact, 0, len(contactIDs))
	for _, id := range contactIDs {
		c, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrContactNotFound, id)
		}
		selected = append(selected, c)
	}
	return selected, nil
}

func (s *projectService) CreateTemplate(ctx context.Context, t *domain.Template) error {
	if t.Kind == "" {
		t.Kind = domain.TemplateInitial
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown template kind %q", domain.ErrInvalidInput, t.Kind)
	}
	if strings.TrimSpace(t.Content) == "" {
		return fmt.Errorf("%w: template content is required", domain.ErrInvalidInput)
	}
	return s.projectRepo.CreateTemplate(ctx, t)
}

func (s *projectService) ListTemplates(ctx context.Context, projectID uuid.UUID) ([]domain.Template, error) {
	return s.projectRepo.ListTemplates(ctx, projectID)
}

func (s *projectService) contactsByID(ctx context.Context, projectID uuid.UUID) (map[uuid.UUID]domain.Contact, error) {
	contacts, err := s.projectRepo.ListContacts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	return byID, nil
}

// ListConversations returns the project's conversations, most recently updated first
func (s *projectService) ListConversations(ctx context.Context, projectID uuid.UUID) ([]ConversationView, error) {
	convs, err := s.conversationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactsByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	views := make([]ConversationView, 0, len(convs))
	for _, conv := range convs {
		views = append(views, ConversationView{
			Conversation: conv,
			Phone:        contacts[conv.ContactID].Phone,
			Turn:         conv.Turn(),
		})
	}
	return views, nil
}

// WriteReport writes one csv line per conversation with its latest message.
// Conversations without messages are left out.
func (s *projectService) WriteReport(ctx context.Context, projectID uuid.UUID, w io.Writer) error {
	convs, err := s.conversationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return err
	}
	contacts, err := s.contactsByID(ctx, projectID)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return err
	}
	for _, conv := range convs {
		last := conv.LastMessage()
		if last == nil {
			continue
		}
		contact := contacts[conv.ContactID]
		if err := cw.Write([]string{
			contact.DisplayName(),
			last.Body,
			last.Status,
			conv.UpdatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Overview totals the user's projects, contacts, conversations and messages
func (s *projectService) Overview(ctx context.Context, userID string) (domain.Overview, error) {
	projects, err := s.projectRepo.ListProjects(ctx, userID)
	if err != nil {
		return domain.Overview{}, err
	}

	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}

	contacts, err := s.projectRepo.CountContacts(ctx, ids)
	if err != nil {
		return domain.Overview{}, err
	}
	conversations, messages, err := s.conversationRepo.Totals(ctx, ids)
	if err != nil {
		return domain.Overview{}, err
	}

	return domain.Overview{
		TotalProjects:      int64(len(projects)),
		TotalContacts:      contacts,
		TotalConversations: conversations,
		TotalMessages:      messages,
	}, nil
}
