package repository

import (
	"context"
	"errors"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string) ([]domain.Project, error)

	CreateContacts(ctx context.Context, contacts []domain.Contact) error
	ListContacts(ctx context.Context, projectID uuid.UUID) ([]domain.Contact, error)
	GetContact(ctx context.Context, projectID, contactID uuid.UUID) (*domain.Contact, error)
	CountContacts(ctx context.Context, projectIDs []uuid.UUID) (int64, error)

	CreateTemplate(ctx context.Context, t *domain.Template) error
	GetTemplate(ctx context.Context, projectID, templateID uuid.UUID) (*domain.Template, error)
	ListTemplates(ctx context.Context, projectID uuid.UUID) ([]domain.Template, error)
}

type repo struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) Repository {
	return &repo{db: db}
}

// CreateProject inserts the project if its owner has no project with the same name.
// The unique index on (user_id, name) closes the window between check and insert.
func (r *repo) CreateProject(ctx context.Context, p *domain.Project) error {
	db := r.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&domain.Project{}).
		Where("user_id = ? AND name = ?", p.UserID, p.Name).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return domain.ErrProjectNameTaken
	}

	err := db.Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrProjectNameTaken
	}
	return err
}

func (r *repo) GetProject(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) ListProjects(ctx context.Context, userID string) ([]domain.Project, error) {
	var projects []domain.Project
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// CreateContacts bulk inserts contacts in batches
func (r *repo) CreateContacts(ctx context.Context, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(contacts, 500).Error
}

// ListContacts returns the project's contacts in import order
func (r *repo) ListContacts(ctx context.Context, projectID uuid.UUID) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC, import_row ASC").Find(&contacts).Error
	return contacts, err
}

func (r *repo) GetContact(ctx context.Context, projectID, contactID uuid.UUID) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.WithContext(ctx).First(&c, "id = ? AND project_id = ?", contactID, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) CountContacts(ctx context.Context, projectIDs []uuid.UUID) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).Where("project_id IN ?", projectIDs).Count(&n).Error
	return n, err
}

func (r *repo) CreateTemplate(ctx context.Context, t *domain.Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// GetTemplate looks the template up within the project; templates of other
// projects are reported as not found.
func (r *repo) GetTemplate(ctx context.Context, projectID, templateID uuid.UUID) (*domain.Template, error) {
	var t domain.Template
	err := r.db.WithContext(ctx).First(&t, "id = ? AND project_id = ?", templateID, projectID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) ListTemplates(ctx context.Context, projectID uuid.UUID) ([]domain.Template, error) {
	var templates []domain.Template
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at ASC").Find(&templates).Error
	return templates, err
}
