package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/aniladanir/campaign-messenger/internal/metrics"
	"github.com/aniladanir/retry"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendHook runs after a message has been durably appended to one of the
// project's conversations.
type AppendHook func(ctx context.Context, projectID uuid.UUID)

type Repository interface {
	FindByProjectAndContact(ctx context.Context, projectID, contactID uuid.UUID) (*domain.Conversation, error)
	Append(ctx context.Context, projectID, contactID uuid.UUID, msg domain.Message) (*domain.Conversation, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Conversation, error)
	CountMessages(ctx context.Context, projectID uuid.UUID, deliveredStatus string) (domain.Statistics, error)
	Totals(ctx context.Context, projectIDs []uuid.UUID) (conversations, messages int64, err error)
	OnAppend(hook AppendHook)
}

type repo struct {
	db      *gorm.DB
	retrier *retry.Retrier
	logger  *slog.Logger
	metrics *metrics.Metrics

	hooksMtx sync.RWMutex
	hooks    []AppendHook
}

func NewConversationRepository(db *gorm.DB, logger *slog.Logger, m *metrics.Metrics, maxRetryOnConflict *int) (Repository, error) {
	// initialize retrier
	retrierOpts := make([]retry.Option, 0)
	if maxRetryOnConflict != nil {
		retrierOpts = append(retrierOpts, retry.WithMaxAttemps(*maxRetryOnConflict))
	}
	retrier, err := retry.New(retrierOpts...)
	if err != nil {
		return nil, fmt.Errorf("encountered error when initializing retrier: %w", err)
	}

	return &repo{
		db:      db,
		retrier: retrier,
		logger:  logger,
		metrics: m,
	}, nil
}

func orderBySeq(db *gorm.DB) *gorm.DB {
	return db.Order("seq ASC")
}

// FindByProjectAndContact returns the conversation of the pair with its messages oldest first
func (r *repo) FindByProjectAndContact(ctx context.Context, projectID, contactID uuid.UUID) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", orderBySeq).
		Where("project_id = ? AND contact_id = ?", projectID, contactID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// Append adds msg to the end of the pair's conversation, creating the conversation
// first when it does not exist. Unique key conflicts are retried.
func (r *repo) Append(ctx context.Context, projectID, contactID uuid.UUID, msg domain.Message) (*domain.Conversation, error) {
	appendLogger := r.logger.With(
		slog.String("projectId", projectID.String()),
		slog.String("contactId", contactID.String()),
	)

	var (
		conv      *domain.Conversation
		appendErr error
	)
	retryFunc := func(attempt int) (terminate bool) {
		conv, appendErr = r.appendOnce(ctx, projectID, contactID, msg)
		if errors.Is(appendErr, gorm.ErrDuplicatedKey) {
			appendLogger.Warn("conversation append conflicted", "attempt", attempt)
			r.metrics.AppendConflict()
			return false
		}
		return true
	}

	if ok := <-r.retrier.Retry(ctx, retryFunc, true); !ok {
		if appendErr == nil {
			appendErr = ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceConflict, appendErr)
	}
	if appendErr != nil {
		return nil, appendErr
	}

	r.metrics.Appended(string(msg.Direction))
	appendLogger.Debug("conversation updated", "messages", len(conv.Messages))

	r.hooksMtx.RLock()
	hooks := r.hooks
	r.hooksMtx.RUnlock()
	// the append is committed, so hooks must run even if the caller went away
	hookCtx := context.WithoutCancel(ctx)
	for _, hook := range hooks {
		hook(hookCtx, projectID)
	}

	return conv, nil
}

func (r *repo) appendOnce(ctx context.Context, projectID, contactID uuid.UUID, msg domain.Message) (*domain.Conversation, error) {
	now := time.Now().UTC()
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now
	}

	var conv domain.Conversation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Get-or-create in a single statement. The conflict branch updates the
		// row, which keeps it locked until commit, so concurrent appends to the
		// same pair are serialized from here on.
		seed := domain.Conversation{
			ID:        uuid.New(),
			ProjectID: projectID,
			ContactID: contactID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "project_id"}, {Name: "contact_id"}},
			DoUpdates: clause.Assignments(map[string]any{"updated_at": now}),
		}).Create(&seed).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ? AND contact_id = ?", projectID, contactID).First(&conv).Error; err != nil {
			return err
		}

		var seq int64
		if err := tx.Model(&domain.Message{}).Where("conversation_id = ?", conv.ID).Count(&seq).Error; err != nil {
			return err
		}

		msg.ID = 0
		msg.ConversationID = conv.ID
		msg.Seq = int(seq)
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}

		return tx.Preload("Messages", orderBySeq).First(&conv, "id = ?", conv.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// ListByProject returns the project's conversations, most recently updated first
func (r *repo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Conversation, error) {
	var convs []domain.Conversation
	err := r.db.WithContext(ctx).
		Preload("Messages", orderBySeq).
		Where("project_id = ?", projectID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// CountMessages classifies every message of the project in one aggregate query
func (r *repo) CountMessages(ctx context.Context, projectID uuid.UUID, deliveredStatus string) (domain.Statistics, error) {
	outbound := string(domain.DirectionOutbound)
	inbound := string(domain.DirectionInbound)

	var stats domain.Statistics
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Select(`COALESCE(SUM(CASE WHEN conversation_messages.direction = ? THEN 1 ELSE 0 END), 0) AS total_sent,
			COALESCE(SUM(CASE WHEN conversation_messages.direction = ? AND conversation_messages.status = ? THEN 1 ELSE 0 END), 0) AS total_delivered,
			COALESCE(SUM(CASE WHEN conversation_messages.direction = ? THEN 1 ELSE 0 END), 0) AS total_received`,
			outbound, outbound, deliveredStatus, inbound).
		Joins("JOIN conversations ON conversations.id = conversation_messages.conversation_id").
		Where("conversations.project_id = ?", projectID).
		Scan(&stats).Error
	return stats, err
}

// Totals counts conversations and messages across the given projects
func (r *repo) Totals(ctx context.Context, projectIDs []uuid.UUID) (conversations, messages int64, err error) {
	if len(projectIDs) == 0 {
		return 0, 0, nil
	}

	db := r.db.WithContext(ctx)
	if err = db.Model(&domain.Conversation{}).Where("project_id IN ?", projectIDs).Count(&conversations).Error; err != nil {
		return
	}
	err = db.Model(&domain.Message{}).
		Joins("JOIN conversations ON conversations.id = conversation_messages.conversation_id").
		Where("conversations.project_id IN ?", projectIDs).
		Count(&messages).Error
	return
}

// OnAppend registers a hook that runs after every successful append
func (r *repo) OnAppend(hook AppendHook) {
	r.hooksMtx.Lock()
	defer r.hooksMtx.Unlock()
	r.hooks = append(r.hooks, hook)
}
