package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/aniladanir/campaign-messenger/internal/gateway"
	"github.com/aniladanir/campaign-messenger/internal/metrics"
	"github.com/aniladanir/campaign-messenger/internal/render"
	conversationRepo "github.com/aniladanir/campaign-messenger/internal/repository/conversation"
	projectRepo "github.com/aniladanir/campaign-messenger/internal/repository/project"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultReplyStatus = "received"

type Dispatcher interface {
	Preview(ctx context.Context, projectID uuid.UUID, contacts []domain.Contact, src domain.MessageSource) ([]domain.PreparedMessage, error)
	Dispatch(ctx context.Context, projectID uuid.UUID, contacts []domain.Contact, src domain.MessageSource) ([]domain.DispatchResult, error)
	DispatchConfirmed(ctx context.Context, projectID uuid.UUID, msgs []domain.PreparedMessage) ([]domain.DispatchResult, error)
	RecordReply(ctx context.Context, projectID, contactID uuid.UUID, body, status string) (*domain.Conversation, error)
}

type dispatcher struct {
	projectRepo      projectRepo.Repository
	conversationRepo conversationRepo.Repository
	gateway          gateway.Gateway
	logger           *slog.Logger
	metrics          *metrics.Metrics
	concurrency      int
}

func NewDispatcher(
	projectRepo projectRepo.Repository,
	conversationRepo conversationRepo.Repository,
	gw gateway.Gateway,
	logger *slog.Logger,
	m *metrics.Metrics,
	concurrency int,
) Dispatcher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &dispatcher{
		projectRepo:      projectRepo,
		conversationRepo: conversationRepo,
		gateway:          gw,
		logger:           logger,
		metrics:          m,
		concurrency:      concurrency,
	}
}

// resolveContent returns the text every contact's message is rendered from
func (d *dispatcher) resolveContent(ctx context.Context, projectID uuid.UUID, src domain.MessageSource) (string, error) {
	if src.TemplateID != uuid.Nil {
		tmpl, err := d.projectRepo.GetTemplate(ctx, projectID, src.TemplateID)
		if err != nil {
			return "", err
		}
		return tmpl.Content, nil
	}
	if strings.TrimSpace(src.Message) == "" {
		return "", domain.ErrEmptyMessage
	}
	return src.Message, nil
}

// Preview renders the message for every contact without sending anything
func (d *dispatcher) Preview(ctx context.Context, projectID uuid.UUID, contacts []domain.Contact, src domain.MessageSource) ([]domain.PreparedMessage, error) {
	if _, err := d.projectRepo.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	content, err := d.resolveContent(ctx, projectID, src)
	if err != nil {
		return nil, err
	}

	prepared := make([]domain.PreparedMessage, 0, len(contacts))
	for _, c := range contacts {
		prepared = append(prepared, domain.PreparedMessage{
			Phone:     c.Phone,
			Body:      render.Expand(content, c.FieldMap()),
			ContactID: c.ID,
			ProjectID: projectID,
		})
	}
	return prepared, nil
}

// Dispatch renders and sends the message to every contact. Per-contact failures
// are reported in the results, which keep the order of contacts.
func (d *dispatcher) Dispatch(ctx context.Context, projectID uuid.UUID, contacts []domain.Contact, src domain.MessageSource) ([]domain.DispatchResult, error) {
	project, err := d.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	content, err := d.resolveContent(ctx, projectID, src)
	if err != nil {
		return nil, err
	}

	d.logger.Info("dispatching messages", "projectId", projectID.String(), "contacts", len(contacts))

	return d.fanOut(ctx, len(contacts), func(batchCtx context.Context, i int) domain.DispatchResult {
		c := contacts[i]
		return d.send(batchCtx, project, c.ID, c.Phone, render.Expand(content, c.FieldMap()))
	}), nil
}

// DispatchConfirmed sends previously previewed messages as they are. Messages
// whose contact is not part of the project fail individually.
func (d *dispatcher) DispatchConfirmed(ctx context.Context, projectID uuid.UUID, msgs []domain.PreparedMessage) ([]domain.DispatchResult, error) {
	project, err := d.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	d.logger.Info("dispatching confirmed messages", "projectId", projectID.String(), "messages", len(msgs))

	return d.fanOut(ctx, len(msgs), func(batchCtx context.Context, i int) domain.DispatchResult {
		msg := msgs[i]
		if msg.ProjectID != uuid.Nil && msg.ProjectID != projectID {
			return d.fail(msg.ContactID, msg.Phone, msg.Body, domain.ErrNotAuthorized)
		}
		if _, err := d.projectRepo.GetContact(batchCtx, projectID, msg.ContactID); err != nil {
			return d.fail(msg.ContactID, msg.Phone, msg.Body, err)
		}
		return d.send(batchCtx, project, msg.ContactID, msg.Phone, msg.Body)
	}), nil
}

// fanOut runs fn for indexes [0, n) with bounded concurrency. The batch is
// detached from ctx cancellation so every item completes or fails on its own.
func (d *dispatcher) fanOut(ctx context.Context, n int, fn func(ctx context.Context, i int) domain.DispatchResult) []domain.DispatchResult {
	results := make([]domain.DispatchResult, n)
	batchCtx := context.WithoutCancel(ctx)

	g := new(errgroup.Group)
	g.SetLimit(d.concurrency)
	for i := range n {
		g.Go(func() error {
			results[i] = fn(batchCtx, i)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (d *dispatcher) fail(contactID uuid.UUID, phone, body string, reason error) domain.DispatchResult {
	d.logger.Error("message not sent",
		slog.String("contactId", contactID.String()),
		slog.String("phone", phone),
		slog.String("reason", reason.Error()),
	)
	return domain.DispatchResult{
		ContactID:    contactID,
		Phone:        phone,
		RenderedBody: body,
		Outcome:      domain.OutcomeFailed,
		Reason:       reason.Error(),
	}
}

func (d *dispatcher) send(ctx context.Context, project *domain.Project, contactID uuid.UUID, phone, body string) domain.DispatchResult {
	if strings.TrimSpace(phone) == "" {
		return d.fail(contactID, phone, body, domain.ErrMissingPhone)
	}

	sendLogger := d.logger.With(
		slog.String("projectId", project.ID.String()),
		slog.String("contactId", contactID.String()),
		slog.String("phone", phone),
	)

	start := time.Now()
	res, err := d.gateway.Send(ctx, gateway.SMS{
		From: project.OriginationNumber,
		To:   phone,
		Body: body,
	})
	if err != nil {
		d.metrics.ObserveSend(string(domain.OutcomeFailed), time.Since(start))
		sendLogger.Error("failed to send message", "error", err.Error())
		return domain.DispatchResult{
			ContactID:    contactID,
			Phone:        phone,
			RenderedBody: body,
			Outcome:      domain.OutcomeFailed,
			Reason:       err.Error(),
		}
	}
	d.metrics.ObserveSend(string(domain.OutcomeSent), time.Since(start))

	result := domain.DispatchResult{
		ContactID:         contactID,
		Phone:             phone,
		RenderedBody:      body,
		Outcome:           domain.OutcomeSent,
		ProviderMessageID: res.MessageID,
		Status:            res.Status,
	}

	_, err = d.conversationRepo.Append(ctx, project.ID, contactID, domain.Message{
		Body:              body,
		Direction:         domain.DirectionOutbound,
		Status:            res.Status,
		ProviderMessageID: res.MessageID,
		Timestamp:         time.Now().UTC(),
	})
	if err != nil {
		// the message already left, so the result stays sent
		sendLogger.Error("message sent but could not be recorded", "providerMessageId", res.MessageID, "error", err.Error())
		result.RecordError = err.Error()
		return result
	}

	sendLogger.Debug("message sent", "providerMessageId", res.MessageID, "status", res.Status)
	return result
}

// RecordReply appends an inbound message from the contact to its conversation
func (d *dispatcher) RecordReply(ctx context.Context, projectID, contactID uuid.UUID, body, status string) (*domain.Conversation, error) {
	if strings.TrimSpace(body) == "" {
		return nil, domain.ErrEmptyMessage
	}
	if _, err := d.projectRepo.GetContact(ctx, projectID, contactID); err != nil {
		return nil, err
	}
	if status == "" {
		status = defaultReplyStatus
	}

	conv, err := d.conversationRepo.Append(ctx, projectID, contactID, domain.Message{
		Body:      body,
		Direction: domain.DirectionInbound,
		Status:    status,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record reply: %w", err)
	}
	return conv, nil
}
