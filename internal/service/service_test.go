package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/aniladanir/campaign-messenger/internal/domain"
	"github.com/aniladanir/campaign-messenger/internal/gateway"
	conversationRepo "github.com/aniladanir/campaign-messenger/internal/repository/conversation"
	projectRepo "github.com/aniladanir/campaign-messenger/internal/repository/project"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGateway struct {
	mtx     sync.Mutex
	sent    []gateway.SMS
	failFor map[string]error
	status  string
}

func (g *fakeGateway) Send(ctx context.Context, msg gateway.SMS) (gateway.SendResult, error) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	if err, ok := g.failFor[msg.To]; ok {
		return gateway.SendResult{}, err
	}
	g.sent = append(g.sent, msg)

	status := g.status
	if status == "" {
		status = "queued"
	}
	return gateway.SendResult{MessageID: fmt.Sprintf("SM%d", len(g.sent)), Status: status}, nil
}

func (g *fakeGateway) sentTo(phone string) []gateway.SMS {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	var out []gateway.SMS
	for _, m := range g.sent {
		if m.To == phone {
			out = append(out, m)
		}
	}
	return out
}

func (g *fakeGateway) count() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return len(g.sent)
}

type testEnv struct {
	projects      projectRepo.Repository
	conversations conversationRepo.Repository
	gateway       *fakeGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(domain.Models()...))

	maxRetry := 5
	convs, err := conversationRepo.NewConversationRepository(db, slog.Default(), nil, &maxRetry)
	require.NoError(t, err)

	return &testEnv{
		projects:      projectRepo.NewProjectRepository(db),
		conversations: convs,
		gateway:       &fakeGateway{failFor: map[string]error{}},
	}
}

func (e *testEnv) project(t *testing.T, userID, name string) *domain.Project {
	t.Helper()

	p := &domain.Project{UserID: userID, Name: name}
	require.NoError(t, e.projects.CreateProject(context.Background(), p))
	return p
}

func (e *testEnv) contacts(t *testing.T, projectID uuid.UUID, contacts ...domain.Contact) []domain.Contact {
	t.Helper()

	for i := range contacts {
		contacts[i].ProjectID = projectID
		contacts[i].ImportRow = i + 1
	}
	require.NoError(t, e.projects.CreateContacts(context.Background(), contacts))
	return contacts
}
