package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTwilioGateway_Send(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		assert.NotEmpty(t, r.Header.Get("I-Twilio-Idempotency-Token"))

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+15551234", r.PostForm.Get("To"))
		assert.Equal(t, "+15550000", r.PostForm.Get("From"))
		assert.Equal(t, "Hi Amy", r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"sid": "SM1", "status": "queued"})
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret", FromNumber: "+15550000"})
	require.NoError(t, err)

	res, err := g.Send(context.Background(), SMS{To: "+15551234", Body: "Hi Amy"})
	require.NoError(t, err)
	assert.Equal(t, SendResult{MessageID: "SM1", Status: "queued"}, res)
}

func TestTwilioGateway_ProjectSenderOverridesDefault(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "+15559999", r.PostForm.Get("From"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM2","status":"accepted"}`))
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret", FromNumber: "+15550000"})
	require.NoError(t, err)

	res, err := g.Send(context.Background(), SMS{From: "+15559999", To: "+1", Body: "x"})
	require.NoError(t, err)
	assert.Equal(t, "SM2", res.MessageID)
}

func TestTwilioGateway_Rejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":21211,"message":"The 'To' number is not a valid phone number.","status":400}`))
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"})
	require.NoError(t, err)

	_, err = g.Send(context.Background(), SMS{To: "bogus", Body: "x"})
	var pErr *ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, http.StatusBadRequest, pErr.StatusCode)
	assert.Equal(t, 21211, pErr.Code)
	assert.Contains(t, pErr.Message, "not a valid phone number")
}

func TestTwilioGateway_Timeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret", Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = g.Send(context.Background(), SMS{To: "+1", Body: "x"})
	var pErr *ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Zero(t, pErr.StatusCode)
}

func TestTwilioGateway_MissingSID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"status":"queued"}`))
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"})
	require.NoError(t, err)

	_, err = g.Send(context.Background(), SMS{To: "+1", Body: "x"})
	var pErr *ProviderError
	assert.True(t, errors.As(err, &pErr))
}

func TestTwilioGateway_FreshIdempotencyTokenPerSend(t *testing.T) {
	t.Parallel()

	var (
		mtx    sync.Mutex
		tokens []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mtx.Lock()
		tokens = append(tokens, r.Header.Get("I-Twilio-Idempotency-Token"))
		mtx.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"sid":"SM3","status":"queued"}`))
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"})
	require.NoError(t, err)

	for range 2 {
		_, err = g.Send(context.Background(), SMS{To: "+1", Body: "x"})
		require.NoError(t, err)
	}

	require.Len(t, tokens, 2)
	assert.NotEmpty(t, tokens[0])
	assert.NotEqual(t, tokens[0], tokens[1])
}

func TestTwilioGateway_CallerCancellation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	g, err := NewTwilioGateway(TwilioConfig{BaseURL: srv.URL, AccountSID: "AC123", AuthToken: "secret"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = g.Send(ctx, SMS{To: "+1", Body: "x"})
	var pErr *ProviderError
	require.True(t, errors.As(err, &pErr))
	assert.Contains(t, pErr.Message, context.DeadlineExceeded.Error())
}
