package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const DefaultTwilioBaseURL = "https://api.twilio.com"

type TwilioConfig struct {
	// BaseURL points the client at a Twilio compatible endpoint. Empty means
	// the public API.
	BaseURL    string
	AccountSID string
	AuthToken  string
	FromNumber string
	Timeout    time.Duration
}

type twilioGateway struct {
	fromNumber string
	rest       *twilio.RestClient
}

// NewTwilioGateway creates a gateway for the Twilio Messages API
func NewTwilioGateway(cfg TwilioConfig) (Gateway, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second * 10
	}

	transport := &twilioTransport{next: http.DefaultTransport}
	if cfg.BaseURL != "" && cfg.BaseURL != DefaultTwilioBaseURL {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		transport.base = base
	}

	twilioClient := &client.Client{
		Credentials: client.NewCredentials(cfg.AccountSID, cfg.AuthToken),
		HTTPClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}
	twilioClient.SetAccountSid(cfg.AccountSID)

	return &twilioGateway{
		fromNumber: cfg.FromNumber,
		rest:       twilio.NewRestClientWithParams(twilio.ClientParams{Client: twilioClient}),
	}, nil
}

type sendOutcome struct {
	msg *twilioApi.ApiV2010Message
	err error
}

func (g *twilioGateway) Send(ctx context.Context, msg SMS) (SendResult, error) {
	from := msg.From
	if from == "" {
		from = g.fromNumber
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	// the sdk call is bounded by the http client timeout
	done := make(chan sendOutcome, 1)
	go func() {
		resp, err := g.rest.Api.CreateMessage(params)
		done <- sendOutcome{msg: resp, err: err}
	}()

	var out sendOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		return SendResult{}, &ProviderError{Message: ctx.Err().Error()}
	}

	if out.err != nil {
		var restErr *client.TwilioRestError
		if errors.As(out.err, &restErr) {
			return SendResult{}, &ProviderError{StatusCode: restErr.Status, Code: restErr.Code, Message: restErr.Message}
		}
		return SendResult{}, &ProviderError{Message: out.err.Error()}
	}
	if out.msg == nil || out.msg.Sid == nil || *out.msg.Sid == "" {
		return SendResult{}, &ProviderError{Message: "missing message sid in response"}
	}

	res := SendResult{MessageID: *out.msg.Sid}
	if out.msg.Status != nil {
		res.Status = *out.msg.Status
	}
	return res, nil
}

// twilioTransport stamps every create request with a fresh idempotency token
// and optionally redirects requests to another host.
type twilioTransport struct {
	base *url.URL
	next http.RoundTripper
}

func (t *twilioTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Method == http.MethodPost && req.Header.Get("I-Twilio-Idempotency-Token") == "" {
		req.Header.Set("I-Twilio-Idempotency-Token", uuid.NewString())
	}
	if t.base != nil {
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.Host = t.base.Host
	}
	return t.next.RoundTrip(req)
}
