package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/errs"
)

func newTestEmailSender(t *testing.T, handler http.HandlerFunc) *EmailSender {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sender, err := NewEmailSender(config.Notify{ResendAPIKey: "re_test", ResendFromEmail: "Office <office@example.com>"})
	require.NoError(t, err)
	sender.endpoint = srv.URL
	sender.httpClient = srv.Client()
	return sender
}

func TestNewEmailSender_RequiresConfig(t *testing.T) {
	_, err := NewEmailSender(config.Notify{ResendFromEmail: "a@b.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrEnvironmentVariable)

	_, err = NewEmailSender(config.Notify{ResendAPIKey: "key"})
	assert.ErrorIs(t, err, errs.ErrEnvironmentVariable)
}

func TestSendEmail(t *testing.T) {
	var got ResendEmailRequest
	sender := newTestEmailSender(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email_123"}`))
	})

	id, err := sender.SendEmail(context.Background(), "Hello", "<p>hi</p>", []string{"owner@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "email_123", id)
	assert.Equal(t, "Office <office@example.com>", got.From)
	assert.Equal(t, []string{"owner@example.com"}, got.To)
	assert.Equal(t, "<p>hi</p>", got.Html)
}

func TestSendEmail_NoRecipients(t *testing.T) {
	sender := newTestEmailSender(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := sender.SendEmail(context.Background(), "Hello", "body", nil)
	assert.Error(t, err)
}

func TestSendEmail_ProviderError(t *testing.T) {
	sender := newTestEmailSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"Too many requests"}`))
	})
	_, err := sender.SendEmail(context.Background(), "Hello", "body", []string{"a@b.com"})
	require.Error(t, err)
	assert.True(t, errs.IsRateLimitError(err))
}

func TestSendEmail_RejectedRequest(t *testing.T) {
	sender := newTestEmailSender(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid from address"}`))
	})
	_, err := sender.SendEmail(context.Background(), "Hello", "body", []string{"a@b.com"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrUpstreamRejected)
	assert.False(t, errs.IsRetryable(err))
}
