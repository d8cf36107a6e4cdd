package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitLeadForm_Success(t *testing.T) {
	var received LeadSubmission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/leads", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"abc","first_name":"Jane","status":"new"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	out, err := c.SubmitLeadForm(context.Background(), LeadSubmission{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Zip:       "95814",
	})
	require.NoError(t, err)

	assert.Equal(t, "abc", out["id"])
	assert.Equal(t, "new", out["status"])
	assert.Equal(t, "Jane", received.FirstName)
	assert.Equal(t, "95814", received.Zip)
}

func TestSubmitLeadForm_DoesNotValidate(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitLeadForm(context.Background(), LeadSubmission{Email: "not-an-email"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSubmitLeadForm_ServerError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantFields  map[string]string
	}{
		{
			name:        "server message",
			status:      http.StatusInternalServerError,
			body:        `{"error":"Database unavailable"}`,
			wantMessage: "Database unavailable",
		},
		{
			name:        "validation errors",
			status:      http.StatusBadRequest,
			body:        `{"error":"validation failed","fieldErrors":{"email":"Please enter a valid email address"}}`,
			wantMessage: "validation failed",
			wantFields:  map[string]string{"email": "Please enter a valid email address"},
		},
		{
			name:        "no json body",
			status:      http.StatusBadGateway,
			body:        `<html>bad gateway</html>`,
			wantMessage: "Failed to submit form",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			out, err := New(srv.URL).SubmitLeadForm(context.Background(), LeadSubmission{FirstName: "Jane"})
			assert.Nil(t, out)
			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, err.Error())

			var subErr *SubmissionError
			require.True(t, errors.As(err, &subErr))
			assert.Equal(t, tt.status, subErr.StatusCode)
			assert.Equal(t, tt.wantFields, subErr.FieldErrors)
		})
	}
}

func TestHandleSubmissionError(t *testing.T) {
	t.Run("submission error", func(t *testing.T) {
		out := HandleSubmissionError(&SubmissionError{
			StatusCode:  400,
			Message:     "validation failed",
			FieldErrors: map[string]string{"zip": "Please enter a valid ZIP code"},
		})
		assert.Equal(t, "validation failed", out.Message)
		assert.Equal(t, "Please enter a valid ZIP code", out.FieldErrors["zip"])
	})

	t.Run("plain error", func(t *testing.T) {
		out := HandleSubmissionError(errors.New("connection refused"))
		assert.Equal(t, "connection refused", out.Message)
		assert.Empty(t, out.FieldErrors)
	})

	t.Run("nil", func(t *testing.T) {
		out := HandleSubmissionError(nil)
		assert.Equal(t, "An error occurred while submitting the form", out.Message)
	})
}
