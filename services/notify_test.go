package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/models"
)

type fakeEmailer struct {
	subjects   []string
	bodies     []string
	recipients [][]string
	err        error
}

func (f *fakeEmailer) SendEmail(_ context.Context, subject, body string, recipients []string) (string, error) {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	f.recipients = append(f.recipients, recipients)
	return "id", f.err
}

type fakeTexter struct {
	to   []string
	body []string
	err  error
}

func (f *fakeTexter) SendSMS(_ context.Context, to, body string) (string, error) {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return "SM1", f.err
}

type fakeMessageCreator struct {
	params *openapi.CreateMessageParams
}

func (f *fakeMessageCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func testLead() *models.Lead {
	phone := "916-555-1234"
	city := "Sacramento"
	msg := "Need a <new> roof"
	return &models.Lead{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@doe.com",
		Phone:     &phone,
		City:      &city,
		Message:   &msg,
		Services:  models.StringList{"roofing", "gutters"},
	}
}

func TestNewNotifier_NoChannels(t *testing.T) {
	n := NewNotifier(config.Notify{})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.NotifyNewLead(context.Background(), testLead()))
}

func TestNewNotifier_MissingCredentialsDisablesChannel(t *testing.T) {
	n := NewNotifier(config.Notify{EmailRecipients: []string{"a@b.com"}, SMSRecipients: []string{"+19165551234"}})
	assert.False(t, n.Enabled())
}

func TestNotifyNewLead(t *testing.T) {
	email := &fakeEmailer{}
	sms := &fakeTexter{}
	n := &Notifier{
		email:           email,
		sms:             sms,
		emailRecipients: []string{"office@example.com"},
		smsRecipients:   []string{"+19165550001", "+19165550002"},
	}

	require.NoError(t, n.NotifyNewLead(context.Background(), testLead()))

	require.Len(t, email.subjects, 1)
	assert.Equal(t, "New estimate request from Jane Doe", email.subjects[0])
	assert.Contains(t, email.bodies[0], "roofing, gutters")
	assert.Contains(t, email.bodies[0], "Need a &lt;new&gt; roof")
	assert.Equal(t, []string{"office@example.com"}, email.recipients[0])

	assert.Equal(t, []string{"+19165550001", "+19165550002"}, sms.to)
	assert.Equal(t, "New lead: Jane Doe | 916-555-1234 | jane@doe.com | roofing, gutters", sms.body[0])
}

func TestNotifyNewLead_EmailFailureStillTexts(t *testing.T) {
	email := &fakeEmailer{err: errors.New("boom")}
	sms := &fakeTexter{}
	n := &Notifier{email: email, sms: sms, emailRecipients: []string{"a@b.com"}, smsRecipients: []string{"+1"}}

	err := n.NotifyNewLead(context.Background(), testLead())
	assert.EqualError(t, err, "boom")
	assert.Len(t, sms.to, 1)
}

func TestSendSMS(t *testing.T) {
	api := &fakeMessageCreator{}
	s := &SMSSender{from: "+19160000000", api: api}

	sid, err := s.SendSMS(context.Background(), "+19165551234", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
	require.NotNil(t, api.params)
	assert.Equal(t, "+19165551234", *api.params.To)
	assert.Equal(t, "+19160000000", *api.params.From)
	assert.Equal(t, "hello", *api.params.Body)

	_, err = s.SendSMS(context.Background(), "", "hello")
	assert.Error(t, err)
}
