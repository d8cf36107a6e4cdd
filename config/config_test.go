package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SSM_PARAMETER_PATH", "")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Address())
	assert.Equal(t, 180*time.Second, cfg.HTTP.ReadTimeout())
	assert.Equal(t, "supa", cfg.DB.Type)
	assert.Equal(t, "contractor-site", cfg.Admin.Issuer)
	assert.Equal(t, "generated-images", cfg.Storage.Bucket)
	assert.Equal(t, 2*time.Second, cfg.Images.RetryDelay)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SSM_PARAMETER_PATH", "")
	t.Setenv("PORT", "9000")
	t.Setenv("ACCEPTED_ORIGINS", "https://example.com,https://www.example.com")
	t.Setenv("LEAD_NOTIFY_EMAILS", "office@example.com,owner@example.com")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("IMAGE_RETRY_DELAY", "500ms")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, []string{"https://example.com", "https://www.example.com"}, cfg.HTTP.AcceptedOrigins)
	assert.Equal(t, []string{"office@example.com", "owner@example.com"}, cfg.Notify.EmailRecipients)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 500*time.Millisecond, cfg.Images.RetryDelay)
}

func TestDatabase_DSN(t *testing.T) {
	d := Database{User: "postgres", Password: "pw", Name: "postgres", Port: "6543", SSLMode: "require"}
	assert.Equal(t,
		"host=db.example.com user=postgres password=pw dbname=postgres port=6543 sslmode=require",
		d.DSN("db.example.com"))
}

type fakeParameters struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeParameters) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestExportParameters(t *testing.T) {
	t.Setenv("CONTRACTOR_TEST_PORT", "7000")
	t.Setenv("CONTRACTOR_TEST_SECRET", "")
	os.Unsetenv("CONTRACTOR_TEST_SECRET")

	client := &fakeParameters{pages: [][]types.Parameter{
		{{Name: aws.String("/site/prod/CONTRACTOR_TEST_SECRET"), Value: aws.String("s3cret")}},
		{{Name: aws.String("/site/prod/CONTRACTOR_TEST_PORT"), Value: aws.String("9999")}},
	}}

	require.NoError(t, exportParameters(context.Background(), client, "/site/prod"))

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "s3cret", os.Getenv("CONTRACTOR_TEST_SECRET"))
	assert.Equal(t, "7000", os.Getenv("CONTRACTOR_TEST_PORT"), "existing variables win")
}
