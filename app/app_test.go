package app

import (
	"context"
	"net"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/database"
)

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogging("DEBUG")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogging("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetupLogging("verbose")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetupLogging("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestServerOptions_NothingConfigured(t *testing.T) {
	opts := ServerOptions(context.Background(), &config.Config{})
	assert.Empty(t, opts)
}

func TestNewImageGenerator_RequiresCredentials(t *testing.T) {
	_, err := NewImageGenerator(context.Background(), config.Images{})
	assert.Error(t, err)

	_, err = NewImageGenerator(context.Background(), config.Images{EnhancePrompts: true})
	assert.Error(t, err)
}

func TestOpenDatabase_RejectsUnknownType(t *testing.T) {
	_, _, err := OpenDatabase(context.Background(), &config.Config{DB: config.Database{Type: "mysql"}})
	assert.ErrorContains(t, err, "unsupported DB_TYPE")
}

func TestServe_ReturnsListenError(t *testing.T) {
	busy, err := net.Listen("tcp", "0.0.0.0:0")
	require.NoError(t, err)
	defer busy.Close()

	_, port, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)

	cfg := &config.Config{HTTP: config.HTTP{Port: port}}
	err = Serve(context.Background(), cfg, database.Database{})
	assert.ErrorContains(t, err, "address already in use")
}

func TestInterruptError(t *testing.T) {
	assert.Equal(t, "interrupt", interruptError{sig: os.Interrupt}.Error())
}
