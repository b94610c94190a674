package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/masseurtouch/signup/internal/config"
	"github.com/masseurtouch/signup/internal/logger"
)

func TestRunMigrate_RejectsBadCommands(t *testing.T) {
	fsys := fstest.MapFS{}
	cfg := config.PostgresConfig{DSN: "postgres://u:p@127.0.0.1:1/none?sslmode=disable"}

	err := RunMigrate(logger.Discard(), cfg, fsys, "sideways", nil)
	assert.EqualError(t, err, "unknown migrate command: sideways (use: up, down, version, force)")

	err = RunMigrate(logger.Discard(), cfg, fsys, "force", nil)
	assert.EqualError(t, err, "force requires a version number argument")
}
