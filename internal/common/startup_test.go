package common

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogLevel(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	assert.NoError(t, ConfigureLogLevel("debug"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.NoError(t, ConfigureLogLevel(""))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.Error(t, ConfigureLogLevel("loud"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
