package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigureLogger(t *testing.T) {
	t.Cleanup(InitLogger)

	assert.NoError(t, ConfigureLogger("debug", "json"))
	assert.Equal(t, logrus.DebugLevel, InfoLogger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, ErrorLogger.Formatter)

	assert.Error(t, ConfigureLogger("loud", "text"))
	assert.Error(t, ConfigureLogger("info", "xml"))
}
