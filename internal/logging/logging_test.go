package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelAndFormatter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", JSON: true, Output: &buf})
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("channel", 6).Debug("tick")
	assert.Contains(t, buf.String(), `"channel":6`)
	assert.Contains(t, buf.String(), `"msg":"tick"`)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New(Config{Level: "loud", Output: &bytes.Buffer{}})
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}
