package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "99******01", Mask("9990000001"))
	assert.Equal(t, "****", Mask("abcd"))
	assert.Equal(t, "", Mask(""))
}

func TestSetup_RedactsSensitiveAttributes(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(&buf, "production", "info")

	Info("donor created", "donor_id", "HKS-D-00001", "phone", "9990000001", "email", "zaid@example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "HKS-D-00001", entry["donor_id"])
	assert.Equal(t, "99******01", entry["phone"])
	assert.NotContains(t, buf.String(), "zaid@example.com")
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetupWithWriter(&buf, "production", "warn")

	Info("hidden")
	Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
