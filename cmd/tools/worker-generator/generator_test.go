package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerData(t *testing.T) {
	data, err := NewWorkerData("intake", "score-eligibility", "Scorer")
	require.NoError(t, err)

	assert.Equal(t, "scoreeligibility", data.PackageName)
	assert.Equal(t, "ScoreEligibility", data.Method)
	assert.Equal(t, "Scorer", data.Service)
	assert.Equal(t, "coaching-workers", data.Module)
}

func TestNewWorkerData_Invalid(t *testing.T) {
	for _, task := range []string{"", "Score", "score_eligibility", "-score", "score-"} {
		_, err := NewWorkerData("intake", task, "")
		assert.Error(t, err, task)
	}
	_, err := NewWorkerData("Intake", "score", "")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	root := t.TempDir()
	data, err := NewWorkerData("jury", "close-session", "")
	require.NoError(t, err)

	files, err := Generate(root, data, false)
	require.NoError(t, err)
	require.Len(t, files, 4)

	handler, err := os.ReadFile(filepath.Join(root, "internal", "workers", "jury", "close-session", "handler.go"))
	require.NoError(t, err)
	assert.Contains(t, string(handler), "package closesession")
	assert.Contains(t, string(handler), `TaskType = "close-session"`)
	assert.Contains(t, string(handler), "h.service.CloseSession(ctx, input.ID)")
	assert.Contains(t, string(handler), `"coaching-workers/internal/common/camunda"`)

	models, err := os.ReadFile(filepath.Join(root, "internal", "workers", "jury", "close-session", "models.go"))
	require.NoError(t, err)
	assert.Contains(t, string(models), "`json:\"id\"`")
}

func TestGenerate_RefusesOverwrite(t *testing.T) {
	root := t.TempDir()
	data, err := NewWorkerData("jury", "close-session", "")
	require.NoError(t, err)

	_, err = Generate(root, data, false)
	require.NoError(t, err)

	_, err = Generate(root, data, false)
	assert.Error(t, err)

	_, err = Generate(root, data, true)
	assert.NoError(t, err)
}
