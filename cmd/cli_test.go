package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const voteDefinition = `kind: vote
title: Roadmap vote
total_points: 100
step: 10
require_all_points: true
options:
  - id: dark-mode
    label: Dark mode
    max_points: 60
  - id: export
    label: CSV export
  - id: legacy
    label: Legacy sync
    disabled: true
`

const matrixDefinition = `kind: matrix
title: Backlog triage
require_all_items: true
items:
  - id: search
    label: Search
  - id: billing
    label: Billing
`

func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestNewRequiresFileFlag(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "new")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"file\" not set")
}

func TestNewRejectsInvalidDefinition(t *testing.T) {
	home := t.TempDir()
	path := writeDefinition(t, home, "kind: survey\ntitle: Nope\n")

	_, _, err := executeCLI(t, home, "new", "--file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported kind")
}

func TestVoteFlowThroughSubmit(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, voteDefinition)

	stdout, _, err := executeCLI(t, home, "vote", "set", id, "--option", "dark-mode", "--points", "80")
	require.NoError(t, err)
	assert.Equal(t, "dark-mode: 60 points (40 left)\n", stdout)

	stdout, _, err = executeCLI(t, home, "vote", "set", id, "--option", "legacy", "--points", "10")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No change for legacy")

	_, _, err = executeCLI(t, home, "submit", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire is incomplete")
	assert.Contains(t, err.Error(), "40 points left to allocate")

	for range 4 {
		_, _, err = executeCLI(t, home, "vote", "inc", id, "--option", "export")
		require.NoError(t, err)
	}

	stdout, _, err = executeCLI(t, home, "vote", "inc", id, "--option", "export")
	require.NoError(t, err)
	assert.Equal(t, "No change for export: 40 points (0 left)\n", stdout)

	stdout, _, err = executeCLI(t, home, "show", id)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Roadmap vote ("+id+")")
	assert.Contains(t, stdout, "state: ready")
	assert.Contains(t, stdout, "100/100 allocated, 0 left")

	stdout, _, err = executeCLI(t, home, "submit", id)
	require.NoError(t, err)

	var submission struct {
		QuestionnaireID string         `json:"questionnaire_id"`
		Allocations     map[string]int `json:"allocations"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &submission))
	assert.Equal(t, id, submission.QuestionnaireID)
	assert.Equal(t, map[string]int{"dark-mode": 60, "export": 40}, submission.Allocations)

	_, _, err = executeCLI(t, home, "vote", "dec", id, "--option", "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire already submitted")
}

func TestVoteResetClearsAllocations(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, voteDefinition)

	_, _, err := executeCLI(t, home, "vote", "set", id, "--option", "export", "--points", "30")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "vote", "reset", id)
	require.NoError(t, err)
	assert.Equal(t, "Allocations cleared (100 points left)\n", stdout)
}

func TestMatrixFlowExportsYAML(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, matrixDefinition)

	stdout, _, err := executeCLI(t, home, "matrix", "place", id, "--item", "search", "--effort", "low", "--impact", "HIGH")
	require.NoError(t, err)
	assert.Equal(t, "search: Quick wins (1 items unplaced)\n", stdout)

	_, _, err = executeCLI(t, home, "matrix", "place", id, "--item", "billing", "--effort", "medium", "--impact", "high")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effort: invalid level \"medium\"")

	_, _, err = executeCLI(t, home, "matrix", "place", id, "--item", "billing", "--effort", "high", "--impact", "low")
	require.NoError(t, err)

	stdout, _, err = executeCLI(t, home, "matrix", "remove", id, "--item", "billing")
	require.NoError(t, err)
	assert.Equal(t, "billing: unplaced (1 items unplaced)\n", stdout)

	stdout, _, err = executeCLI(t, home, "export", id, "--format", "yaml")
	require.NoError(t, err)

	var exported struct {
		Kind       string                       `yaml:"kind"`
		Placements map[string]map[string]string `yaml:"placements"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &exported))
	assert.Equal(t, "matrix", exported.Kind)
	assert.Equal(t, map[string]map[string]string{"search": {"effort": "low", "impact": "high"}}, exported.Placements)
}

func TestMatrixCommandsRejectVoteQuestionnaire(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, voteDefinition)

	_, _, err := executeCLI(t, home, "matrix", "remove", id, "--item", "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire kind does not support this operation")
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, matrixDefinition)

	_, _, err := executeCLI(t, home, "export", id, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format \"xml\"")
}

func TestListAndDelete(t *testing.T) {
	home := t.TempDir()
	voteID := createQuestionnaire(t, home, voteDefinition)
	createQuestionnaire(t, home, matrixDefinition)

	stdout, _, err := executeCLI(t, home, "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "questionnaires: 2")
	assert.Contains(t, stdout, "Backlog triage")

	stdout, _, err = executeCLI(t, home, "list", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))

	stdout, _, err = executeCLI(t, home, "delete", voteID)
	require.NoError(t, err)
	assert.Equal(t, "Deleted questionnaire "+voteID+"\n", stdout)

	_, _, err = executeCLI(t, home, "show", voteID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire not found")
}

func TestShowJSONOutput(t *testing.T) {
	home := t.TempDir()
	matrixID := createQuestionnaire(t, home, matrixDefinition)
	voteID := createQuestionnaire(t, home, voteDefinition)

	stdout, _, err := executeCLI(t, home, "show", matrixID, "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"title\": \"Backlog triage\"")
	assert.Contains(t, stdout, "\"complete\": false")
	assert.NotContains(t, stdout, "\"Title\"")

	stdout, _, err = executeCLI(t, home, "show", voteID, "--json")
	require.NoError(t, err)

	var summaries []struct {
		ID   string `json:"id"`
		Vote struct {
			PointsRemaining int `json:"points_remaining"`
			Options         []struct {
				ID        string `json:"id"`
				MaxPoints int    `json:"max_points"`
			} `json:"options"`
		} `json:"vote"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, voteID, summaries[0].ID)
	assert.Equal(t, 100, summaries[0].Vote.PointsRemaining)
	require.Len(t, summaries[0].Vote.Options, 3)
	assert.Equal(t, 60, summaries[0].Vote.Options[0].MaxPoints)
}

func TestStoreHonorsConfiguredPath(t *testing.T) {
	home := t.TempDir()
	storePath := filepath.Join(home, "elsewhere", "answers.toml")
	configDir := filepath.Join(home, ".bipq")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(configDir, "config.toml"),
		[]byte("[questionnaires]\npath = \""+filepath.ToSlash(storePath)+"\"\n"),
		0o644,
	))

	createQuestionnaire(t, home, matrixDefinition)

	_, err := os.Stat(storePath)
	require.NoError(t, err)
}

func TestPlayRejectsSubmittedQuestionnaire(t *testing.T) {
	home := t.TempDir()
	id := createQuestionnaire(t, home, "kind: matrix\ntitle: Empty\nitems:\n  - id: a\n")

	_, _, err := executeCLI(t, home, "submit", id)
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "play", id)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "questionnaire already submitted")
}

func TestSanitizeForTerminal(t *testing.T) {
	assert.Equal(t, "abc", sanitizeForTerminal("a\x1b\nb\tc"))
}

func createQuestionnaire(t *testing.T, home, definition string) string {
	t.Helper()

	path := writeDefinition(t, home, definition)
	stdout, _, err := executeCLI(t, home, "new", "--file", path)
	require.NoError(t, err)

	fields := strings.Fields(strings.TrimSpace(stdout))
	require.NotEmpty(t, fields)
	return fields[len(fields)-1]
}

func writeDefinition(t *testing.T, home, definition string) string {
	t.Helper()

	file, err := os.CreateTemp(home, "definition-*.yaml")
	require.NoError(t, err)
	_, err = file.WriteString(definition)
	require.NoError(t, err)
	require.NoError(t, file.Close())
	return file.Name()
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
