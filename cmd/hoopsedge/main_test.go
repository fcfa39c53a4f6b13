package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"schedule_today.json": `[{"game_id": "g1", "date": "2025-01-15", "home": "BOS", "away": "NYK"}]`,
		"schedule.json": `[
			{"date": "2025-01-14", "home": "BOS", "away": "MIA"},
			{"date": "2025-01-15", "home": "BOS", "away": "NYK"}
		]`,
		"team_ratings.json": `{"BOS": 6, "NYK": "2"}`,
		"raw_odds.json": `{"g1": {
			"home": 1.7, "away": 2.3,
			"total": {"line": 220.5, "over": 1.91, "under": 1.91}
		}}`,
		"config.yaml": "simulation:\n  num_simulations: 300\nlogging:\n  level: warn\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_JSONReport(t *testing.T) {
	dir := fixtureDir(t)
	out, err := execute(t, "run",
		"--data", dir,
		"--config", filepath.Join(dir, "config.yaml"),
		"--date", "2025-01-15",
		"--seed", "5",
		"--format", "json",
	)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4, "moneyline and total, both sides")
	assert.Equal(t, 1.0, rows[0]["rank"])
	assert.Equal(t, "g1", rows[0]["game_id"])
}

func TestRun_Reproducible(t *testing.T) {
	dir := fixtureDir(t)
	args := []string{"run", "--data", dir, "--config", filepath.Join(dir, "config.yaml"), "--seed", "9", "--format", "csv"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_ExportWithDistributions(t *testing.T) {
	dir := fixtureDir(t)
	export := filepath.Join(dir, "games.json")
	report := filepath.Join(dir, "lines.csv")
	_, err := execute(t, "run",
		"--data", dir,
		"--config", filepath.Join(dir, "config.yaml"),
		"--seed", "1",
		"--format", "csv",
		"--out", report,
		"--export", export,
		"--with-distributions",
	)
	require.NoError(t, err)

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	var games []map[string]any
	require.NoError(t, json.Unmarshal(data, &games))
	require.Len(t, games, 1)
	diffs, ok := games[0]["mc_diff_distribution"].([]any)
	require.True(t, ok)
	assert.Len(t, diffs, 300)
	assert.Contains(t, games[0], "elo_diff", "export includes model inputs")

	_, err = os.Stat(report)
	assert.NoError(t, err)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err, "--data is required")

	_, err = execute(t, "run", "--data", t.TempDir())
	assert.Error(t, err, "games fixture is required")

	dir := fixtureDir(t)
	_, err = execute(t, "run", "--data", dir, "--config", filepath.Join(dir, "config.yaml"), "--date", "15/01/2025")
	assert.Error(t, err)

	_, err = execute(t, "run", "--data", dir, "--config", filepath.Join(dir, "config.yaml"), "--format", "xml")
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	dir := fixtureDir(t)
	out, err := execute(t, "validate-config", "--config", filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("value:\n  kelly_fraction: 0\n"), 0o644))
	_, err = execute(t, "validate-config", "--config", bad)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	out, err := execute(t, "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "key registry version 1")
	assert.Contains(t, out, "rating_home")
	assert.Contains(t, out, "mc_distribution")
	assert.Contains(t, out, "caller")
}
