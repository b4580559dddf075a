package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const documentsYAML = `
documents:
  - id: doc1
    reference_date: "2016-12-30"
    events:
      - id: week
        sentence: "Sales peaked in week 47."
        tokens: ["2016-W47"]
      - id: now
        sentence: "Sales are flat today."
        tokens: ["PRESENT_REF"]
      - id: never
        sentence: "It took a while."
        tokens: ["P2W"]
`

func writeDocuments(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(documentsYAML), 0o600))
	return path
}

func TestDurationCmd(t *testing.T) {
	var buf bytes.Buffer
	DurationCmd.SetOut(&buf)

	require.NoError(t, DurationCmd.RunE(DurationCmd, []string{"P4Y"}))
	assert.Equal(t, "Period: 4 Year(s)\n", buf.String())

	assert.Error(t, DurationCmd.RunE(DurationCmd, []string{"4Y"}))
}

func TestBuildJSON(t *testing.T) {
	path := writeDocuments(t)

	buildJSON, defaultRef, workers = true, "", 2
	t.Cleanup(func() { buildJSON = false })

	var buf bytes.Buffer
	BuildCmd.SetOut(&buf)
	BuildCmd.SetContext(context.Background())
	require.NoError(t, runBuild(BuildCmd, []string{path}))

	var events []eventJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, eventJSON{ID: "week", Document: "doc1", Text: "Sales peaked in week 47.", Start: "2016-11-21", End: "2016-11-27"}, events[0])
	assert.Equal(t, "2016-12-30", events[1].Start)
}

func TestBuildRejectsBadDefaultReference(t *testing.T) {
	defaultRef = "later"
	t.Cleanup(func() { defaultRef = "" })

	BuildCmd.SetContext(context.Background())
	assert.Error(t, runBuild(BuildCmd, []string{writeDocuments(t)}))
}

func TestExportICSToFile(t *testing.T) {
	path := writeDocuments(t)
	out := filepath.Join(t.TempDir(), "timeline.ics")

	exportOutput, defaultRef, workers = out, "", 2
	t.Cleanup(func() { exportOutput = "" })

	ExportICSCmd.SetContext(context.Background())
	require.NoError(t, runExportICS(ExportICSCmd, []string{path}))

	body, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(body), "BEGIN:VEVENT"))
	assert.Contains(t, string(body), "week@timeliner")
}
