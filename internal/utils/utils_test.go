package utils

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := SetOutput(buf)
	t.Cleanup(func() { SetOutput(prev) })
	return buf
}

func TestPrintFunctionsUseOutput(t *testing.T) {
	buf := captureOutput(t)

	PrintSuccess("pushed")
	PrintError("failed")
	PrintWarning("careful")
	PrintInfo("note")
	PrintPlain("plain")
	PrintKeyValue("Project", "my-app")

	out := buf.String()
	for _, want := range []string{"pushed", "failed", "careful", "note", "plain", "Project", "my-app"} {
		assert.Contains(t, out, want)
	}
}

func TestPrintTable(t *testing.T) {
	buf := captureOutput(t)

	PrintTable([]string{"Locale", "Name"}, [][]string{{"de", "German"}, {"fr", "French"}})

	out := buf.String()
	assert.Contains(t, out, "German")
	assert.Contains(t, out, "fr")
	assert.Contains(t, out, "Zanata")
}

func TestFormatList(t *testing.T) {
	out := FormatList([]string{"a", "b"}, "-")
	assert.Contains(t, out, "a\n")
	assert.Contains(t, out, "b\n")
}

func TestProgressColor(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	tests := []struct {
		name       string
		percentage float64
		want       *color.Color
	}{
		{"complete", 96, color.New(color.Reset)},
		{"exactly 95 is not complete", 95, color.New(color.FgYellow)},
		{"warning", 81, color.New(color.FgYellow)},
		{"exactly 80 is red", 80, color.New(color.FgRed)},
		{"low", 10, color.New(color.FgRed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equals(ProgressColor(tt.percentage)))
		})
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "66.67%", FormatPercent(200.0/3))
	assert.Equal(t, "100.00%", FormatPercent(100))
}
