package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyles(t *testing.T) {
	styles := []struct {
		name  string
		style interface{ Render(...string) string }
	}{
		{"TitleStyle", TitleStyle},
		{"SubtitleStyle", SubtitleStyle},
		{"SuccessStyle", SuccessStyle},
		{"ErrorStyle", ErrorStyle},
		{"WarningStyle", WarningStyle},
		{"InfoStyle", InfoStyle},
	}

	for _, s := range styles {
		t.Run(s.name, func(t *testing.T) {
			assert.Contains(t, s.style.Render("hello"), "hello")
		})
	}
}

func TestPrinters(t *testing.T) {
	var buf bytes.Buffer

	Step(&buf, "Copying %s", "app")
	Success(&buf, "done")
	Warn(&buf, "careful")
	Error(&buf, "failed: %d", 3)

	out := buf.String()
	assert.Contains(t, out, "Copying app")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "[WARNING] careful")
	assert.Contains(t, out, "[ERROR] failed: 3")
}
