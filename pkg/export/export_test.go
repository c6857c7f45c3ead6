package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRendersHeadersAndRows(t *testing.T) {
	data := Dataset{
		Headers: []string{"Trainer", "Score"},
		Rows: []map[string]string{
			{"Trainer": "Ayşe", "Score": "120"},
			{"Trainer": "Mert, Jr.", "Score": "40"},
		},
	}

	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	body := string(bytes.TrimPrefix(out, []byte("\uFEFF")))
	assert.Equal(t, "Trainer,Score\nAyşe,120\n\"Mert, Jr.\",40\n", body)
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)

	_, err = NewPDFExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Title:   "Finance",
		Headers: []string{"Category", "Income"},
		Rows:    []map[string]string{{"Category": "Membership", "Income": "500"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
