package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChunkLines(t *testing.T) {
	corpus := strings.Join([]string{
		`{"id":"c1","text":"quarterly revenue grew 12%"}`,
		``,
		`{"id":"c2","text":"renewal terms are net 30"}`,
	}, "\n")

	chunks, err := ParseChunkLines(strings.NewReader(corpus))
	assert.NoError(t, err)
	assert.Len(t, chunks, 2)
	assert.Equal(t, "quarterly revenue grew 12%", chunks["c1"])
	assert.Equal(t, "renewal terms are net 30", chunks["c2"])
}

func TestParseChunkLines_MalformedLine(t *testing.T) {
	corpus := `{"id":"c1","text":"ok"}` + "\n" + `{not json}`

	_, err := ParseChunkLines(strings.NewReader(corpus))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestParseChunkLines_MissingID(t *testing.T) {
	_, err := ParseChunkLines(strings.NewReader(`{"text":"orphan"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing chunk id")
}
