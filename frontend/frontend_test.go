package frontend

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanSize(t *testing.T) {
	tests := map[int64]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KiB",
		1536:            "1.5 KiB",
		15 * 1024:       "15 KiB",
		5 * 1024 * 1024: "5.0 MiB",
	}
	for in, want := range tests {
		assert.Equal(t, want, HumanSize(in), "HumanSize(%d)", in)
	}
}

func TestTemplates_Parse(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{"upload.html", "detail.html", "browse.html"} {
		assert.NotNil(t, tmpl.Lookup(name), "missing template %s", name)
	}
}

func TestUploadWidget(t *testing.T) {
	html, err := UploadWidget()
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(html), `id="template-upload"`))
	assert.True(t, strings.Contains(string(html), `id="template-download"`))
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("/style.css")
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
