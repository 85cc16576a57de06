package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMimeFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"cv.pdf", MimePDF},
		{"CV.PDF", MimePDF},
		{"cv.docx", MimeDocx},
		{"cv.doc", MimeDoc},
		{"notes.txt", MimeText},
		{"photo.png", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MimeFromName(tt.name))
		})
	}
}

func TestTextPlain(t *testing.T) {
	text, err := Text(MimeText, []byte("  Go engineer\nKubernetes  \n"))
	require.NoError(t, err)
	assert.Equal(t, "Go engineer\nKubernetes", text)
}

func TestTextUnsupported(t *testing.T) {
	_, err := Text(MimeDoc, []byte("binary"))
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSupported(t *testing.T) {
	for _, mime := range []string{MimePDF, MimeDocx, MimeText} {
		assert.True(t, Supported(mime), mime)
	}
	assert.False(t, Supported(MimeDoc))
	assert.False(t, Supported(""))
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text(MimePDF, []byte("not a pdf"))
	assert.Error(t, err)
}
