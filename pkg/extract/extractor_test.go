package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromUpload_PlainText(t *testing.T) {
	got, err := FromUpload("text/plain; charset=utf-8", []byte("hello\r\n\r\n\r\nworld  \n"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n\nworld", got)
}

func TestFromUpload_Markdown(t *testing.T) {
	got, err := FromUpload("text/markdown", []byte("# Title\n\nbody"))
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nbody", got)
}

func TestFromUpload_UnsupportedType(t *testing.T) {
	_, err := FromUpload("image/png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestFromUpload_InvalidPDF(t *testing.T) {
	_, err := FromUpload("application/pdf", []byte("not a pdf"))
	assert.Error(t, err)
}

func TestTrimToRunes(t *testing.T) {
	assert.Equal(t, "héll", trimToRunes("héllo", 4))
	assert.Equal(t, "ok", trimToRunes("ok", 10))
}
