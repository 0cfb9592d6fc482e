package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPolicyValidate(t *testing.T) {
	pdf := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("x"), 100)...)

	t.Run("Accepts pdf resume", func(t *testing.T) {
		f, err := ResumePolicy.Validate("cv.PDF", pdf)
		require.NoError(t, err)
		assert.Equal(t, ".pdf", f.Extension)
		assert.Equal(t, "application/pdf", f.ContentType)
	})

	t.Run("Rejects spoofed extension", func(t *testing.T) {
		_, err := ResumePolicy.Validate("cv.docx", pdf)
		assert.ErrorContains(t, err, "does not match")
	})

	t.Run("Rejects oversize resume", func(t *testing.T) {
		big := append([]byte("%PDF"), make([]byte, 5<<20)...)
		_, err := ResumePolicy.Validate("cv.pdf", big)
		assert.ErrorContains(t, err, "exceeds 5 MB")
	})

	t.Run("Rejects pdf as logo", func(t *testing.T) {
		_, err := LogoPolicy.Validate("logo.pdf", pdf)
		assert.ErrorContains(t, err, "extension not allowed")
	})

	t.Run("Accepts png logo", func(t *testing.T) {
		f, err := LogoPolicy.Validate("logo.png", pngBytes(t, 10, 10))
		require.NoError(t, err)
		assert.Equal(t, "image/png", f.ContentType)
	})
}

func TestResizeImage(t *testing.T) {
	t.Run("Scales down keeping aspect ratio", func(t *testing.T) {
		out, format, err := ResizeImage(pngBytes(t, 1024, 256), 512)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		img, _, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, 512, img.Bounds().Dx())
		assert.Equal(t, 128, img.Bounds().Dy())
	})

	t.Run("Leaves small images untouched", func(t *testing.T) {
		in := pngBytes(t, 64, 64)
		out, _, err := ResizeImage(in, 512)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key := NewKey("resumes", ".PDF")
	assert.True(t, strings.HasPrefix(key, "resumes/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))

	url, err := s.Put(context.Background(), key, []byte("data"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/"+key, url)

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	_, err = s.Put(context.Background(), "../escape", []byte("x"), "text/plain")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
