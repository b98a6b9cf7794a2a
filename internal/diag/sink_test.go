package diag

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/railcheck/internal/verify"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAttachPNGWritesFile(t *testing.T) {
	s, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	name, err := s.AttachPNG("Failure Screenshot", pngBytes(t, 100, 60))
	require.NoError(t, err)
	assert.Equal(t, "shot-001-failure-screenshot.png", name)

	_, err = os.Stat(filepath.Join(s.Dir(), name))
	assert.NoError(t, err)
}

func TestAttachPNGDownscalesWideImages(t *testing.T) {
	s, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	name, err := s.AttachPNG("wide", pngBytes(t, 1600, 900))
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(s.Dir(), name))
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, maxShotWidth)
}

func TestAttachPNGRejectsGarbage(t *testing.T) {
	s, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = s.AttachPNG("bad", []byte("not a png"))
	assert.Error(t, err)
}

func TestAttachmentNamesAreSequential(t *testing.T) {
	s, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	first, err := s.AttachPNG("a", pngBytes(t, 10, 10))
	require.NoError(t, err)
	second, err := s.AttachPNG("b", pngBytes(t, 10, 10))
	require.NoError(t, err)

	assert.Equal(t, "shot-001-a.png", first)
	assert.Equal(t, "shot-002-b.png", second)
}

func TestWriteReport(t *testing.T) {
	s, err := NewSink(t.TempDir(), nil)
	require.NoError(t, err)

	s.Record("dashboard", "ok")
	s.Record("search", "ok")

	records := []verify.Record{
		{Level: verify.Pass, Message: "URL matched", At: time.Now()},
		{Level: verify.Fail, Message: "price is zero", At: time.Now(), Attachment: "shot-001-failure.png"},
	}
	require.NoError(t, s.WriteReport(records, "failed"))

	data, err := os.ReadFile(filepath.Join(s.Dir(), "report.json"))
	require.NoError(t, err)

	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, "failed", rep["verdict"])
	assert.Equal(t, s.RunID(), rep["run_id"])
	assert.Len(t, rep["steps"], 2)
	assert.Len(t, rep["records"], 2)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "error-no-seats-available", slug("Error: No seats available!"))
	assert.Equal(t, "a", slug("  A  "))
}
