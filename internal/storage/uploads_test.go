package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeetms/fleet-admin/internal/model"
)

func newTestUploads(t *testing.T) *Uploads {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploads, err := NewUploads(logger, t.TempDir())
	require.NoError(t, err)

	return uploads
}

func TestUploads_SaveAndPath(t *testing.T) {
	uploads := newTestUploads(t)

	name, err := uploads.Save("photo.jpg", strings.NewReader("fake image bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_photo.jpg"))

	path, err := uploads.Path(name)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(content))
}

func TestUploads_SaveStripsDirectories(t *testing.T) {
	uploads := newTestUploads(t)

	name, err := uploads.Save("../../etc/passwd", strings.NewReader("nope"))
	require.NoError(t, err)
	assert.NotContains(t, name, "/")

	path, err := uploads.Path(name)
	require.NoError(t, err)
	assert.Equal(t, uploads.Dir, filepath.Dir(path))
}

func TestUploads_PathNotFound(t *testing.T) {
	uploads := newTestUploads(t)

	_, err := uploads.Path("missing.jpg")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUploads_RemoveBestEffort(t *testing.T) {
	uploads := newTestUploads(t)

	name, err := uploads.Save("photo.jpg", strings.NewReader("bytes"))
	require.NoError(t, err)

	uploads.Remove(name)
	_, err = uploads.Path(name)
	assert.ErrorIs(t, err, model.ErrNotFound)

	// removing again, or removing nothing, must not panic
	uploads.Remove(name)
	uploads.Remove("")
}
