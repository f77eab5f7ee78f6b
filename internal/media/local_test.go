package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "a-photo.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))

	obj, err := s.Get(ctx, "a-photo.jpg")
	require.NoError(t, err)
	defer obj.Content.Close()
	data, err := io.ReadAll(obj.Content)
	require.NoError(t, err)
	require.Equal(t, "jpeg", string(data))
	require.Equal(t, int64(4), obj.Size)
	require.Equal(t, "image/jpeg", obj.ContentType)

	require.NoError(t, s.Delete(ctx, "a-photo.jpg"))
	_, err = s.Get(ctx, "a-photo.jpg")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "a-photo.jpg"), ErrNotFound)
}

func TestLocalStore_RejectsPaths(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "secret.txt"), []byte("x"), 0o644))

	for _, name := range []string{"../secret.txt", "..", "", "sub/file.jpg", `..\secret.txt`} {
		_, err := s.Get(ctx, name)
		require.ErrorIs(t, err, ErrNotFound, name)
		require.Error(t, s.Put(ctx, name, strings.NewReader("x"), 1, ""), name)
	}
}

func TestLocalStore_NoOverwrite(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "f.txt", strings.NewReader("one"), 3, ""))
	require.Error(t, s.Put(ctx, "f.txt", strings.NewReader("two"), 3, ""))
}

func TestNewLocalStore_EmptyDir(t *testing.T) {
	_, err := NewLocalStore("")
	require.Error(t, err)
}
