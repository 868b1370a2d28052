package storage

import (
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: "photo.jpg",
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestValidateImage(t *testing.T) {
	assert.NoError(t, ValidateImage(fileHeader("image/jpeg", 1024)))
	assert.NoError(t, ValidateImage(fileHeader("image/png", MaxImageSize)))

	assert.Error(t, ValidateImage(fileHeader("image/jpeg", MaxImageSize+1)))
	assert.Error(t, ValidateImage(fileHeader("application/pdf", 1024)))
	assert.Error(t, ValidateImage(fileHeader("", 1024)))
}

func TestLocalStorage_UploadBytes(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	path, err := store.UploadBytes([]byte("thumbnail data"), "pets/10", "thumb_0.jpg")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("pets/10", "thumb_0.jpg"), path)
	assert.True(t, store.Exists(path))
	assert.Equal(t, "http://localhost:8080/uploads/pets/10/thumb_0.jpg", store.URL(path))

	data, err := os.ReadFile(store.FullPath(path))
	require.NoError(t, err)
	assert.Equal(t, []byte("thumbnail data"), data)
}

func TestLocalStorage_DeleteMissingFileIsNoError(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	assert.NoError(t, store.Delete("pets/99/gone.jpg"))
}
