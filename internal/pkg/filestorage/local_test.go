package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:5000/uploads/", 1024)
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(fileHeader(t, "campus.PNG", []byte("png-bytes")), "universities")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:5000/uploads/universities/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored := filepath.Join(dir, "universities", filepath.Base(url))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, ls.DeleteFile(url))
	require.NoError(t, ls.DeleteFile("https://cdn.example.com/other.png"))
}

func TestSaveRejectsBadUploads(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost/uploads", 4)
	require.NoError(t, err)

	_, err = ls.SaveFileWithPath(fileHeader(t, "script.sh", []byte("x")), "")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = ls.SaveFileWithPath(fileHeader(t, "big.jpg", []byte("too many bytes")), "")
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
