// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"bistro/internal/db"
)

var (
	pngSignature = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	jpegHeader   = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifHeader    = []byte("GIF89a")
)

// PNG returns size bytes that sniff as image/png.
func PNG(size int) []byte { return pad(pngSignature, size) }

// JPEG returns size bytes that sniff as image/jpeg.
func JPEG(size int) []byte { return pad(jpegHeader, size) }

// GIF returns size bytes that sniff as image/gif.
func GIF(size int) []byte { return pad(gifHeader, size) }

func pad(header []byte, size int) []byte {
	if size < len(header) {
		size = len(header)
	}
	out := make([]byte, size)
	copy(out, header)
	return out
}

// MultipartBody encodes fields and an optional file part. It returns the body
// and its content type.
func MultipartBody(t testing.TB, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

// FileHeader builds a parsed multipart file header for content.
func FileHeader(t testing.TB, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, contentType := MultipartBody(t, nil, "image", filename, content)

	_, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)

	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["image"]
	require.Len(t, files, 1)
	return files[0]
}

// SQLite opens a migrated in-memory database private to the test.
func SQLite(t testing.TB) *gorm.DB {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB, false))
	return gormDB
}
