package validation

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(maxBytes int64) *FileValidator {
	return NewFileValidator(nil, maxBytes, []string{"CSV", ".xlsx", " .txt "})
}

func TestNewFileValidatorNormalizesExtensions(t *testing.T) {
	v := newValidator(10)
	assert.Equal(t, []string{".csv", ".xlsx", ".txt"}, v.Extensions())
	assert.Equal(t, int64(10), v.MaxBytes())
}

func TestFileValidator_ValidateName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantErr  bool
	}{
		{name: "csv", filename: "prices.csv"},
		{name: "upper case extension", filename: "PRICES.CSV"},
		{name: "xlsx", filename: "book.xlsx"},
		{name: "txt", filename: "export.txt"},
		{name: "legacy excel", filename: "book.xls", wantErr: true},
		{name: "no extension", filename: "prices", wantErr: true},
		{name: "json", filename: "prices.json", wantErr: true},
	}

	v := newValidator(1024)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateName(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedExtension)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFileValidator_ReadUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  error
	}{
		{name: "valid upload", filename: "prices.csv", content: "date,close\n2024-01-01,1\n"},
		{name: "exactly at the limit", filename: "prices.csv", content: strings.Repeat("x", 32)},
		{name: "one byte over the limit", filename: "prices.csv", content: strings.Repeat("x", 33), wantErr: ErrFileTooLarge},
		{name: "empty", filename: "prices.csv", content: "", wantErr: ErrEmptyFile},
		{name: "bad extension", filename: "prices.pdf", content: "x", wantErr: ErrUnsupportedExtension},
	}

	v := newValidator(32)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := v.ReadUpload(tt.filename, strings.NewReader(tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, data)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data))
		})
	}
}

func TestFileValidator_ReadUploadMaxBytesReader(t *testing.T) {
	v := newValidator(0)
	rec := httptest.NewRecorder()
	body := http.MaxBytesReader(rec, io.NopCloser(bytes.NewReader(make([]byte, 64))), 16)

	_, err := v.ReadUpload("prices.csv", body)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	v := newValidator(16)

	t.Run("valid file", func(t *testing.T) {
		size, err := v.ValidateFile(write("ok.csv", "date,close\n"))
		require.NoError(t, err)
		assert.Equal(t, int64(11), size)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := v.ValidateFile(filepath.Join(dir, "missing.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("directory", func(t *testing.T) {
		_, err := v.ValidateFile(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is a directory")
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := v.ValidateFile(write("empty.csv", ""))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("oversized file", func(t *testing.T) {
		_, err := v.ValidateFile(write("big.csv", strings.Repeat("x", 17)))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("wrong extension", func(t *testing.T) {
		_, err := v.ValidateFile(write("notes.md", "x"))
		assert.ErrorIs(t, err, ErrUnsupportedExtension)
	})
}
