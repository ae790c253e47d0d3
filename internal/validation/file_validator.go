package validation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Upload rejection reasons
var (
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrFileTooLarge         = errors.New("file exceeds the upload size limit")
	ErrEmptyFile            = errors.New("file is empty")
)

// FileValidator checks uploaded and local price files before they are parsed
type FileValidator struct {
	logger     *slog.Logger
	maxBytes   int64
	extensions []string
}

// NewFileValidator creates a validator accepting files up to maxBytes whose
// extension is one of extensions (".csv" style, case-insensitive).
func NewFileValidator(logger *slog.Logger, maxBytes int64, extensions []string) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &FileValidator{
		logger:     logger.With(slog.String("component", "file_validator")),
		maxBytes:   maxBytes,
		extensions: normalized,
	}
}

// MaxBytes returns the upload size limit
func (v *FileValidator) MaxBytes() int64 {
	return v.maxBytes
}

// Extensions returns the accepted extensions
func (v *FileValidator) Extensions() []string {
	return append([]string(nil), v.extensions...)
}

// ValidateName checks the extension of filename
func (v *FileValidator) ValidateName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range v.extensions {
		if ext == allowed {
			return nil
		}
	}
	v.logger.Warn("Rejected file with unsupported extension",
		slog.String("file", filename),
		slog.String("extension", ext))
	return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedExtension, ext, strings.Join(v.extensions, ", "))
}

// ValidateSize checks a known file size against the limit
func (v *FileValidator) ValidateSize(filename string, size int64) error {
	if size == 0 {
		v.logger.Warn("Rejected empty file", slog.String("file", filename))
		return fmt.Errorf("%w: %s", ErrEmptyFile, filename)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Rejected oversized file",
			slog.String("file", filename),
			slog.Int64("size", size),
			slog.Int64("max_bytes", v.maxBytes))
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, size, v.maxBytes)
	}
	return nil
}

// ReadUpload validates filename and reads at most the size limit from r.
// The content is returned so the caller can parse it and record its size.
func (v *FileValidator) ReadUpload(filename string, r io.Reader) ([]byte, error) {
	if err := v.ValidateName(filename); err != nil {
		return nil, err
	}

	limited := r
	if v.maxBytes > 0 {
		limited = io.LimitReader(r, v.maxBytes+1)
	}
	data, err := io.ReadAll(limited)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("%w: limit %d", ErrFileTooLarge, v.maxBytes)
		}
		return nil, fmt.Errorf("failed to read upload %s: %w", filename, err)
	}
	if err := v.ValidateSize(filename, int64(len(data))); err != nil {
		return nil, err
	}

	v.logger.Debug("Upload validated",
		slog.String("file", filename),
		slog.Int("size", len(data)))
	return data, nil
}

// ValidateFile checks that path is a readable regular file with an accepted
// extension and size. It returns the file size.
func (v *FileValidator) ValidateFile(path string) (int64, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return 0, fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return 0, fmt.Errorf("%s is a directory, not a file", path)
	}

	if err := v.ValidateName(path); err != nil {
		return 0, err
	}
	if err := v.ValidateSize(path, info.Size()); err != nil {
		return 0, err
	}

	// Check if file is readable by opening it
	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return 0, fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return info.Size(), nil
}
