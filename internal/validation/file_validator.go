package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "indicli/internal/errors"
)

// supported input extensions, lower case
var supportedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// FileValidator checks candidate input files before the loader touches them,
// so obviously broken paths are rejected with a clear message instead of a
// parser error.
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a file validator.
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger.With(slog.String("component", "validation"))}
}

// ValidateInputFile verifies that path names a readable, non-empty file with
// a supported wide-table extension. All failures are DATA_FORMAT errors.
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return apperrors.NewDataFormatError("input file does not exist: "+path, err)
	}
	if err != nil {
		return apperrors.NewDataFormatError("cannot stat input file: "+path, err)
	}
	if info.IsDir() {
		return apperrors.NewDataFormatError("input path is a directory: "+path, nil)
	}
	if info.Size() == 0 {
		return apperrors.NewDataFormatError("input file is empty: "+path, nil)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return apperrors.NewDataFormatError("unsupported input format "+ext+" (want .csv, .xlsx or .xls)", nil)
	}

	// Excel lock files left behind by an open workbook.
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return apperrors.NewDataFormatError("input file is an Excel temporary file: "+path, nil)
	}

	f, err := os.Open(path)
	if err != nil {
		return apperrors.NewDataFormatError("input file is not readable: "+path, err)
	}
	f.Close()

	v.logger.Debug("input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))

	return nil
}
