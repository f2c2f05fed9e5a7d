package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "indicli/internal/errors"
)

func TestFileValidator_ValidateInputFile(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "valid csv",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.WriteFile(path, []byte("country,2020\n"), 0o644))
				return path
			},
		},
		{
			name: "valid xlsx",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
				return path
			},
		},
		{
			name: "missing file",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr: true,
		},
		{
			name: "directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr: true,
		},
		{
			name: "empty file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "empty.csv")
				require.NoError(t, os.WriteFile(path, nil, 0o644))
				return path
			},
			wantErr: true,
		},
		{
			name: "unsupported extension",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "data.parquet")
				require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
				return path
			},
			wantErr: true,
		},
		{
			name: "excel temp file",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "~$data.xlsx")
				require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
				return path
			},
			wantErr: true,
		},
	}

	v := NewFileValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateInputFile(tt.setup(t))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeDataFormat))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
