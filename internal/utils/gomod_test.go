package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axonbind/internal/errors"
)

func TestFindModule(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/shop\n\ngo 1.23\n"), 0o644))
	nested := filepath.Join(root, "internal", "orders")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	mod, err := FindModule(nested)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", mod.Path)
	assert.Equal(t, "1.23", mod.GoVersion)

	wantDir, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, wantDir, mod.Dir)
}

func TestParseModuleName(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
		code    errors.ErrorCode
	}{
		{name: "valid", file: "go.mod", content: "module example.com/app\n", want: "example.com/app"},
		{name: "not a go.mod", file: "mod.txt", content: "module x\n", code: errors.ValidationErrorCode},
		{name: "missing module line", file: "go.mod", content: "go 1.22\n", code: errors.LoadErrorCode},
		{name: "syntax error", file: "go.mod", content: "module \"unterminated\n", code: errors.LoadErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			got, err := ParseModuleName(path)
			if tt.want != "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}

			var axonErr errors.AxonError
			require.True(t, errors.As(err, &axonErr))
			assert.Equal(t, tt.code, axonErr.ErrorCode())
		})
	}
}

func TestParseModuleNameMissingFile(t *testing.T) {
	_, err := ParseModuleName(filepath.Join(t.TempDir(), "go.mod"))

	var axonErr errors.AxonError
	require.True(t, errors.As(err, &axonErr))
	assert.Equal(t, errors.FileSystemErrorCode, axonErr.ErrorCode())
}
