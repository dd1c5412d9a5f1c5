package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/toyz/axonbind/internal/errors"
)

// Module is the go.mod that governs a directory
type Module struct {
	Path      string // module path
	Dir       string // directory containing go.mod
	GoVersion string
}

// ParseModuleName extracts the module name from a go.mod file
func ParseModuleName(goModPath string) (string, error) {
	mod, err := parseGoMod(goModPath)
	if err != nil {
		return "", err
	}
	return mod.Path, nil
}

// FindGoModFile searches for go.mod starting from the given directory and walking up
func FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", startDir, err)
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", errors.New(errors.FileSystemErrorCode, fmt.Sprintf("go.mod file not found from %s", startDir)).
		WithSuggestion("run axonbind inside a Go module or pass --module")
}

// FindModule returns the module that governs dir
func FindModule(dir string) (*Module, error) {
	goModPath, err := FindGoModFile(dir)
	if err != nil {
		return nil, err
	}
	return parseGoMod(goModPath)
}

func parseGoMod(goModPath string) (*Module, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, errors.NewValidationError("go.mod path", "a go.mod file", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", cleanPath, err)
	}

	modFile, err := modfile.ParseLax(cleanPath, content, nil)
	if err != nil {
		return nil, errors.Wrap(errors.LoadErrorCode, "failed to parse go.mod file", err).
			WithLocation(errors.SourceLocation{File: cleanPath})
	}
	if modFile.Module == nil {
		return nil, errors.New(errors.LoadErrorCode, "no module declaration found in go.mod").
			WithLocation(errors.SourceLocation{File: cleanPath})
	}

	mod := &Module{
		Path: modFile.Module.Mod.Path,
		Dir:  filepath.Dir(cleanPath),
	}
	if modFile.Go != nil {
		mod.GoVersion = modFile.Go.Version
	}
	return mod, nil
}
