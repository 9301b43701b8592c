package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/spritepack/pkg/errors"
	"github.com/matzehuels/spritepack/pkg/manifest"
	"github.com/matzehuels/spritepack/pkg/sprite"
)

// inputs is what a command was asked to pack.
type inputs struct {
	// Manifest is set when the sheet is described by a spritepack.toml.
	Manifest *manifest.Manifest
	// Images are the image files, in packing order.
	Images []string
}

// resolveInputs interprets positional arguments:
//
//   - no arguments: ./spritepack.toml
//   - one .toml file, or a directory containing spritepack.toml: that manifest
//   - otherwise image files and directories; directories contribute their
//     images sorted by name (not recursive)
func resolveInputs(args []string) (inputs, error) {
	if len(args) == 0 {
		args = []string{manifest.FileName}
	}
	if len(args) == 1 {
		if path, ok := manifestPath(args[0]); ok {
			m, err := manifest.Load(path)
			if err != nil {
				return inputs{}, err
			}
			images, err := m.Resolve()
			if err != nil {
				return inputs{}, err
			}
			return inputs{Manifest: m, Images: images}, nil
		}
	}

	images, err := expandImages(args)
	if err != nil {
		return inputs{}, err
	}
	return inputs{Images: images}, nil
}

// manifestPath reports whether arg names a manifest, directly or as the
// spritepack.toml inside a directory.
func manifestPath(arg string) (string, bool) {
	if strings.EqualFold(filepath.Ext(arg), ".toml") {
		return arg, true
	}
	info, err := os.Stat(arg)
	if err != nil || !info.IsDir() {
		return "", false
	}
	path := filepath.Join(arg, manifest.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func expandImages(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no such file: %s", arg)
		}
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", arg, err)
		}
		var found []string
		for _, e := range entries {
			if !e.IsDir() && sprite.IsImagePath(e.Name()) {
				found = append(found, filepath.Join(arg, e.Name()))
			}
		}
		slices.Sort(found)
		out = append(out, found...)
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no images found")
	}
	return out, nil
}

// writeFile writes data to path, or to stdout if path is empty.
func writeFile(data []byte, path string) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
