// Package configutil reads layered json5 configuration files.
package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the path of the local override file for name, for
// `config/codex.json5` it is `config/codex.local.json5`.
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

func readFile[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, false, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// os.ErrNotExist is returned if neither exists.
func ReadConfig[T any](name string) (T, error) {
	out, foundDefault, err := readFile[T](name)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	override, foundLocal, err := readFile[T](localPath)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it goes up the filesystem from the cwd
// until the root to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}
