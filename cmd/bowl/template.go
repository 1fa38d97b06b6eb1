// Shared helpers for commands that read a template directory or a bundle.
package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jackjohn7/bowl/internal/cache"
	"github.com/jackjohn7/bowl/internal/config"
	"github.com/jackjohn7/bowl/internal/files"
	"github.com/jackjohn7/bowl/pkg/bundle"
)

// buildBundle loads bowl.toml from the working directory, checks that the
// readme exists and collects the template files into a validated bundle.
func (a *app) buildBundle() (config.Config, *bundle.Bundle, error) {
	cfg, err := config.Load(a.workDir)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}

	if err := files.Require(a.workDir, cfg.Options.Readme); err != nil {
		return config.Config{}, nil, fmt.Errorf("%w (the readme path can be set with the \"readme\" option in %s)", err, config.FileName)
	}

	collected, err := files.Collect(a.workDir, cfg.Options.Ignore)
	if err != nil {
		return config.Config{}, nil, sysErr(err)
	}

	b := bundle.New(collected)
	if err := b.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	readme := path.Clean(filepath.ToSlash(strings.TrimSpace(cfg.Options.Readme)))
	if _, ok := b.File(readme); !ok {
		return config.Config{}, nil, fmt.Errorf("%w: %s is excluded by the ignore option in %s", files.ErrMissing, cfg.Options.Readme, config.FileName)
	}

	a.logger.Debug("template collected",
		"name", cfg.Template.Name,
		"version", cfg.Template.Version,
		"files", len(b.Files),
		"bytes", b.Size())
	return cfg, b, nil
}

// readBundle decodes the bundle at file, or the cached bundle called name
// when file is empty.
func (a *app) readBundle(name, file string) (*bundle.Bundle, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("bundle file %s not found", file)
			}
			return nil, sysErr(err)
		}
		defer f.Close()

		b, err := bundle.Read(f)
		if err != nil {
			if errors.Is(err, bundle.ErrMalformed) {
				return nil, fmt.Errorf("decode %s: %w", file, err)
			}
			return nil, sysErr(fmt.Errorf("read %s: %w", file, err))
		}
		a.logger.Debug("bundle read", "path", file, "files", len(b.Files))
		return b, nil
	}

	store, closeStore, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore()

	b, err := store.Get(name)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) || errors.Is(err, bundle.ErrMalformed) || errors.Is(err, config.ErrNameInvalid) || errors.Is(err, config.ErrNameEmpty) {
			return nil, err
		}
		return nil, sysErr(err)
	}
	a.logger.Debug("bundle loaded from cache", "name", name, "files", len(b.Files))
	return b, nil
}

// resolvePath makes p absolute relative to the working directory. A trailing
// separator is kept so callers can tell a directory target from a file.
func (a *app) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	joined := filepath.Join(a.workDir, p)
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		joined += string(filepath.Separator)
	}
	return joined
}
