package cmd

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/dollar/log"
)

// PathVar is the environment variable listing template directories,
// separated by [os.PathListSeparator].
const PathVar = "DOLLAR_PATH"

// Search locates templates given by name rather than by path.
type Search struct {
	Path []string `help:"Template search directory, searched before DOLLAR_PATH" placeholder:"DIR" short:"I" type:"path"`
}

// dirs returns the search directories in order: --path directories followed
// by those of $DOLLAR_PATH, without duplicates.
func (s Search) dirs() []string {
	delim := string(os.PathListSeparator)

	// Prefix items are prepended one at a time, so the last lands first.
	prefix := slices.Clone(s.Path)
	slices.Reverse(prefix)

	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathVar)),
		mung.WithDelim(delim),
		mung.WithPrefixItems(prefix...),
	).String()

	var dirs []string

	for dir := range strings.SplitSeq(list, delim) {
		if dir != "" && !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	return dirs
}

// locate returns the file named by name: name itself when it exists, or else
// the first match in the search directories.
func (s Search) locate(ctx context.Context, name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	dirs := s.dirs()

	if !filepath.IsAbs(name) {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)

			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}

			log.DebugContext(ctx, "template found on search path",
				slog.String("name", name),
				slog.String("path", path),
			)

			return path, nil
		}
	}

	return "", ErrTemplateNotFound.With(
		slog.String("name", name),
		slog.Any("search", dirs),
	)
}

// read returns the source of the template named by name, and the name to
// report it by. An empty name or "-" reads standard input.
func (s Search) read(ctx context.Context, name string) (src, display string, err error) {
	if name == "" || name == stdinSource {
		data, err := io.ReadAll(stdinFrom(ctx))
		if err != nil {
			return "", "<stdin>", ErrReadTemplate.Wrap(err)
		}

		return string(data), "<stdin>", nil
	}

	path, err := s.locate(ctx, name)
	if err != nil {
		return "", name, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", name, ErrTemplateNotFound.Wrap(err).With(slog.String("name", name))
		}

		return "", path, ErrReadTemplate.Wrap(err).With(slog.String("file", path))
	}

	return string(data), path, nil
}
