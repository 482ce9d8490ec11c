package level

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultTemplate is the map file naming pattern; %d is the level id.
const DefaultTemplate = "level_%d.mlvl"

//go:embed levels/*.mlvl
var builtin embed.FS

// Source provides the raw contents of map files by level id.
type Source interface {
	Load(ctx context.Context, id int) ([]byte, error)
	IDs() ([]int, error)
}

// FileName returns the file name for a level id under template.
func FileName(template string, id int) string {
	if template == "" {
		template = DefaultTemplate
	}
	return fmt.Sprintf(template, id)
}

// FSSource reads map files from a directory of an fs.FS.
type FSSource struct {
	fsys     fs.FS
	dir      string
	template string
}

// Builtin returns the maps compiled into the binary.
func Builtin() *FSSource {
	return &FSSource{fsys: builtin, dir: "levels", template: DefaultTemplate}
}

// NewFSSource reads maps from dir inside fsys.
func NewFSSource(fsys fs.FS, dir, template string) *FSSource {
	if template == "" {
		template = DefaultTemplate
	}
	return &FSSource{fsys: fsys, dir: dir, template: template}
}

// NewDirSource reads maps from a directory on disk. A leading ~ expands
// to the user's home directory.
func NewDirSource(root, template string) (*FSSource, error) {
	if strings.HasPrefix(root, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("level: cannot expand home directory: %w", err)
		}
		root = filepath.Join(home, root[1:])
	}
	return NewFSSource(os.DirFS(root), ".", template), nil
}

// Load reads the map file for id.
func (s *FSSource) Load(ctx context.Context, id int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &IOError{Level: id, Err: err}
	}
	name := path.Join(s.dir, FileName(s.template, id))
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &IOError{Level: id, Err: fmt.Errorf("%w: %s", ErrNotFound, name)}
	}
	if err != nil {
		return nil, &IOError{Level: id, Err: err}
	}
	return data, nil
}

// IDs lists the level ids present in the source, ascending.
func (s *FSSource) IDs() ([]int, error) {
	entries, err := fs.ReadDir(s.fsys, s.dir)
	if err != nil {
		return nil, fmt.Errorf("level: listing %s: %w", s.dir, err)
	}

	var ids []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		var id int
		if _, err := fmt.Sscanf(e.Name(), s.template, &id); err != nil {
			continue
		}
		if FileName(s.template, id) == e.Name() {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// Read loads and parses the map for id.
func Read(ctx context.Context, src Source, id int) (Grid, error) {
	data, err := src.Load(ctx, id)
	if err != nil {
		return Grid{}, err
	}
	return Parse(data)
}
