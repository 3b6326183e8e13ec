// Package snapshot loads captured account inventories from local JSON files.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tayodev/snapback/internal/core/domain"
	"github.com/tayodev/snapback/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const snapshotExt = ".json"

// FileProvider reads snapshots from a flat directory, one JSON file per
// snapshot, named <snapshot-name>.json. Snapshots are immutable inputs; the
// provider never writes.
type FileProvider struct {
	dir string
}

func NewFileProvider(dir string) (*FileProvider, error) {
	if dir == "" {
		return nil, errors.New(errors.CodeConfigValidation, "snapshot directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeSnapshotNotFound,
			fmt.Sprintf("snapshot directory %q is not accessible", dir),
			"Check the snapshots.dir setting and that the directory exists.")
	}
	if !info.IsDir() {
		return nil, errors.NewUserFacing(errors.CodeConfigValidation,
			fmt.Sprintf("snapshot path %q is not a directory", dir),
			"Point snapshots.dir at the directory holding captured snapshots.")
	}
	return &FileProvider{dir: dir}, nil
}

// Load reads and validates one snapshot by name. The name carries no path
// separators; it maps directly to a file in the snapshot directory.
func (p *FileProvider) Load(_ context.Context, name string) (*domain.Snapshot, error) {
	if name == "" {
		return nil, errors.NewUserFacing(errors.CodeSnapshotNotFound, "snapshot name cannot be empty",
			"Pass the name of a captured snapshot.")
	}
	if strings.ContainsAny(name, `/\`) {
		return nil, errors.NewUserFacing(errors.CodeSnapshotInvalid,
			fmt.Sprintf("snapshot name %q cannot contain path separators", name),
			"Use the bare snapshot name, not a file path.")
	}

	path := filepath.Join(p.dir, name+snapshotExt)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewUserFacing(errors.CodeSnapshotNotFound,
				fmt.Sprintf("snapshot %q not found in %s", name, p.dir),
				"List available snapshots and check the name.")
		}
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("failed to read snapshot file %q", path))
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.WrapUserFacing(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("snapshot file %q is not valid JSON", path),
			"The file may be truncated or hand-edited; re-capture the snapshot.")
	}
	if snap.Name == "" {
		snap.Name = name
	}
	if err := snap.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotInvalid,
			fmt.Sprintf("snapshot %q failed validation", name))
	}
	return &snap, nil
}

// List returns available snapshot names, sorted.
func (p *FileProvider) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSnapshotParseError,
			fmt.Sprintf("failed to list snapshot directory %q", p.dir))
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), snapshotExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), snapshotExt))
	}
	sort.Strings(names)
	return names, nil
}
