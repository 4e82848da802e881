package echolab

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// rawPatterns are the basename globs FindRaw collects, covering the raw
// sample file and its optional bottom-detection/depth sidecar files.
var rawPatterns = []string{"*.raw", "*.bot", "*.out"}

// trawl recursively walks uri via vfs, collecting every entry whose
// basename matches pattern, grounded on the teacher's search.trawl.
func trawl(vfs *tiledb.VFS, pattern, uri string, items []string) ([]string, error) {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		return items, err
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			return items, err
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items, err = trawl(vfs, pattern, dir, items)
		if err != nil {
			return items, err
		}
	}

	return items, nil
}

// FindRaw recursively searches uri (a local directory or an object-store
// URI reachable through TileDB VFS, e.g. s3://bucket/prefix) for raw
// EK60/ES60/ES70/ME70 files and their bottom-detection sidecars, grounded
// on the teacher's search.FindGsf generalized from a single `*.gsf` pattern
// to the three extensions this format family uses. configURI, if non-empty,
// names a TileDB config file supplying object-store credentials; unlike the
// teacher, which panics on every setup error, failures here are returned so
// a caller (e.g. the CLI) can report them per §7's no-panic error design.
func FindRaw(uri, configURI string) ([]string, error) {
	var (
		config *tiledb.Config
		err    error
	)

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, err
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, err
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, err
	}
	defer vfs.Free()

	items := make([]string, 0)
	for _, pattern := range rawPatterns {
		items, err = trawl(vfs, pattern, uri, items)
		if err != nil {
			return nil, err
		}
	}

	return items, nil
}
