// Package harvest enumerates and decodes harvested metadata records
// from a directory tree, typically a checkout of an OpenGeoMetadata
// repository. One .json file is one record.
package harvest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/eliotjordan/ogm2sqlite/internal/aardvark"
)

// Files returns the paths of all .json record files under root, sorted
// so runs are deterministic. Dot-directories (.git and friends) are
// skipped. An I/O failure during enumeration fails the whole run; there
// is no partial-listing mode.
func Files(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("harvest: walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadRecord decodes one record file. Numbers decode as json.Number so
// values round-trip into the stored payload without float mangling.
func ReadRecord(path string) (aardvark.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("harvest: open %s: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.UseNumber()
	var rec aardvark.Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("harvest: decode %s: %w", path, err)
	}
	return rec, nil
}
