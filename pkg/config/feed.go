package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/masonry/pkg/content"
	"github.com/matzehuels/masonry/pkg/errors"
)

type tomlFeed struct {
	Item []content.Descriptor `toml:"item"`
}

// ReadFeed reads descriptors from r. JSON is detected by a leading '['.
func ReadFeed(r io.Reader) ([]content.Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' && !bytes.HasPrefix(trimmed, []byte("[[")) {
		var descs []content.Descriptor
		if err := json.Unmarshal(trimmed, &descs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON feed")
		}
		return descs, nil
	}

	var feed tomlFeed
	if _, err := toml.Decode(string(data), &feed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML feed")
	}
	return feed.Item, nil
}

// ImportFeed reads a feed file. Files ending in .json are always parsed as
// JSON.
func ImportFeed(path string) ([]content.Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "feed %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var descs []content.Descriptor
		if err := json.NewDecoder(f).Decode(&descs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
		}
		return descs, nil
	}
	descs, err := ReadFeed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return descs, nil
}

// Paginate splits descs into pages of at most size descriptors. A size of
// zero or less yields a single page.
func Paginate(descs []content.Descriptor, size int) [][]content.Descriptor {
	if size <= 0 || len(descs) <= size {
		if len(descs) == 0 {
			return nil
		}
		return [][]content.Descriptor{descs}
	}
	var pages [][]content.Descriptor
	for start := 0; start < len(descs); start += size {
		pages = append(pages, descs[start:min(start+size, len(descs))])
	}
	return pages
}
