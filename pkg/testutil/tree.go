package testutil

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/saveswap/pkg/types"
)

// WriteTree creates root and populates it. Keys are slash-separated
// relative paths; a key ending in "/" creates an empty directory.
func WriteTree(t *testing.T, fsys types.FS, root string, files map[string]string) {
	t.Helper()

	if err := fsys.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", root, err)
	}

	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, rel := range keys {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if strings.HasSuffix(rel, "/") {
			if err := fsys.MkdirAll(full, 0755); err != nil {
				t.Fatalf("Failed to create dir %s: %v", full, err)
			}
			continue
		}
		if err := fsys.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("Failed to create parent of %s: %v", full, err)
		}
		if err := fsys.WriteFile(full, []byte(files[rel]), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", full, err)
		}
	}
}

// ReadTree returns every entry under root in WriteTree's format: files
// map to their content, directories to "" under a key ending in "/".
// Links are followed. A missing root yields nil.
func ReadTree(t *testing.T, fsys types.FS, root string) map[string]string {
	t.Helper()

	if _, err := fsys.Stat(root); err != nil {
		return nil
	}
	out := map[string]string{}
	readTree(t, fsys, root, "", out)
	return out
}

func readTree(t *testing.T, fsys types.FS, root, rel string, out map[string]string) {
	t.Helper()

	entries, err := fsys.ReadDir(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("Failed to list %s: %v", rel, err)
	}
	for _, entry := range entries {
		childRel := path.Join(rel, entry.Name())
		full := filepath.Join(root, filepath.FromSlash(childRel))
		info, err := fsys.Stat(full)
		if err != nil {
			t.Fatalf("Failed to stat %s: %v", full, err)
		}
		if info.IsDir() {
			out[childRel+"/"] = ""
			readTree(t, fsys, root, childRel, out)
			continue
		}
		data, err := fsys.ReadFile(full)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", full, err)
		}
		out[childRel] = string(data)
	}
}
