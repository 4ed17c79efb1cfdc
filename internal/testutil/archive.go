// Package testutil provides helpers for building module archives in tests.
package testutil

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
)

// Bundle describes the manifest of a test archive.
// Empty fields are left out of the manifest.
type Bundle struct {
	Name     string // Bundle-SymbolicName
	Version  string // Bundle-Version
	Exports  string // Export-Package
	Imports  string // Import-Package
	Fragment string // Fragment-Host
	Extra    map[string]string
}

// Manifest renders b as MANIFEST.MF text, folding long lines at 72 bytes
// the way jar tools do.
func (b Bundle) Manifest() string {
	attrs := map[string]string{
		"Bundle-SymbolicName": b.Name,
		"Bundle-Version":      b.Version,
		"Export-Package":      b.Exports,
		"Import-Package":      b.Imports,
		"Fragment-Host":       b.Fragment,
	}
	for k, v := range b.Extra {
		attrs[k] = v
	}

	var sb strings.Builder
	sb.WriteString("Manifest-Version: 1.0\r\n")
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if attrs[k] == "" {
			continue
		}
		writeFolded(&sb, k+": "+attrs[k])
	}
	sb.WriteString("\r\n")
	return sb.String()
}

func writeFolded(sb *strings.Builder, line string) {
	const width = 72
	first := true
	for len(line) > 0 {
		n := width
		if !first {
			n = width - 1
			sb.WriteByte(' ')
		}
		n = min(n, len(line))
		sb.WriteString(line[:n])
		sb.WriteString("\r\n")
		line = line[n:]
		first = false
	}
}

// WriteArchive writes a jar at dir/file containing b's manifest and returns its path.
func WriteArchive(t testing.TB, dir, file string, b Bundle) string {
	t.Helper()
	return WriteRawArchive(t, dir, file, map[string]string{
		"META-INF/MANIFEST.MF": b.Manifest(),
	})
}

// WriteRawArchive writes a zip at dir/file with the given entries.
func WriteRawArchive(t testing.TB, dir, file string, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return path
}
