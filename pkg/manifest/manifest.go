package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zip"
)

// Path is the location of the manifest inside a module archive.
const Path = "META-INF/MANIFEST.MF"

// Main-section keys consumed by the scanner.
const (
	KeySymbolicName = "Bundle-SymbolicName"
	KeyVersion      = "Bundle-Version"
	KeyExport       = "Export-Package"
	KeyImport       = "Import-Package"
	KeyFragmentHost = "Fragment-Host"
)

// Manifest holds the main-section attributes of a MANIFEST.MF.
// Keys are stored as written; lookups through [Manifest.Get] are case-insensitive.
type Manifest map[string]string

// Get returns the value for key, matching the key case-insensitively.
func (m Manifest) Get(key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// SymbolicName returns the module name from Bundle-SymbolicName, without
// directives such as ";singleton:=true". Returns "" when absent or invalid.
//
// Symbolic names follow the module grammar, not the package one: dot-separated
// tokens of letters, digits, '_' and '-' ("com.fasterxml.jackson.core.jackson-databind").
func (m Manifest) SymbolicName() string {
	name, _, _ := strings.Cut(m.Get(KeySymbolicName), ";")
	name = strings.TrimSpace(name)
	if !symbolicNameRe.MatchString(name) {
		return ""
	}
	return name
}

var symbolicNameRe = regexp.MustCompile(`^[\p{L}\p{Nd}_$-]+(\.[\p{L}\p{Nd}_$-]+)*$`)

// Version returns the trimmed Bundle-Version value.
func (m Manifest) Version() string {
	return strings.TrimSpace(m.Get(KeyVersion))
}

// Exports parses the Export-Package header.
func (m Manifest) Exports() []Capability {
	return ParseHeader(m.Get(KeyExport))
}

// Imports parses the Import-Package header.
func (m Manifest) Imports() []Capability {
	return ParseHeader(m.Get(KeyImport))
}

// IsFragment reports whether the archive attaches to a host module and so
// cannot be activated on its own.
func (m Manifest) IsFragment() bool {
	return strings.TrimSpace(m.Get(KeyFragmentHost)) != ""
}

// Read parses the main section of a manifest.
//
// Each "Key: value" line starts an attribute; lines beginning with a single
// space continue the previous value. Parsing stops at the first blank line,
// which ends the main section. Lines without a ':' separator are an error.
func Read(r io.Reader) (Manifest, error) {
	m := Manifest{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var key string
	var value strings.Builder
	flush := func() {
		if key != "" {
			m[key] = value.String()
		}
		key = ""
		value.Reset()
	}

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if text == "" {
			break
		}
		if strings.HasPrefix(text, " ") {
			if key == "" {
				return nil, fmt.Errorf("line %d: continuation without attribute", line)
			}
			value.WriteString(text[1:])
			continue
		}
		flush()
		name, val, ok := strings.Cut(text, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("line %d: malformed attribute %q", line, text)
		}
		key = strings.TrimSpace(name)
		value.WriteString(strings.TrimPrefix(val, " "))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return m, nil
}

// ErrNoManifest is returned by [OpenArchive] when the archive has no manifest entry.
var ErrNoManifest = errors.New("archive has no " + Path)

// OpenArchive reads the manifest embedded in the archive at path.
func OpenArchive(path string) (Manifest, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(f.Name, Path) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", Path, err)
		}
		defer rc.Close()
		m, err := Read(rc)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", Path, err)
		}
		return m, nil
	}
	return nil, ErrNoManifest
}
