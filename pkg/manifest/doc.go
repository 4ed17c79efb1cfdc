// Package manifest reads module metadata from archive manifests.
//
// A module archive is a ZIP container (usually a .jar) carrying a
// META-INF/MANIFEST.MF entry. The manifest declares the module identity
// (Bundle-SymbolicName, Bundle-Version) and two capability headers:
// Export-Package lists what the module provides, Import-Package lists what it
// needs from other modules.
//
// # Capability Headers
//
// [ParseHeader] turns a header value into a list of [Capability] values:
//
//	caps := manifest.ParseHeader(`pkg.a;version="1.2.0",pkg.b`)
//	// caps[0] = {Name: "pkg.a", Version: "1.2.0"}
//	// caps[1] = {Name: "pkg.b", Version: ""}
//
// The grammar is comma-separated fields, each holding one or more names and
// `;`-separated clauses. A clause is either an attribute (key=value) or a
// directive (key:=value). Double quotes protect separators inside values.
// Malformed fields are dropped one at a time; ParseHeader never fails.
//
// # Manifest Files
//
// [Read] parses the main section of a MANIFEST.MF (including 72-column
// continuation lines) and [OpenArchive] does the same for the manifest
// embedded in an archive on disk.
package manifest
