// Package catalog discovers module archives and indexes their metadata.
//
// A [Scanner] walks one or more directory roots for *.jar and *.zip archives,
// reads each archive's META-INF/MANIFEST.MF and produces a [Catalog]: an
// immutable snapshot mapping every module [Identity] to its archive path and
// its exported and imported capabilities.
//
// # Discovery order
//
// Roots are walked in the order given, and each root in lexical order. The
// first archive seen for an identity wins; later duplicates are reported as
// [Conflict] values and logged, and the catalog size does not change. The
// same rule applies to exported capability names: the first module seen
// exporting a name is its exporter.
//
// # Failure handling
//
// A scan never fails because of a single bad entry. Unreadable archives,
// archives without a manifest and manifests without a symbolic name or
// version are logged and skipped. A missing root is logged and skipped.
//
// # Caching
//
// When [Scanner.Cache] is set, parsed manifests are stored keyed by canonical
// path, size and modification time, so an unchanged archive is not reopened
// on the next scan.
package catalog
