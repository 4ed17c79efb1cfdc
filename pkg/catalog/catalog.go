package catalog

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/matzehuels/modlaunch/pkg/manifest"
)

// Record is everything the catalog knows about one module archive.
type Record struct {
	Identity
	Path     string                `json:"path"` // canonical, symlink-resolved, absolute
	Root     string                `json:"root"` // root the archive was found under
	Exports  []manifest.Capability `json:"exports,omitempty"`
	Imports  []manifest.Capability `json:"imports,omitempty"`
	Fragment bool                  `json:"fragment,omitempty"`
}

// Conflict records an identity provided by more than one archive.
type Conflict struct {
	Identity
	Kept    string `json:"kept"`
	Ignored string `json:"ignored"`
}

// ConflictPolicy decides whether candidate replaces existing when both carry
// the same identity. Returning false keeps existing.
type ConflictPolicy func(existing, candidate *Record) bool

// FirstWins keeps the first archive discovered for an identity.
func FirstWins(existing, candidate *Record) bool { return false }

// PreferRoot prefers archives under root, falling back to [FirstWins].
func PreferRoot(root string) ConflictPolicy {
	return func(existing, candidate *Record) bool {
		return existing.Root != root && candidate.Root == root
	}
}

// Catalog is an immutable snapshot of discovered modules.
// All methods are safe for concurrent use.
type Catalog struct {
	records   map[Identity]*Record
	order     []Identity
	exporters map[string]Identity
	byName    map[string][]Identity
	conflicts []Conflict
}

// New builds a catalog from records in discovery order using [FirstWins].
// Records with an empty name or version are dropped.
func New(records ...Record) *Catalog {
	b := newBuilder(FirstWins)
	for i := range records {
		r := records[i]
		b.add(&r)
	}
	return b.finish()
}

// Path returns the archive path of id.
func (c *Catalog) Path(id Identity) (string, bool) {
	r, ok := c.records[id]
	if !ok {
		return "", false
	}
	return r.Path, true
}

// Record returns the record of id.
func (c *Catalog) Record(id Identity) (*Record, bool) {
	r, ok := c.records[id]
	return r, ok
}

// Records returns every record in discovery order.
func (c *Catalog) Records() []*Record {
	out := make([]*Record, len(c.order))
	for i, id := range c.order {
		out[i] = c.records[id]
	}
	return out
}

// Identities returns every identity in discovery order.
func (c *Catalog) Identities() []Identity {
	return slices.Clone(c.order)
}

// Len returns the number of modules.
func (c *Catalog) Len() int { return len(c.order) }

// Exporter returns the module that exports capability, if any.
func (c *Catalog) Exporter(capability string) (Identity, bool) {
	id, ok := c.exporters[capability]
	return id, ok
}

// ByName returns every identity with the given symbolic name, in discovery order.
func (c *Catalog) ByName(name string) []Identity {
	return slices.Clone(c.byName[name])
}

// Names returns the distinct symbolic names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for n := range c.byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Conflicts returns the duplicate identities seen during the scan.
func (c *Catalog) Conflicts() []Conflict {
	return slices.Clone(c.conflicts)
}

// fingerprintSpace namespaces catalog fingerprints.
var fingerprintSpace = uuid.MustParse("6f1d9a52-3c1e-4f7b-9a0e-5b8c2d4e7f10")

// Fingerprint is a stable name-based UUID of the catalog's identities and
// paths. Two scans that found the same archives have the same fingerprint.
func (c *Catalog) Fingerprint() string {
	lines := make([]string, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, id.String()+"\t"+c.records[id].Path)
	}
	slices.Sort(lines)
	return uuid.NewSHA1(fingerprintSpace, []byte(strings.Join(lines, "\n"))).String()
}

type builder struct {
	policy ConflictPolicy
	cat    *Catalog
}

func newBuilder(policy ConflictPolicy) *builder {
	if policy == nil {
		policy = FirstWins
	}
	return &builder{
		policy: policy,
		cat: &Catalog{
			records:   make(map[Identity]*Record),
			exporters: make(map[string]Identity),
			byName:    make(map[string][]Identity),
		},
	}
}

// add inserts r and returns the conflict it caused, if any. A record whose
// path is already registered for the same identity is ignored silently.
func (b *builder) add(r *Record) (*Conflict, bool) {
	if r.Name == "" || r.Version == "" {
		return nil, false
	}
	existing, ok := b.cat.records[r.Identity]
	if !ok {
		b.cat.records[r.Identity] = r
		b.cat.order = append(b.cat.order, r.Identity)
		return nil, true
	}
	if existing.Path == r.Path {
		return nil, false
	}
	kept, ignored := existing, r
	if b.policy(existing, r) {
		kept, ignored = r, existing
		b.cat.records[r.Identity] = r
	}
	c := Conflict{Identity: r.Identity, Kept: kept.Path, Ignored: ignored.Path}
	b.cat.conflicts = append(b.cat.conflicts, c)
	return &c, false
}

func (b *builder) finish() *Catalog {
	c := b.cat
	for _, id := range c.order {
		r := c.records[id]
		c.byName[id.Name] = append(c.byName[id.Name], id)
		for _, e := range r.Exports {
			if _, taken := c.exporters[e.Name]; !taken {
				c.exporters[e.Name] = id
			}
		}
	}
	return c
}
