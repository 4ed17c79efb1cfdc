package catalog

import (
	"strings"

	"github.com/matzehuels/modlaunch/pkg/errors"
)

// Identity is a (symbolic name, version) pair. Equality is exact on both fields.
type Identity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// String renders name@version, or the bare name when Version is empty.
func (id Identity) String() string {
	if id.Version == "" {
		return id.Name
	}
	return id.Name + "@" + id.Version
}

// ParseIdentity parses "name@version" or a bare "name" (empty version).
func ParseIdentity(s string) (Identity, error) {
	name, ver, _ := strings.Cut(strings.TrimSpace(s), "@")
	id := Identity{Name: strings.TrimSpace(name), Version: strings.TrimSpace(ver)}
	if err := errors.ValidateModuleName(id.Name); err != nil {
		return Identity{}, err
	}
	if err := errors.ValidateVersionString(id.Version); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// ParseIdentities parses each string with [ParseIdentity], stopping at the
// first error.
func ParseIdentities(ss []string) ([]Identity, error) {
	ids := make([]Identity, 0, len(ss))
	for _, s := range ss {
		id, err := ParseIdentity(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
