// Package scene provides the authoritative object registry for a
// design session: placement mutation with collision rejection, spatial
// queries, selection state, and change notification. One Manager is
// constructed per open project and passed by reference; it is not a
// singleton.
package scene

import (
	"maps"

	"github.com/chazu/galley/pkg/geom"
)

// Object is a placed design object. Once registered with a Manager the
// Manager owns it; callers hold borrowed references and must mutate
// the transform only through the Manager's mutators.
type Object struct {
	ID         string
	Name       string
	CatalogRef string
	Transform  geom.Transform
	Properties map[string]string
}

// NewObject creates an unregistered object with the given catalog
// reference and an identity transform. The Manager assigns an ID on
// registration.
func NewObject(catalogRef string) *Object {
	return &Object{
		CatalogRef: catalogRef,
		Transform:  geom.IdentityTransform(),
	}
}

// Clone returns a deep copy of the object's persisted state. The copy
// keeps the source's ID; DuplicateObject on the Manager assigns a
// fresh one.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	cp := *o
	if o.Properties != nil {
		cp.Properties = maps.Clone(o.Properties)
	}
	return &cp
}
