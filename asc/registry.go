package asc

import (
	"fmt"
	"sort"

	"github.com/wippyai/ascabi/errors"
)

// TypeTag is the abstract type index a host passes to the guest's
// `id_of_type` export.
type TypeTag uint32

const (
	TagString TypeTag = iota
	TagArrayBuffer
	TagUint8Array
	TagArrayString
	TagArrayUint8Array
)

// TagNone marks objects that have no class id, such as Value and the
// Array<Value> that backs an Array kind.
const TagNone TypeTag = ^TypeTag(0)

var tagNames = [...]string{
	TagString:          "String",
	TagArrayBuffer:     "ArrayBuffer",
	TagUint8Array:      "Uint8Array",
	TagArrayString:     "Array<String>",
	TagArrayUint8Array: "Array<Uint8Array>",
}

// KnownTags lists every tag in index order.
var KnownTags = []TypeTag{TagString, TagArrayBuffer, TagUint8Array, TagArrayString, TagArrayUint8Array}

func (t TypeTag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("TypeTag(%d)", uint32(t))
}

// Valid reports whether t belongs to the closed tag set.
func (t TypeTag) Valid() bool {
	return int(t) < len(tagNames)
}

// TypeID is the runtime class id a guest assigns to a type. Zero means
// "no identity".
type TypeID uint32

// NoTypeID is returned for unknown tags.
const NoTypeID TypeID = 0

// DefaultTypeIDs returns the class ids of the in-process guest. ArrayBuffer
// and String use AssemblyScript's fixed runtime ids. Each call returns a
// fresh map.
func DefaultTypeIDs() map[TypeTag]TypeID {
	return map[TypeTag]TypeID{
		TagArrayBuffer:     1,
		TagString:          2,
		TagUint8Array:      5,
		TagArrayString:     6,
		TagArrayUint8Array: 7,
	}
}

// Registry maps tags to type ids. It is immutable once built, so readers may
// share it without locking.
type Registry struct {
	ids  map[TypeTag]TypeID
	tags map[TypeID]TypeTag
}

// NewRegistry builds a registry from a tag to id table. Zero ids are left
// out; unknown tags and duplicate ids are rejected.
func NewRegistry(ids map[TypeTag]TypeID) (*Registry, error) {
	r := &Registry{
		ids:  make(map[TypeTag]TypeID, len(ids)),
		tags: make(map[TypeID]TypeTag, len(ids)),
	}
	for tag, id := range ids {
		if !tag.Valid() {
			return nil, errors.New(errors.PhaseRegistry, errors.KindUnknownType).
				Detail("unknown type tag %d", uint32(tag)).
				Value(tag).
				Build()
		}
		if id == NoTypeID {
			continue
		}
		if other, dup := r.tags[id]; dup {
			return nil, errors.New(errors.PhaseRegistry, errors.KindInvalidData).
				Detail("type id %d assigned to both %s and %s", id, other, tag).
				Build()
		}
		r.ids[tag] = id
		r.tags[id] = tag
	}
	return r, nil
}

// DefaultRegistry returns a registry over DefaultTypeIDs.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultTypeIDs())
	if err != nil {
		panic(err)
	}
	return r
}

// BuildRegistry asks lookup for the id of every known tag exactly once.
// A zero answer means the guest has no such type.
func BuildRegistry(lookup func(TypeTag) (TypeID, error)) (*Registry, error) {
	ids := make(map[TypeTag]TypeID, len(KnownTags))
	for _, tag := range KnownTags {
		id, err := lookup(tag)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseRegistry, errors.KindUnknownType, err, "id_of_type("+tag.String()+")")
		}
		ids[tag] = id
	}
	return NewRegistry(ids)
}

// IDOf returns the id for tag, or NoTypeID when the tag is unknown.
func (r *Registry) IDOf(tag TypeTag) TypeID {
	if r == nil {
		return NoTypeID
	}
	return r.ids[tag]
}

// TagOf maps an id found in an object header back to its tag.
func (r *Registry) TagOf(id TypeID) (TypeTag, bool) {
	if r == nil || id == NoTypeID {
		return 0, false
	}
	tag, ok := r.tags[id]
	return tag, ok
}

// Tags returns the registered tags in index order.
func (r *Registry) Tags() []TypeTag {
	tags := make([]TypeTag, 0, len(r.ids))
	for tag := range r.ids {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
