package asc

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Stable(t *testing.T) {
	r := DefaultRegistry()

	for _, tag := range KnownTags {
		first := r.IDOf(tag)
		second := r.IDOf(tag)
		assert.NotEqual(t, NoTypeID, first, "tag %s", tag)
		assert.Equal(t, first, second, "tag %s", tag)
	}

	unknown := TypeTag(99)
	assert.Equal(t, NoTypeID, r.IDOf(unknown))
	assert.Equal(t, NoTypeID, r.IDOf(unknown))
}

func TestRegistry_TagOf(t *testing.T) {
	r := DefaultRegistry()

	tag, ok := r.TagOf(DefaultTypeIDs()[TagUint8Array])
	require.True(t, ok)
	assert.Equal(t, TagUint8Array, tag)

	_, ok = r.TagOf(NoTypeID)
	assert.False(t, ok)
	_, ok = r.TagOf(1234)
	assert.False(t, ok)
}

func TestNewRegistry(t *testing.T) {
	tests := []struct {
		name    string
		ids     map[TypeTag]TypeID
		wantErr bool
		tags    []TypeTag
	}{
		{"empty", map[TypeTag]TypeID{}, false, []TypeTag{}},
		{"zero ids are skipped", map[TypeTag]TypeID{TagString: 3, TagArrayBuffer: 0}, false, []TypeTag{TagString}},
		{"unknown tag", map[TypeTag]TypeID{TypeTag(17): 3}, true, nil},
		{"duplicate id", map[TypeTag]TypeID{TagString: 3, TagUint8Array: 3}, true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.ids)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tags, r.Tags())
		})
	}
}

func TestBuildRegistry(t *testing.T) {
	calls := map[TypeTag]int{}
	r, err := BuildRegistry(func(tag TypeTag) (TypeID, error) {
		calls[tag]++
		if tag == TagArrayUint8Array {
			return NoTypeID, nil
		}
		return TypeID(10 + tag), nil
	})
	require.NoError(t, err)

	for _, tag := range KnownTags {
		assert.Equal(t, 1, calls[tag], "tag %s asked once", tag)
	}
	assert.Equal(t, TypeID(10), r.IDOf(TagString))
	assert.Equal(t, NoTypeID, r.IDOf(TagArrayUint8Array))

	_, err = BuildRegistry(func(TypeTag) (TypeID, error) { return 0, stderrors.New("trap") })
	assert.Error(t, err)
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.Equal(t, NoTypeID, r.IDOf(TagString))
	_, ok := r.TagOf(1)
	assert.False(t, ok)
}

func TestTypeTag_String(t *testing.T) {
	assert.Equal(t, "Uint8Array", TagUint8Array.String())
	assert.Equal(t, "TypeTag(9)", TypeTag(9).String())
}

func TestDefaultTypeIDs_Fresh(t *testing.T) {
	ids := DefaultTypeIDs()
	ids[TagUint8Array] = 99
	delete(ids, TagString)

	again := DefaultTypeIDs()
	if again[TagUint8Array] != 5 || again[TagString] != 2 {
		t.Fatalf("DefaultTypeIDs changed after caller mutation: %v", again)
	}
	r := DefaultRegistry()
	if r.IDOf(TagUint8Array) != 5 {
		t.Fatalf("DefaultRegistry Uint8Array id = %d, want 5", r.IDOf(TagUint8Array))
	}
}

func TestNewRegistry_CopiesInput(t *testing.T) {
	ids := DefaultTypeIDs()
	r, err := NewRegistry(ids)
	if err != nil {
		t.Fatal(err)
	}
	ids[TagString] = 77
	if got := r.IDOf(TagString); got != 2 {
		t.Fatalf("registry String id = %d after input mutation, want 2", got)
	}
	if _, ok := r.TagOf(77); ok {
		t.Fatal("registry picked up an id added after construction")
	}
}
