// Package customdata implements per-element attribute layers shared by the
// array mesh and the editable mesh.
//
// Array meshes keep one column per layer (Data). Editable meshes keep one
// fixed-size block per element with every layer at a known byte offset
// (BlockData). Layer values are copied byte-for-byte between the two.
package customdata

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Type identifies the kind of values stored in a layer.
type Type int

const (
	TypePropFloat     Type = iota // generic float attribute
	TypePropInt                   // generic int32 attribute
	TypeOrigIndex                 // index of the source element, -1 when unknown
	TypeBevelWeight               // float bevel weight (editable only)
	TypeCrease                    // float crease (editable only)
	TypeShapeKey                  // per-vertex morph target position (editable only)
	TypeShapeKeyIndex             // per-vertex original index used to reconcile morph targets
	TypeUV                        // 2D texture coordinate
	TypeColor                     // RGBA byte color
	TypeMultiresDisp              // multires displacement grid sizes (loop domain)
	typeCount
)

// OrigIndexNone marks an element with no originating element.
const OrigIndexNone int32 = -1

// TypeInfo describes how a layer type is stored.
type TypeInfo struct {
	Name    string
	Size    int
	Default []byte // nil means zero-filled
}

var typeInfo = [typeCount]TypeInfo{
	TypePropFloat:     {Name: "prop_float", Size: 4},
	TypePropInt:       {Name: "prop_int", Size: 4},
	TypeOrigIndex:     {Name: "orig_index", Size: 4, Default: int32Bytes(OrigIndexNone)},
	TypeBevelWeight:   {Name: "bevel_weight", Size: 4},
	TypeCrease:        {Name: "crease", Size: 4},
	TypeShapeKey:      {Name: "shape_key", Size: 12},
	TypeShapeKeyIndex: {Name: "shape_key_index", Size: 4, Default: int32Bytes(OrigIndexNone)},
	TypeUV:            {Name: "uv", Size: 8},
	TypeColor:         {Name: "color", Size: 4, Default: []byte{255, 255, 255, 255}},
	TypeMultiresDisp:  {Name: "multires_disp", Size: 4},
}

// Info returns the storage description for t.
func Info(t Type) TypeInfo {
	if t < 0 || t >= typeCount {
		panic(fmt.Sprintf("customdata: unknown layer type %d", t))
	}
	return typeInfo[t]
}

// String returns the registered type name.
func (t Type) String() string {
	if t < 0 || t >= typeCount {
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
	return typeInfo[t].Name
}

// TypeFromName resolves a registered type name.
func TypeFromName(name string) (Type, bool) {
	for t := Type(0); t < typeCount; t++ {
		if typeInfo[t].Name == name {
			return t, true
		}
	}
	return 0, false
}

// Mask is a set of layer types.
type Mask uint64

// Mask returns the single-type mask for t.
func (t Type) Mask() Mask {
	return 1 << uint(t)
}

// Has reports whether t is in the mask.
func (m Mask) Has(t Type) bool {
	return m&t.Mask() != 0
}

// MaskOf builds a mask from a list of types.
func MaskOf(types ...Type) Mask {
	var m Mask
	for _, t := range types {
		m |= t.Mask()
	}
	return m
}

// MeshMasks holds one mask per element domain.
type MeshMasks struct {
	VMask Mask
	EMask Mask
	LMask Mask
	PMask Mask
}

// Union returns the per-domain union of two mask sets.
func (m MeshMasks) Union(other MeshMasks) MeshMasks {
	return MeshMasks{
		VMask: m.VMask | other.VMask,
		EMask: m.EMask | other.EMask,
		LMask: m.LMask | other.LMask,
		PMask: m.PMask | other.PMask,
	}
}

var (
	generic = MaskOf(TypePropFloat, TypePropInt)

	// MaskMesh is what array meshes may store. Morph target shadow layers,
	// original indices and the float weight layers never reach them.
	MaskMesh = MeshMasks{
		VMask: generic,
		EMask: generic,
		LMask: generic | MaskOf(TypeUV, TypeColor, TypeMultiresDisp),
		PMask: generic,
	}

	// MaskBMesh is what editable meshes may store.
	MaskBMesh = MeshMasks{
		VMask: generic | MaskOf(TypeBevelWeight, TypeShapeKey, TypeShapeKeyIndex),
		EMask: generic | MaskOf(TypeBevelWeight, TypeCrease),
		LMask: generic | MaskOf(TypeUV, TypeColor, TypeMultiresDisp),
		PMask: generic,
	}

	// MaskDerived is what evaluated meshes may store.
	MaskDerived = MaskMesh.Union(MeshMasks{
		VMask: MaskOf(TypeOrigIndex, TypeShapeKeyIndex),
		EMask: MaskOf(TypeOrigIndex),
		PMask: MaskOf(TypeOrigIndex),
	})
)

// AllocMode controls how a copied layout is backed.
type AllocMode int

const (
	// AllocCalloc allocates zero-initialized storage for every layer.
	AllocCalloc AllocMode = iota
	// AllocLayout creates the layers with no storage (used for empty meshes).
	AllocLayout
)

func int32Bytes(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func getFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putFloat(b []byte, f float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(f))
}

func getInt(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func putInt(b []byte, v int32) {
	binary.LittleEndian.PutUint32(b, uint32(v))
}
