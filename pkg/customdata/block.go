package customdata

import (
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// Block is the attribute storage of one editable element.
type Block []byte

// Float reads a float at offset.
func (b Block) Float(offset int) float32 { return getFloat(b[offset : offset+4]) }

// SetFloat writes a float at offset.
func (b Block) SetFloat(offset int, f float32) { putFloat(b[offset:offset+4], f) }

// Int reads an int32 at offset.
func (b Block) Int(offset int) int32 { return getInt(b[offset : offset+4]) }

// SetInt writes an int32 at offset.
func (b Block) SetInt(offset int, v int32) { putInt(b[offset:offset+4], v) }

// Vec3 reads three floats at offset.
func (b Block) Vec3(offset int) kmath.Vec3 {
	return kmath.Vec3{X: b.Float(offset), Y: b.Float(offset + 4), Z: b.Float(offset + 8)}
}

// SetVec3 writes three floats at offset.
func (b Block) SetVec3(offset int, v kmath.Vec3) {
	b.SetFloat(offset, v.X)
	b.SetFloat(offset+4, v.Y)
	b.SetFloat(offset+8, v.Z)
}

// Vec2 reads two floats at offset.
func (b Block) Vec2(offset int) kmath.Vec2 {
	return kmath.Vec2{X: b.Float(offset), Y: b.Float(offset + 4)}
}

// SetVec2 writes two floats at offset.
func (b Block) SetVec2(offset int, v kmath.Vec2) {
	b.SetFloat(offset, v.X)
	b.SetFloat(offset+4, v.Y)
}

// BlockLayer is a layer of an editable domain, stored at Offset in every block.
type BlockLayer struct {
	Type   Type
	Name   string
	UID    int32
	Offset int
}

// BlockData is the layer layout of one editable domain.
type BlockData struct {
	Layers []BlockLayer
	Size   int
}

// BlockSet is implemented by whatever owns the blocks of a domain, so a
// layout change can rewrite them in place.
type BlockSet interface {
	EachBlock(fn func(blk *Block))
}

// Descs implements Layout.
func (d *BlockData) Descs() []Desc {
	descs := make([]Desc, len(d.Layers))
	for i, l := range d.Layers {
		descs[i] = Desc{Type: l.Type, Name: l.Name, UID: l.UID}
	}
	return descs
}

// TotalLayers returns the number of layers.
func (d *BlockData) TotalLayers() int {
	return len(d.Layers)
}

// Clone returns an independent copy of the layout.
func (d *BlockData) Clone() BlockData {
	return BlockData{Layers: append([]BlockLayer(nil), d.Layers...), Size: d.Size}
}

// HasLayer reports whether any layer of type t exists.
func (d *BlockData) HasLayer(t Type) bool {
	return d.LayerIndex(t) != -1
}

// NumLayers counts the layers of type t.
func (d *BlockData) NumLayers(t Type) int {
	n := 0
	for i := range d.Layers {
		if d.Layers[i].Type == t {
			n++
		}
	}
	return n
}

// LayerIndex returns the index of the first layer of type t, or -1.
func (d *BlockData) LayerIndex(t Type) int {
	return d.LayerIndexN(t, 0)
}

// LayerIndexN returns the index of the n-th layer of type t, or -1.
func (d *BlockData) LayerIndexN(t Type, n int) int {
	for i := range d.Layers {
		if d.Layers[i].Type != t {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	return -1
}

// Offset returns the block offset of the first layer of type t, or -1.
func (d *BlockData) Offset(t Type) int {
	return d.OffsetN(t, 0)
}

// OffsetN returns the block offset of the n-th layer of type t, or -1.
func (d *BlockData) OffsetN(t Type, n int) int {
	if i := d.LayerIndexN(t, n); i != -1 {
		return d.Layers[i].Offset
	}
	return -1
}

// AddLayer appends a layer to the layout and returns its index. Existing
// blocks are not touched; see Realloc.
func (d *BlockData) AddLayer(t Type, name string, uid int32) int {
	d.Layers = append(d.Layers, BlockLayer{Type: t, Name: name, UID: uid, Offset: d.Size})
	d.Size += Info(t).Size
	return len(d.Layers) - 1
}

// RemoveLayer drops layer i and repacks the offsets.
func (d *BlockData) RemoveLayer(i int) {
	d.Layers = append(d.Layers[:i], d.Layers[i+1:]...)
	d.Size = 0
	for j := range d.Layers {
		d.Layers[j].Offset = d.Size
		d.Size += Info(d.Layers[j].Type).Size
	}
}

// Alloc returns a new block with every layer at its default value.
func (d *BlockData) Alloc() Block {
	blk := make(Block, d.Size)
	d.SetDefaults(blk)
	return blk
}

// SetDefaults resets every layer of blk to its default value.
func (d *BlockData) SetDefaults(blk Block) {
	for _, l := range d.Layers {
		info := Info(l.Type)
		dst := blk[l.Offset : l.Offset+info.Size]
		if info.Default != nil {
			copy(dst, info.Default)
		} else {
			clear(dst)
		}
	}
}

// ConvertBlock rebuilds blk, laid out per old, into the current layout.
// Layers missing from old get their default value.
func (d *BlockData) ConvertBlock(old *BlockData, blk Block) Block {
	out := d.Alloc()
	for _, l := range d.Layers {
		src := old.match(l.Type, l.Name, l.UID)
		if src == nil || blk == nil {
			continue
		}
		size := Info(l.Type).Size
		copy(out[l.Offset:l.Offset+size], blk[src.Offset:src.Offset+size])
	}
	return out
}

// Realloc converts every block in set from the old layout to the current one.
func (d *BlockData) Realloc(old *BlockData, set BlockSet) {
	set.EachBlock(func(blk *Block) {
		*blk = d.ConvertBlock(old, *blk)
	})
}

// match finds the layer with the same identity. Morph target layers may
// share a name, so the uid takes part in the comparison.
func (d *BlockData) match(t Type, name string, uid int32) *BlockLayer {
	for i := range d.Layers {
		l := &d.Layers[i]
		if l.Type == t && l.Name == name && l.UID == uid {
			return l
		}
	}
	return nil
}

// CopyBlockLayout replaces dst's layout with the layers of src allowed by mask.
func CopyBlockLayout(src Layout, dst *BlockData, mask Mask) {
	*dst = BlockData{}
	for _, desc := range src.Descs() {
		if mask.Has(desc.Type) {
			dst.AddLayer(desc.Type, desc.Name, desc.UID)
		}
	}
}

// MergeBlockLayout adds the layers of src allowed by mask that dst does not
// have yet, keeping dst's own layers. Blocks in set are converted to the
// new layout. It reports whether the layout changed.
func MergeBlockLayout(src Layout, dst *BlockData, mask Mask, set BlockSet) bool {
	old := dst.Clone()
	changed := false
	for _, desc := range src.Descs() {
		if !mask.Has(desc.Type) || dst.match(desc.Type, desc.Name, desc.UID) != nil {
			continue
		}
		dst.AddLayer(desc.Type, desc.Name, desc.UID)
		changed = true
	}
	if changed && set != nil {
		dst.Realloc(&old, set)
	}
	return changed
}
