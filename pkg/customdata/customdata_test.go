package customdata

import (
	"testing"

	kmath "github.com/Faultbox/meshkit/pkg/math"
)

type blockSlice []Block

func (s blockSlice) EachBlock(fn func(blk *Block)) {
	for i := range s {
		fn(&s[i])
	}
}

func TestTypeFromName(t *testing.T) {
	for ty := Type(0); ty < typeCount; ty++ {
		got, ok := TypeFromName(ty.String())
		if !ok || got != ty {
			t.Errorf("TypeFromName(%q) = %v, %v; want %v", ty.String(), got, ok, ty)
		}
	}
	if _, ok := TypeFromName("nope"); ok {
		t.Error("expected unknown name to fail")
	}
}

func TestMasks(t *testing.T) {
	if MaskMesh.VMask.Has(TypeShapeKey) {
		t.Error("array meshes must not accept morph target layers")
	}
	if !MaskBMesh.VMask.Has(TypeShapeKey) || !MaskBMesh.VMask.Has(TypeShapeKeyIndex) {
		t.Error("editable meshes must accept morph target layers")
	}
	u := MaskMesh.Union(MeshMasks{VMask: TypeShapeKeyIndex.Mask()})
	if !u.VMask.Has(TypeShapeKeyIndex) || !u.VMask.Has(TypePropFloat) {
		t.Errorf("Union lost bits: %b", u.VMask)
	}
}

func TestCopyLayoutFiltersAndSizes(t *testing.T) {
	var src BlockData
	src.AddLayer(TypePropFloat, "weight", 0)
	src.AddLayer(TypeShapeKey, "Basis", 1)
	src.AddLayer(TypeOrigIndex, "", 0)

	var dst Data
	CopyLayout(&src, &dst, MaskMesh.VMask|TypeOrigIndex.Mask(), AllocCalloc, 5)

	if dst.HasLayer(TypeShapeKey) {
		t.Error("shape key layer leaked through mask")
	}
	if got := dst.Count(); got != 5 {
		t.Errorf("Count() = %d, want 5", got)
	}
	if got := dst.Layer(TypeOrigIndex).Int(3); got != OrigIndexNone {
		t.Errorf("orig index default = %d, want %d", got, OrigIndexNone)
	}
	if got := dst.Layer(TypePropFloat).Float(4); got != 0 {
		t.Errorf("float default = %v, want 0", got)
	}
}

func TestCopyLayoutNoStorage(t *testing.T) {
	src := Data{}
	src.AddLayer(TypeUV, "map", AllocCalloc, 2)
	var dst Data
	CopyLayout(&src, &dst, MaskMesh.LMask, AllocLayout, 0)
	if !dst.HasLayer(TypeUV) {
		t.Fatal("layout not copied")
	}
	if dst.Count() != -1 {
		t.Errorf("Count() = %d, want -1 for unbacked layers", dst.Count())
	}
}

func TestMergeBlockLayoutKeepsExisting(t *testing.T) {
	var dst BlockData
	dst.AddLayer(TypeBevelWeight, "", 0)
	blocks := blockSlice{dst.Alloc(), dst.Alloc()}
	blocks[0].SetFloat(dst.Offset(TypeBevelWeight), 0.25)

	src := Data{}
	src.AddLayer(TypePropInt, "id", AllocCalloc, 1)
	src.AddLayer(TypeOrigIndex, "", AllocCalloc, 1)

	changed := MergeBlockLayout(&src, &dst, MaskBMesh.VMask, blocks)
	if !changed {
		t.Fatal("expected layout change")
	}
	if dst.HasLayer(TypeOrigIndex) {
		t.Error("masked-out layer merged")
	}
	if dst.TotalLayers() != 2 {
		t.Fatalf("TotalLayers() = %d, want 2", dst.TotalLayers())
	}
	if got := blocks[0].Float(dst.Offset(TypeBevelWeight)); got != 0.25 {
		t.Errorf("existing value lost after realloc: %v", got)
	}
	if len(blocks[1]) != dst.Size {
		t.Errorf("block size = %d, want %d", len(blocks[1]), dst.Size)
	}
	if MergeBlockLayout(&src, &dst, MaskBMesh.VMask, blocks) {
		t.Error("second merge should be a no-op")
	}
}

func TestTransferRoundTrip(t *testing.T) {
	src := Data{}
	src.AddLayer(TypePropFloat, "w", AllocCalloc, 3)
	src.AddLayer(TypeUV, "uv", AllocCalloc, 3)
	src.Layers[0].SetFloat(2, 1.5)
	src.Layers[1].SetVec2(2, kmath.Vec2{X: 0.25, Y: 0.75})

	var layout BlockData
	CopyBlockLayout(&src, &layout, MaskBMesh.LMask)
	layout.AddLayer(TypeColor, "col", 0)

	var blk Block
	ToBlock(&src, &layout, 2, &blk, true)
	if got := blk.Float(layout.Offset(TypePropFloat)); got != 1.5 {
		t.Errorf("float = %v, want 1.5", got)
	}
	if got := blk.Vec2(layout.Offset(TypeUV)); got != (kmath.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("uv = %v", got)
	}
	off := layout.Offset(TypeColor)
	if blk[off] != 255 || blk[off+3] != 255 {
		t.Errorf("color default not applied: %v", blk[off:off+4])
	}

	var out Data
	CopyLayout(&layout, &out, MaskMesh.LMask, AllocCalloc, 1)
	FromBlock(&layout, &out, blk, 0)
	if got := out.NamedLayer(TypeUV, "uv").Vec2(0); got != (kmath.Vec2{X: 0.25, Y: 0.75}) {
		t.Errorf("uv after FromBlock = %v", got)
	}
	if got := out.NamedLayer(TypeColor, "col"); got == nil || got.Data[0] != 255 {
		t.Errorf("color after FromBlock = %v", got)
	}
}

func TestToBlockWithoutDefaults(t *testing.T) {
	var layout BlockData
	layout.AddLayer(TypeShapeKeyIndex, "", 0)
	blk := layout.Alloc()
	blk.SetInt(0, 7)
	ToBlock(&Data{}, &layout, 0, &blk, false)
	if got := blk.Int(0); got != 7 {
		t.Errorf("value overwritten without useDefaults: %d", got)
	}
	ToBlock(&Data{}, &layout, 0, &blk, true)
	if got := blk.Int(0); got != OrigIndexNone {
		t.Errorf("default not applied: %d", got)
	}
}

func TestRemoveLayerRepacks(t *testing.T) {
	var d BlockData
	d.AddLayer(TypeShapeKey, "a", 1)
	d.AddLayer(TypeCrease, "", 0)
	d.RemoveLayer(0)
	if d.Size != 4 || d.Layers[0].Offset != 0 {
		t.Errorf("after remove: size %d offset %d", d.Size, d.Layers[0].Offset)
	}
}

func TestShapeKeyLayersMatchByUID(t *testing.T) {
	var old BlockData
	old.AddLayer(TypeShapeKey, "Key", 1)
	old.AddLayer(TypeShapeKey, "Key", 2)
	blk := old.Alloc()
	blk.SetVec3(old.OffsetN(TypeShapeKey, 1), kmath.Vec3{X: 9})

	cur := old.Clone()
	cur.RemoveLayer(0)
	got := cur.ConvertBlock(&old, blk)
	if v := got.Vec3(cur.Offset(TypeShapeKey)); v.X != 9 {
		t.Errorf("converted value = %v, want X=9", v)
	}
}
