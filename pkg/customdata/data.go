package customdata

import (
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// Desc is the identity of a layer, independent of its storage.
type Desc struct {
	Type Type
	Name string
	UID  int32
}

// Layout is anything that can enumerate its layers in order.
type Layout interface {
	Descs() []Desc
}

// Layer is one column of an array mesh domain.
type Layer struct {
	Type Type   `yaml:"type"`
	Name string `yaml:"name"`
	UID  int32  `yaml:"uid,omitempty"`
	Data []byte `yaml:"data,omitempty"`
}

func (l *Layer) elem(i int) []byte {
	size := Info(l.Type).Size
	return l.Data[i*size : (i+1)*size]
}

// Float reads element i of a 4-byte float layer.
func (l *Layer) Float(i int) float32 { return getFloat(l.elem(i)) }

// SetFloat writes element i of a 4-byte float layer.
func (l *Layer) SetFloat(i int, f float32) { putFloat(l.elem(i), f) }

// Int reads element i of a 4-byte int layer.
func (l *Layer) Int(i int) int32 { return getInt(l.elem(i)) }

// SetInt writes element i of a 4-byte int layer.
func (l *Layer) SetInt(i int, v int32) { putInt(l.elem(i), v) }

// Vec2 reads element i of an 8-byte layer.
func (l *Layer) Vec2(i int) kmath.Vec2 {
	b := l.elem(i)
	return kmath.Vec2{X: getFloat(b[0:4]), Y: getFloat(b[4:8])}
}

// SetVec2 writes element i of an 8-byte layer.
func (l *Layer) SetVec2(i int, v kmath.Vec2) {
	b := l.elem(i)
	putFloat(b[0:4], v.X)
	putFloat(b[4:8], v.Y)
}

// Data is the set of layers for one domain of an array mesh.
type Data struct {
	Layers []Layer `yaml:"layers,omitempty"`
}

// Descs implements Layout.
func (d *Data) Descs() []Desc {
	descs := make([]Desc, len(d.Layers))
	for i, l := range d.Layers {
		descs[i] = Desc{Type: l.Type, Name: l.Name, UID: l.UID}
	}
	return descs
}

// HasLayer reports whether any layer of type t exists.
func (d *Data) HasLayer(t Type) bool {
	return d.LayerIndex(t) != -1
}

// NumLayers counts the layers of type t.
func (d *Data) NumLayers(t Type) int {
	n := 0
	for i := range d.Layers {
		if d.Layers[i].Type == t {
			n++
		}
	}
	return n
}

// LayerIndex returns the index of the first layer of type t, or -1.
func (d *Data) LayerIndex(t Type) int {
	return d.LayerIndexN(t, 0)
}

// LayerIndexN returns the index of the n-th layer of type t, or -1.
func (d *Data) LayerIndexN(t Type, n int) int {
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

// Layer returns the first layer of type t, or nil.
func (d *Data) Layer(t Type) *Layer {
	if i := d.LayerIndex(t); i != -1 {
		return &d.Layers[i]
	}
	return nil
}

// NamedLayer returns the layer of type t called name, or nil.
func (d *Data) NamedLayer(t Type, name string) *Layer {
	for i := range d.Layers {
		if d.Layers[i].Type == t && d.Layers[i].Name == name {
			return &d.Layers[i]
		}
	}
	return nil
}

// AddLayer appends a layer sized for count elements and returns it.
// Storage is filled with the type's default value.
func (d *Data) AddLayer(t Type, name string, mode AllocMode, count int) *Layer {
	d.Layers = append(d.Layers, Layer{Type: t, Name: name})
	l := &d.Layers[len(d.Layers)-1]
	if mode == AllocCalloc {
		l.Data = allocColumn(t, count)
	}
	return l
}

// Free drops every layer.
func (d *Data) Free() {
	d.Layers = nil
}

// Count returns the element count the layers are sized for, or -1 when
// the domain has no backed layers.
func (d *Data) Count() int {
	for i := range d.Layers {
		if d.Layers[i].Data != nil {
			return len(d.Layers[i].Data) / Info(d.Layers[i].Type).Size
		}
	}
	return -1
}

func allocColumn(t Type, count int) []byte {
	info := Info(t)
	col := make([]byte, info.Size*count)
	if info.Default != nil {
		for i := 0; i < count; i++ {
			copy(col[i*info.Size:], info.Default)
		}
	}
	return col
}

// CopyLayout replaces dst's layers with those of src allowed by mask,
// sized for count elements.
func CopyLayout(src Layout, dst *Data, mask Mask, mode AllocMode, count int) {
	dst.Free()
	MergeLayout(src, dst, mask, mode, count)
}

// MergeLayout adds the layers of src allowed by mask that dst does not
// already have. Existing dst layers are kept untouched.
func MergeLayout(src Layout, dst *Data, mask Mask, mode AllocMode, count int) {
	for _, desc := range src.Descs() {
		if !mask.Has(desc.Type) {
			continue
		}
		if dst.NamedLayer(desc.Type, desc.Name) != nil {
			continue
		}
		l := dst.AddLayer(desc.Type, desc.Name, mode, count)
		l.UID = desc.UID
	}
}
