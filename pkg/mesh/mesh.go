// Package mesh defines the array-based mesh used for storage: flat vertex,
// edge, loop and polygon arrays plus per-domain attribute layers and an
// optional morph key set.
package mesh

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// Validation errors.
var (
	ErrVertexOutOfRange = errors.New("vertex index out of range")
	ErrEdgeOutOfRange   = errors.New("edge index out of range")
	ErrLoopOutOfRange   = errors.New("polygon loop span out of range")
	ErrEdgeMismatch     = errors.New("loop edge does not connect loop vertices")
	ErrLayerSize        = errors.New("layer length does not match element count")
)

// VertFlag holds vertex state bits.
type VertFlag uint8

const (
	VertSelect VertFlag = 1 << 0
	VertHide   VertFlag = 1 << 4
)

// EdgeFlag holds edge state bits.
type EdgeFlag uint16

const (
	EdgeSelect EdgeFlag = 1 << 0
	EdgeDraw   EdgeFlag = 1 << 1 // drawn in wireframe overlays
	EdgeSeam   EdgeFlag = 1 << 2
	EdgeHide   EdgeFlag = 1 << 4
	EdgeSharp  EdgeFlag = 1 << 9
)

// PolyFlag holds polygon state bits.
type PolyFlag uint8

const (
	PolySmooth PolyFlag = 1 << 0
	PolySelect PolyFlag = 1 << 1
	PolyHide   PolyFlag = 1 << 4
)

// CDFlag records which optional per-element weights the mesh uses.
type CDFlag uint8

const (
	CDFlagVertBWeight CDFlag = 1 << 0
	CDFlagEdgeBWeight CDFlag = 1 << 1
	CDFlagEdgeCrease  CDFlag = 1 << 2
)

// Vertex is a mesh vertex.
type Vertex struct {
	Co      kmath.Vec3 `yaml:"co"`
	Flag    VertFlag   `yaml:"flag,omitempty"`
	BWeight uint8      `yaml:"bweight,omitempty"`
}

// Edge connects two vertices.
type Edge struct {
	V1      int32    `yaml:"v1"`
	V2      int32    `yaml:"v2"`
	Flag    EdgeFlag `yaml:"flag,omitempty"`
	BWeight uint8    `yaml:"bweight,omitempty"`
	Crease  uint8    `yaml:"crease,omitempty"`
}

// Loop is one corner of a polygon.
type Loop struct {
	V int32 `yaml:"v"`
	E int32 `yaml:"e"`
}

// Poly is a polygon made of TotLoop consecutive loops.
type Poly struct {
	LoopStart int32    `yaml:"loop_start"`
	TotLoop   int32    `yaml:"tot_loop"`
	MatNr     int16    `yaml:"mat_nr,omitempty"`
	Flag      PolyFlag `yaml:"flag,omitempty"`
}

// SelectType tags the domain of a selection history record.
type SelectType uint8

const (
	SelectVert SelectType = iota
	SelectEdge
	SelectFace
)

// String returns the domain name.
func (t SelectType) String() string {
	switch t {
	case SelectVert:
		return "vert"
	case SelectEdge:
		return "edge"
	case SelectFace:
		return "face"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// SelectRecord is one entry of the selection history.
type SelectRecord struct {
	Type  SelectType `yaml:"type"`
	Index int32      `yaml:"index"`
}

// Runtime holds derived data that is recomputed on demand.
type Runtime struct {
	VertNormals   []kmath.Vec3 `yaml:"-"`
	NormalsDirty  bool         `yaml:"-"`
	MultiresDirty bool         `yaml:"-"`
}

// Mesh is the array-based mesh.
type Mesh struct {
	ID   uuid.UUID `yaml:"id"`
	Name string    `yaml:"name"`

	Verts []Vertex `yaml:"verts"`
	Edges []Edge   `yaml:"edges"`
	Loops []Loop   `yaml:"loops"`
	Polys []Poly   `yaml:"polys"`

	VData customdata.Data `yaml:"vdata,omitempty"`
	EData customdata.Data `yaml:"edata,omitempty"`
	LData customdata.Data `yaml:"ldata,omitempty"`
	PData customdata.Data `yaml:"pdata,omitempty"`

	Key *Key `yaml:"key,omitempty"`

	Select  []SelectRecord `yaml:"select,omitempty"`
	ActFace int32          `yaml:"act_face"`
	CDFlag  CDFlag         `yaml:"cd_flag,omitempty"`

	// Evaluated marks a mesh produced by evaluation rather than the
	// authoritative original. Evaluated meshes never carry morph data.
	Evaluated bool `yaml:"-"`

	Runtime Runtime `yaml:"-"`
}

// New returns an empty mesh with a fresh id.
func New(name string) *Mesh {
	return &Mesh{
		ID:      uuid.New(),
		Name:    name,
		ActFace: -1,
		Runtime: Runtime{NormalsDirty: true},
	}
}

// TotVert returns the vertex count.
func (m *Mesh) TotVert() int { return len(m.Verts) }

// TotEdge returns the edge count.
func (m *Mesh) TotEdge() int { return len(m.Edges) }

// TotLoop returns the loop count.
func (m *Mesh) TotLoop() int { return len(m.Loops) }

// TotPoly returns the polygon count.
func (m *Mesh) TotPoly() int { return len(m.Polys) }

// PolyLoops returns the loops of polygon i.
func (m *Mesh) PolyLoops(i int) []Loop {
	p := m.Polys[i]
	return m.Loops[p.LoopStart : p.LoopStart+p.TotLoop]
}

// PolyNormal computes the normal of polygon i from the vertex array.
func (m *Mesh) PolyNormal(i int) kmath.Vec3 {
	loops := m.PolyLoops(i)
	pts := make([]kmath.Vec3, len(loops))
	for j, l := range loops {
		pts[j] = m.Verts[l.V].Co
	}
	return kmath.PolygonNormal(pts)
}

// NormalsAreDirty reports whether cached vertex normals must be recomputed.
func (m *Mesh) NormalsAreDirty() bool {
	return m.Runtime.NormalsDirty || len(m.Runtime.VertNormals) != len(m.Verts)
}

// TagNormalsDirty invalidates cached normals.
func (m *Mesh) TagNormalsDirty() {
	m.Runtime.NormalsDirty = true
	m.Runtime.VertNormals = nil
}

// VertexNormals returns the cached vertex normals, computing them first
// when they are dirty. Each vertex normal is the normalized sum of the
// normals of the polygons using it.
func (m *Mesh) VertexNormals() []kmath.Vec3 {
	if !m.NormalsAreDirty() {
		return m.Runtime.VertNormals
	}
	normals := make([]kmath.Vec3, len(m.Verts))
	for i := range m.Polys {
		n := m.PolyNormal(i)
		for _, l := range m.PolyLoops(i) {
			normals[l.V] = normals[l.V].Add(n)
		}
	}
	for i := range normals {
		if normals[i].IsZero() {
			// Loose vertices point away from the origin, like a sphere.
			normals[i] = m.Verts[i].Co.Normalize()
			continue
		}
		normals[i] = normals[i].Normalize()
	}
	m.Runtime.VertNormals = normals
	m.Runtime.NormalsDirty = false
	return normals
}

// ClearGeometryCache drops every derived runtime value.
func (m *Mesh) ClearGeometryCache() {
	m.TagNormalsDirty()
}

// TopologyChanged marks multires displacement as needing a rebuild, when
// the mesh has any.
func (m *Mesh) TopologyChanged() {
	if m.LData.HasLayer(customdata.TypeMultiresDisp) {
		m.Runtime.MultiresDirty = true
	}
}

// Copy returns a deep copy of the mesh, including its key set.
func (m *Mesh) Copy() (*Mesh, error) {
	var out Mesh
	if err := deepcopy.Copy(&out, m); err != nil {
		return nil, fmt.Errorf("copying mesh %q: %w", m.Name, err)
	}
	return &out, nil
}

// Validate checks that every index stored in the mesh is in range, that
// loop edges connect their loop vertices and that every backed layer holds
// one value per element of its domain.
func (m *Mesh) Validate() error {
	for _, dom := range []struct {
		name  string
		data  *customdata.Data
		count int
	}{
		{"vertex", &m.VData, len(m.Verts)},
		{"edge", &m.EData, len(m.Edges)},
		{"loop", &m.LData, len(m.Loops)},
		{"poly", &m.PData, len(m.Polys)},
	} {
		for _, l := range dom.data.Layers {
			if l.Data == nil {
				continue
			}
			if want := dom.count * customdata.Info(l.Type).Size; len(l.Data) != want {
				return fmt.Errorf("%s layer %s %q holds %d bytes, want %d: %w",
					dom.name, l.Type, l.Name, len(l.Data), want, ErrLayerSize)
			}
		}
	}

	nv := int32(len(m.Verts))
	ne := int32(len(m.Edges))
	for i, e := range m.Edges {
		if e.V1 < 0 || e.V1 >= nv || e.V2 < 0 || e.V2 >= nv {
			return fmt.Errorf("edge %d: %w", i, ErrVertexOutOfRange)
		}
	}
	for i, p := range m.Polys {
		if p.LoopStart < 0 || p.TotLoop < 0 || int(p.LoopStart+p.TotLoop) > len(m.Loops) {
			return fmt.Errorf("poly %d: %w", i, ErrLoopOutOfRange)
		}
		loops := m.PolyLoops(i)
		for j, l := range loops {
			if l.V < 0 || l.V >= nv {
				return fmt.Errorf("poly %d loop %d: %w", i, j, ErrVertexOutOfRange)
			}
			if l.E < 0 || l.E >= ne {
				return fmt.Errorf("poly %d loop %d: %w", i, j, ErrEdgeOutOfRange)
			}
			next := loops[(j+1)%len(loops)].V
			e := m.Edges[l.E]
			if !((e.V1 == l.V && e.V2 == next) || (e.V2 == l.V && e.V1 == next)) {
				return fmt.Errorf("poly %d loop %d: %w", i, j, ErrEdgeMismatch)
			}
		}
	}
	return nil
}
