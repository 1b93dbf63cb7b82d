// Package scene holds the objects that refer to meshes by vertex index.
package scene

import (
	"github.com/google/uuid"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ParentType selects how an object follows its parent.
type ParentType uint8

const (
	ParObject ParentType = iota
	ParVert1             // follows one vertex of the parent mesh
	ParVert3             // follows the plane of three parent vertices
)

var parentTypeNames = map[ParentType]string{
	ParObject: "object",
	ParVert1:  "vertex",
	ParVert3:  "vertex_tri",
}

func (t ParentType) String() string {
	if s, ok := parentTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParentTypeFromName parses the names returned by String.
func ParentTypeFromName(name string) (ParentType, bool) {
	for t, s := range parentTypeNames {
		if s == name {
			return t, true
		}
	}
	return ParObject, false
}

// UsesVertices reports whether ParVerts is meaningful for t.
func (t ParentType) UsesVertices() bool {
	return t == ParVert1 || t == ParVert3
}

// Modifier is a non-destructive operation attached to an object.
type Modifier interface {
	ModifierName() string
	modifier()
}

// HookModifier binds a set of mesh vertices, by index, to a target.
type HookModifier struct {
	Name    string
	Indices []int32
	Force   float32
}

func (m *HookModifier) ModifierName() string { return m.Name }
func (*HookModifier) modifier() {}

// SubsurfModifier subdivides the mesh when evaluated.
type SubsurfModifier struct {
	Name   string
	Levels int
}

func (m *SubsurfModifier) ModifierName() string { return m.Name }
func (*SubsurfModifier) modifier() {}

// Object places a mesh in the scene.
type Object struct {
	ID   uuid.UUID
	Name string
	Data *mesh.Mesh

	Parent   *Object
	ParType  ParentType
	ParVerts [3]int32

	Modifiers []Modifier
}

// Main is the registry of everything loaded.
type Main struct {
	Meshes  []*mesh.Mesh
	Objects []*Object
}

// NewMain returns an empty registry.
func NewMain() *Main {
	return &Main{}
}

// AddMesh registers me and returns it.
func (m *Main) AddMesh(me *mesh.Mesh) *mesh.Mesh {
	m.Meshes = append(m.Meshes, me)
	return me
}

// AddObject creates an object using data.
func (m *Main) AddObject(name string, data *mesh.Mesh) *Object {
	ob := &Object{ID: uuid.New(), Name: name, Data: data}
	m.Objects = append(m.Objects, ob)
	return ob
}

// FindObject looks an object up by name.
func (m *Main) FindObject(name string) *Object {
	for _, ob := range m.Objects {
		if ob.Name == name {
			return ob
		}
	}
	return nil
}

// FindMesh looks a mesh up by id.
func (m *Main) FindMesh(id uuid.UUID) *mesh.Mesh {
	for _, me := range m.Meshes {
		if me.ID == id {
			return me
		}
	}
	return nil
}

// ObjectsUsing returns the objects whose data is me.
func (m *Main) ObjectsUsing(me *mesh.Mesh) []*Object {
	var out []*Object
	for _, ob := range m.Objects {
		if ob.Data == me {
			out = append(out, ob)
		}
	}
	return out
}

// AddHook appends a hook modifier to ob.
func (ob *Object) AddHook(name string, indices ...int32) *HookModifier {
	hmd := &HookModifier{Name: name, Indices: indices, Force: 1}
	ob.Modifiers = append(ob.Modifiers, hmd)
	return hmd
}

// Hooks returns the hook modifiers of ob in stack order.
func (ob *Object) Hooks() []*HookModifier {
	var out []*HookModifier
	for _, md := range ob.Modifiers {
		if hmd, ok := md.(*HookModifier); ok {
			out = append(out, hmd)
		}
	}
	return out
}

// SetVertexParent parents ob to vertices of parent's mesh. One vertex
// selects ParVert1, three select ParVert3.
func (ob *Object) SetVertexParent(parent *Object, verts ...int32) {
	ob.Parent = parent
	ob.ParVerts = [3]int32{}
	switch len(verts) {
	case 1:
		ob.ParType = ParVert1
	case 3:
		ob.ParType = ParVert3
	default:
		ob.ParType = ParObject
		return
	}
	copy(ob.ParVerts[:], verts)
}
