// Package meshio reads and writes scene documents: YAML files holding
// meshes, their key sets and the objects that use them.
package meshio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/scene"
)

// Version is the document format written by Encode.
const Version = 1

// Decoding errors.
var (
	ErrVersion         = errors.New("unsupported document version")
	ErrUnknownMesh     = errors.New("object references an unknown mesh")
	ErrUnknownParent   = errors.New("object references an unknown parent")
	ErrUnknownModifier = errors.New("unknown modifier type")
	ErrParentType      = errors.New("unknown parent type")
)

// Document is the stored form of a scene.
type Document struct {
	Version int          `yaml:"version"`
	Meshes  []*mesh.Mesh `yaml:"meshes"`
	Objects []ObjectDoc  `yaml:"objects,omitempty"`
}

// ObjectDoc is the stored form of a scene object. Meshes are referenced
// by id and parents by name.
type ObjectDoc struct {
	ID        uuid.UUID     `yaml:"id"`
	Name      string        `yaml:"name"`
	Mesh      *uuid.UUID    `yaml:"mesh,omitempty"`
	Parent    string        `yaml:"parent,omitempty"`
	ParType   string        `yaml:"par_type,omitempty"`
	ParVerts  []int32       `yaml:"par_verts,omitempty"`
	Modifiers []ModifierDoc `yaml:"modifiers,omitempty"`
}

// ModifierDoc is the stored form of a modifier.
type ModifierDoc struct {
	Type    string  `yaml:"type"`
	Name    string  `yaml:"name"`
	Indices []int32 `yaml:"indices,omitempty"` // hook
	Force   float32 `yaml:"force,omitempty"`   // hook
	Levels  int     `yaml:"levels,omitempty"`  // subsurf
}

// Modifier type names.
const (
	ModifierHook    = "hook"
	ModifierSubsurf = "subsurf"
)

// Load reads a scene document from path.
func Load(path string) (*scene.Main, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bmain, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return bmain, nil
}

// Save writes bmain to path, creating parent directories as needed.
func Save(path string, bmain *scene.Main) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, bmain); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// Decode reads a document and resolves its references. Every mesh is
// validated.
func Decode(r io.Reader) (*scene.Main, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	return FromDocument(&doc)
}

// Encode writes bmain as a document.
func Encode(w io.Writer, bmain *scene.Main) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToDocument(bmain)); err != nil {
		return err
	}
	return enc.Close()
}

// FromDocument builds a registry from doc.
func FromDocument(doc *Document) (*scene.Main, error) {
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, doc.Version)
	}

	bmain := scene.NewMain()
	for i, me := range doc.Meshes {
		if me == nil {
			continue
		}
		if err := me.Validate(); err != nil {
			return nil, fmt.Errorf("mesh %d (%s): %w", i, me.Name, err)
		}
		// Not stored; meshes are loaded with stale caches.
		me.Runtime = mesh.Runtime{NormalsDirty: true}
		bmain.AddMesh(me)
	}

	byName := make(map[string]*scene.Object, len(doc.Objects))
	for _, od := range doc.Objects {
		ob := &scene.Object{ID: od.ID, Name: od.Name}
		if ob.ID == uuid.Nil {
			ob.ID = uuid.New()
		}
		if od.Mesh != nil {
			ob.Data = bmain.FindMesh(*od.Mesh)
			if ob.Data == nil {
				return nil, fmt.Errorf("object %s: %w: %s", od.Name, ErrUnknownMesh, od.Mesh)
			}
		}
		for _, md := range od.Modifiers {
			m, err := modifierFromDoc(md)
			if err != nil {
				return nil, fmt.Errorf("object %s: %w", od.Name, err)
			}
			ob.Modifiers = append(ob.Modifiers, m)
		}
		bmain.Objects = append(bmain.Objects, ob)
		byName[ob.Name] = ob
	}

	// Parents may appear after their children.
	for i, od := range doc.Objects {
		if od.Parent == "" {
			continue
		}
		ob := bmain.Objects[i]
		ob.Parent = byName[od.Parent]
		if ob.Parent == nil {
			return nil, fmt.Errorf("object %s: %w: %s", od.Name, ErrUnknownParent, od.Parent)
		}
		if od.ParType != "" {
			pt, ok := scene.ParentTypeFromName(od.ParType)
			if !ok {
				return nil, fmt.Errorf("object %s: %w: %s", od.Name, ErrParentType, od.ParType)
			}
			ob.ParType = pt
		}
		copy(ob.ParVerts[:], od.ParVerts)
	}
	return bmain, nil
}

// ToDocument captures bmain. Meshes used by objects but missing from
// the registry are added to the document.
func ToDocument(bmain *scene.Main) *Document {
	doc := &Document{Version: Version}
	seen := map[*mesh.Mesh]bool{}
	addMesh := func(me *mesh.Mesh) {
		if me != nil && !seen[me] {
			seen[me] = true
			doc.Meshes = append(doc.Meshes, me)
		}
	}
	for _, me := range bmain.Meshes {
		addMesh(me)
	}

	for _, ob := range bmain.Objects {
		od := ObjectDoc{ID: ob.ID, Name: ob.Name}
		if ob.Data != nil {
			addMesh(ob.Data)
			id := ob.Data.ID
			od.Mesh = &id
		}
		if ob.Parent != nil {
			od.Parent = ob.Parent.Name
			od.ParType = ob.ParType.String()
			switch ob.ParType {
			case scene.ParVert1:
				od.ParVerts = ob.ParVerts[:1]
			case scene.ParVert3:
				od.ParVerts = ob.ParVerts[:]
			}
		}
		for _, md := range ob.Modifiers {
			od.Modifiers = append(od.Modifiers, modifierToDoc(md))
		}
		doc.Objects = append(doc.Objects, od)
	}
	return doc
}

func modifierFromDoc(md ModifierDoc) (scene.Modifier, error) {
	switch md.Type {
	case ModifierHook:
		return &scene.HookModifier{Name: md.Name, Indices: md.Indices, Force: md.Force}, nil
	case ModifierSubsurf:
		return &scene.SubsurfModifier{Name: md.Name, Levels: md.Levels}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModifier, md.Type)
	}
}

func modifierToDoc(m scene.Modifier) ModifierDoc {
	switch m := m.(type) {
	case *scene.HookModifier:
		return ModifierDoc{Type: ModifierHook, Name: m.Name, Indices: m.Indices, Force: m.Force}
	case *scene.SubsurfModifier:
		return ModifierDoc{Type: ModifierSubsurf, Name: m.Name, Levels: m.Levels}
	default:
		panic(fmt.Sprintf("meshio: unhandled modifier %T", m))
	}
}
