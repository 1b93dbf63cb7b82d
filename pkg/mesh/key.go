package mesh

import (
	"fmt"

	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// KeyType selects how key blocks combine.
type KeyType uint8

const (
	// KeyNormal blocks are absolute positions interpolated in sequence.
	KeyNormal KeyType = iota
	// KeyRelative blocks are offsets against their Relative basis block.
	KeyRelative
)

// KeyBlock is one morph target.
type KeyBlock struct {
	UID      int32        `yaml:"uid"`
	Name     string       `yaml:"name"`
	Relative int          `yaml:"relative"` // index of the basis block
	Data     []kmath.Vec3 `yaml:"data"`
	TotElem  int          `yaml:"tot_elem"`
}

// Key is the ordered set of morph targets of a mesh.
type Key struct {
	Type   KeyType     `yaml:"type"`
	Blocks []*KeyBlock `yaml:"blocks"`

	// UIDGen is the next uid to hand out. Zero means it was never
	// initialized.
	UIDGen int32 `yaml:"uid_gen"`

	// Active is the 1-based index of the block being edited, 0 for none.
	Active int `yaml:"active,omitempty"`
}

// NewKey returns an empty key set with an initialized uid generator.
func NewKey(t KeyType) *Key {
	return &Key{Type: t, UIDGen: 1}
}

// RefKey returns the reference block, the first one in the list.
func (k *Key) RefKey() *KeyBlock {
	if len(k.Blocks) == 0 {
		return nil
	}
	return k.Blocks[0]
}

// ActiveIndex returns the 1-based index of the active block. An unset or
// out of range Active falls back to the reference block; a key set with no
// blocks returns 0.
func (k *Key) ActiveIndex() int {
	if len(k.Blocks) == 0 {
		return 0
	}
	if k.Active < 1 || k.Active > len(k.Blocks) {
		return 1
	}
	return k.Active
}

// Block returns the block at index i, or nil when out of range.
func (k *Key) Block(i int) *KeyBlock {
	if i < 0 || i >= len(k.Blocks) {
		return nil
	}
	return k.Blocks[i]
}

// BlockIndex returns the position of kb in the list, or -1.
func (k *Key) BlockIndex(kb *KeyBlock) int {
	for i, b := range k.Blocks {
		if b == kb {
			return i
		}
	}
	return -1
}

// FindUID returns the block with the given uid, or nil.
func (k *Key) FindUID(uid int32) *KeyBlock {
	for _, kb := range k.Blocks {
		if kb.UID == uid {
			return kb
		}
	}
	return nil
}

// AddBlock appends a new empty block and assigns it the next uid. An
// empty name is replaced by "Basis" for the first block and "Key N"
// afterwards.
func (k *Key) AddBlock(name string) *KeyBlock {
	if name == "" {
		if len(k.Blocks) == 0 {
			name = "Basis"
		} else {
			name = fmt.Sprintf("Key %d", len(k.Blocks))
		}
	}
	if k.UIDGen == 0 {
		k.UIDGen = 1
	}
	kb := &KeyBlock{UID: k.UIDGen, Name: name}
	k.UIDGen++
	k.Blocks = append(k.Blocks, kb)
	if k.Active == 0 {
		k.Active = 1
	}
	return kb
}

// AddBlockFromMesh appends a block holding a copy of the mesh positions.
func (k *Key) AddBlockFromMesh(name string, m *Mesh) *KeyBlock {
	kb := k.AddBlock(name)
	kb.Data = make([]kmath.Vec3, len(m.Verts))
	for i, v := range m.Verts {
		kb.Data[i] = v.Co
	}
	kb.TotElem = len(kb.Data)
	return kb
}

// RegenerateUIDs assigns sequential uids to every block in order.
func (k *Key) RegenerateUIDs() {
	k.UIDGen = 1
	for _, kb := range k.Blocks {
		kb.UID = k.UIDGen
		k.UIDGen++
	}
}

// IsBasis reports whether another block of a relative key uses the block
// at index as its basis.
func (k *Key) IsBasis(index int) bool {
	if k.Type != KeyRelative {
		return false
	}
	for i, kb := range k.Blocks {
		if i != index && kb.Relative == index {
			return true
		}
	}
	return false
}
