// Package bmesh implements the editable mesh: a topological structure with
// explicit adjacency, and the conversions between it and the array mesh in
// package mesh.
//
// Elements live in per-type arenas and reference each other through
// integer handles. Every vertex owns a disk cycle of its edges, every edge
// a radial cycle of the loops using it, and every face a cyclic list of
// loops. Removed elements stay in the arena and are skipped by iteration.
//
// A BMesh is not safe for concurrent use.
package bmesh

import (
	"iter"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// Element handles. The zero value is a valid handle; absence is -1.
type (
	VertID int32
	EdgeID int32
	LoopID int32
	FaceID int32
)

// Absent handles.
const (
	NoVert VertID = -1
	NoEdge EdgeID = -1
	NoLoop LoopID = -1
	NoFace FaceID = -1
)

// ElemType is the domain of an element. Values are bits so they can be
// combined into a domain set.
type ElemType uint8

const (
	ElemVert ElemType = 1 << iota
	ElemEdge
	ElemLoop
	ElemFace

	ElemAll = ElemVert | ElemEdge | ElemLoop | ElemFace
)

// String returns the domain name.
func (t ElemType) String() string {
	switch t {
	case ElemVert:
		return "vert"
	case ElemEdge:
		return "edge"
	case ElemLoop:
		return "loop"
	case ElemFace:
		return "face"
	default:
		return "mixed"
	}
}

// Elem is a handle tagged with its domain.
type Elem struct {
	Type ElemType
	ID   int32
}

// VertElem tags a vertex handle.
func VertElem(v VertID) Elem { return Elem{Type: ElemVert, ID: int32(v)} }

// EdgeElem tags an edge handle.
func EdgeElem(e EdgeID) Elem { return Elem{Type: ElemEdge, ID: int32(e)} }

// FaceElem tags a face handle.
func FaceElem(f FaceID) Elem { return Elem{Type: ElemFace, ID: int32(f)} }

// HFlag holds editable element state bits.
type HFlag uint8

const (
	HSelect HFlag = 1 << iota
	HHide
	HSeam
	HSmooth // faces: smooth shading; edges: not sharp
	HDraw
	HTag
)

type diskLink struct {
	Next, Prev EdgeID
}

// Vert is a vertex.
type Vert struct {
	Co    kmath.Vec3
	No    kmath.Vec3
	Flag  HFlag
	Index int
	Data  customdata.Block

	edge  EdgeID // any edge of the disk cycle
	alive bool
}

// Edge connects two distinct vertices.
type Edge struct {
	V1, V2 VertID
	Flag   HFlag
	Index  int
	Data   customdata.Block

	v1Disk, v2Disk diskLink
	loop           LoopID // any loop of the radial cycle
	alive          bool
}

// Loop is the corner of a face at vertex V, followed by edge E.
type Loop struct {
	V     VertID
	E     EdgeID
	F     FaceID
	Index int
	Data  customdata.Block

	next, prev             LoopID
	radialNext, radialPrev LoopID
	alive                  bool
}

// Face is a polygon.
type Face struct {
	No    kmath.Vec3
	MatNr int16
	Flag  HFlag
	Index int
	Data  customdata.Block
	Len   int

	first LoopID
	alive bool
}

// BMesh is the editable mesh.
type BMesh struct {
	verts []Vert
	edges []Edge
	loops []Loop
	faces []Face

	totVert, totEdge, totLoop, totFace int
	totVertSel, totEdgeSel, totFaceSel int

	VData customdata.BlockData
	EData customdata.BlockData
	LData customdata.BlockData
	PData customdata.BlockData

	// ActFace is the active face, or NoFace.
	ActFace FaceID
	// ShapeNr is the 1-based index of the active morph target, 0 for none.
	ShapeNr int

	selected   []Elem
	indexDirty ElemType
}

// New returns an empty editable mesh.
func New() *BMesh {
	return &BMesh{ActFace: NoFace}
}

// TotVert returns the number of live vertices.
func (bm *BMesh) TotVert() int { return bm.totVert }

// TotEdge returns the number of live edges.
func (bm *BMesh) TotEdge() int { return bm.totEdge }

// TotLoop returns the number of live loops.
func (bm *BMesh) TotLoop() int { return bm.totLoop }

// TotFace returns the number of live faces.
func (bm *BMesh) TotFace() int { return bm.totFace }

// IsEmpty reports whether the mesh has neither elements nor layers.
func (bm *BMesh) IsEmpty() bool {
	return bm.totVert == 0 &&
		bm.VData.TotalLayers() == 0 && bm.EData.TotalLayers() == 0 &&
		bm.LData.TotalLayers() == 0 && bm.PData.TotalLayers() == 0
}

// Vert returns the vertex for a handle. The pointer is only valid until
// the next element is created.
func (bm *BMesh) Vert(v VertID) *Vert { return &bm.verts[v] }

// Edge returns the edge for a handle. The pointer is only valid until
// the next element is created.
func (bm *BMesh) Edge(e EdgeID) *Edge { return &bm.edges[e] }

// Loop returns the loop for a handle. The pointer is only valid until
// the next element is created.
func (bm *BMesh) Loop(l LoopID) *Loop { return &bm.loops[l] }

// Face returns the face for a handle. The pointer is only valid until
// the next element is created.
func (bm *BMesh) Face(f FaceID) *Face { return &bm.faces[f] }

// VertAlive reports whether v refers to a live vertex.
func (bm *BMesh) VertAlive(v VertID) bool {
	return v >= 0 && int(v) < len(bm.verts) && bm.verts[v].alive
}

// EdgeAlive reports whether e refers to a live edge.
func (bm *BMesh) EdgeAlive(e EdgeID) bool {
	return e >= 0 && int(e) < len(bm.edges) && bm.edges[e].alive
}

// FaceAlive reports whether f refers to a live face.
func (bm *BMesh) FaceAlive(f FaceID) bool {
	return f >= 0 && int(f) < len(bm.faces) && bm.faces[f].alive
}

// Verts iterates live vertices in creation order.
func (bm *BMesh) Verts() iter.Seq[VertID] {
	return func(yield func(VertID) bool) {
		for i := range bm.verts {
			if bm.verts[i].alive && !yield(VertID(i)) {
				return
			}
		}
	}
}

// Edges iterates live edges in creation order.
func (bm *BMesh) Edges() iter.Seq[EdgeID] {
	return func(yield func(EdgeID) bool) {
		for i := range bm.edges {
			if bm.edges[i].alive && !yield(EdgeID(i)) {
				return
			}
		}
	}
}

// Faces iterates live faces in creation order.
func (bm *BMesh) Faces() iter.Seq[FaceID] {
	return func(yield func(FaceID) bool) {
		for i := range bm.faces {
			if bm.faces[i].alive && !yield(FaceID(i)) {
				return
			}
		}
	}
}

// FaceFirstLoop returns the first loop of f.
func (bm *BMesh) FaceFirstLoop(f FaceID) LoopID {
	return bm.faces[f].first
}

// FaceLoops iterates the loops of f starting at its first loop.
func (bm *BMesh) FaceLoops(f FaceID) iter.Seq[LoopID] {
	return func(yield func(LoopID) bool) {
		first := bm.faces[f].first
		l := first
		for {
			if !yield(l) {
				return
			}
			l = bm.loops[l].next
			if l == first {
				return
			}
		}
	}
}

// LoopNext returns the following loop of the same face.
func (bm *BMesh) LoopNext(l LoopID) LoopID { return bm.loops[l].next }

// LoopPrev returns the preceding loop of the same face.
func (bm *BMesh) LoopPrev(l LoopID) LoopID { return bm.loops[l].prev }

// LoopRadialNext returns the next loop around the same edge.
func (bm *BMesh) LoopRadialNext(l LoopID) LoopID { return bm.loops[l].radialNext }

// EdgeFirstLoop returns any loop of e's radial cycle, or NoLoop for a wire edge.
func (bm *BMesh) EdgeFirstLoop(e EdgeID) LoopID { return bm.edges[e].loop }

// EdgeLoops iterates the radial cycle of e.
func (bm *BMesh) EdgeLoops(e EdgeID) iter.Seq[LoopID] {
	return func(yield func(LoopID) bool) {
		first := bm.edges[e].loop
		if first == NoLoop {
			return
		}
		l := first
		for {
			if !yield(l) {
				return
			}
			l = bm.loops[l].radialNext
			if l == first {
				return
			}
		}
	}
}

// EdgeFaceCount returns the number of faces using e.
func (bm *BMesh) EdgeFaceCount(e EdgeID) int {
	n := 0
	for range bm.EdgeLoops(e) {
		n++
	}
	return n
}

// VertEdges iterates the disk cycle of v.
func (bm *BMesh) VertEdges(v VertID) iter.Seq[EdgeID] {
	return func(yield func(EdgeID) bool) {
		first := bm.verts[v].edge
		if first == NoEdge {
			return
		}
		e := first
		for {
			if !yield(e) {
				return
			}
			e = bm.diskLinkOf(e, v).Next
			if e == first {
				return
			}
		}
	}
}

// EdgeOtherVert returns the endpoint of e that is not v.
func (bm *BMesh) EdgeOtherVert(e EdgeID, v VertID) VertID {
	ed := &bm.edges[e]
	if ed.V1 == v {
		return ed.V2
	}
	return ed.V1
}

// EdgeExists returns the edge between a and b, or NoEdge.
func (bm *BMesh) EdgeExists(a, b VertID) EdgeID {
	for e := range bm.VertEdges(a) {
		if bm.EdgeOtherVert(e, a) == b {
			return e
		}
	}
	return NoEdge
}

// IndexDirty reports whether the stored indices of any domain in t are stale.
func (bm *BMesh) IndexDirty(t ElemType) bool {
	return bm.indexDirty&t != 0
}

// ElemIndexEnsure renumbers the domains in t whose indices are stale.
// Loops are numbered face by face.
func (bm *BMesh) ElemIndexEnsure(t ElemType) {
	t &= bm.indexDirty
	if t&ElemVert != 0 {
		i := 0
		for v := range bm.Verts() {
			bm.verts[v].Index = i
			i++
		}
	}
	if t&ElemEdge != 0 {
		i := 0
		for e := range bm.Edges() {
			bm.edges[e].Index = i
			i++
		}
	}
	if t&(ElemFace|ElemLoop) != 0 {
		fi, li := 0, 0
		for f := range bm.Faces() {
			if t&ElemFace != 0 {
				bm.faces[f].Index = fi
				fi++
			}
			if t&ElemLoop != 0 {
				for l := range bm.FaceLoops(f) {
					bm.loops[l].Index = li
					li++
				}
			}
		}
	}
	bm.indexDirty &^= t
}

// TranslateVerts moves every vertex in verts by delta.
func (bm *BMesh) TranslateVerts(verts []VertID, delta kmath.Vec3) {
	for _, v := range verts {
		bm.verts[v].Co = bm.verts[v].Co.Add(delta)
	}
}
