package bmesh

import (
	"errors"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// Topology errors.
var (
	ErrDegenerateEdge = errors.New("edge endpoints are the same vertex")
	ErrDeadElement    = errors.New("element was removed")
	ErrFaceTooSmall   = errors.New("face needs at least 3 vertices")
	ErrDuplicateVert  = errors.New("face uses a vertex more than once")
	ErrEdgeMismatch   = errors.New("face edge does not connect consecutive vertices")
)

func (bm *BMesh) diskLinkOf(e EdgeID, v VertID) *diskLink {
	ed := &bm.edges[e]
	if ed.V1 == v {
		return &ed.v1Disk
	}
	return &ed.v2Disk
}

func (bm *BMesh) diskAppend(e EdgeID, v VertID) {
	link := bm.diskLinkOf(e, v)
	first := bm.verts[v].edge
	if first == NoEdge {
		bm.verts[v].edge = e
		link.Next, link.Prev = e, e
		return
	}
	firstLink := bm.diskLinkOf(first, v)
	last := firstLink.Prev
	link.Next, link.Prev = first, last
	firstLink.Prev = e
	bm.diskLinkOf(last, v).Next = e
}

func (bm *BMesh) diskRemove(e EdgeID, v VertID) {
	link := bm.diskLinkOf(e, v)
	if link.Next == e {
		bm.verts[v].edge = NoEdge
		return
	}
	bm.diskLinkOf(link.Prev, v).Next = link.Next
	bm.diskLinkOf(link.Next, v).Prev = link.Prev
	if bm.verts[v].edge == e {
		bm.verts[v].edge = link.Next
	}
}

func (bm *BMesh) radialAppend(e EdgeID, l LoopID) {
	first := bm.edges[e].loop
	if first == NoLoop {
		bm.edges[e].loop = l
		bm.loops[l].radialNext, bm.loops[l].radialPrev = l, l
		return
	}
	last := bm.loops[first].radialPrev
	bm.loops[l].radialNext, bm.loops[l].radialPrev = first, last
	bm.loops[last].radialNext = l
	bm.loops[first].radialPrev = l
}

func (bm *BMesh) radialRemove(l LoopID) {
	lp := &bm.loops[l]
	e := lp.E
	if lp.radialNext == l {
		bm.edges[e].loop = NoLoop
		return
	}
	bm.loops[lp.radialPrev].radialNext = lp.radialNext
	bm.loops[lp.radialNext].radialPrev = lp.radialPrev
	if bm.edges[e].loop == l {
		bm.edges[e].loop = lp.radialNext
	}
}

// CreateVert adds a vertex at co. When example is a live vertex its flags
// and attributes are copied, except the original-index shadow value, which
// a new vertex never inherits.
func (bm *BMesh) CreateVert(co kmath.Vec3, example VertID) VertID {
	v := VertID(len(bm.verts))
	bm.verts = append(bm.verts, Vert{Co: co, edge: NoEdge, alive: true, Index: -1})
	vp := &bm.verts[v]
	if bm.VertAlive(example) && example != v {
		ex := &bm.verts[example]
		vp.Data = append(customdata.Block(nil), ex.Data...)
		vp.Flag = ex.Flag &^ HSelect
		vp.No = ex.No
		if off := bm.VData.Offset(customdata.TypeShapeKeyIndex); off != -1 {
			vp.Data.SetInt(off, customdata.OrigIndexNone)
		}
	} else {
		vp.Data = bm.VData.Alloc()
	}
	bm.totVert++
	bm.indexDirty |= ElemVert
	return v
}

// CreateEdge adds an edge between two distinct live vertices.
func (bm *BMesh) CreateEdge(v1, v2 VertID) (EdgeID, error) {
	if !bm.VertAlive(v1) || !bm.VertAlive(v2) {
		return NoEdge, ErrDeadElement
	}
	if v1 == v2 {
		return NoEdge, ErrDegenerateEdge
	}
	e := EdgeID(len(bm.edges))
	bm.edges = append(bm.edges, Edge{
		V1: v1, V2: v2,
		Flag:  HSmooth | HDraw,
		Index: -1,
		Data:  bm.EData.Alloc(),
		loop:  NoLoop,
		alive: true,
	})
	bm.diskAppend(e, v1)
	bm.diskAppend(e, v2)
	bm.totEdge++
	bm.indexDirty |= ElemEdge
	return e, nil
}

// EnsureEdge returns the edge between v1 and v2, creating it if needed.
func (bm *BMesh) EnsureEdge(v1, v2 VertID) (EdgeID, error) {
	if bm.VertAlive(v1) && bm.VertAlive(v2) {
		if e := bm.EdgeExists(v1, v2); e != NoEdge {
			return e, nil
		}
	}
	return bm.CreateEdge(v1, v2)
}

// CreateFace adds a face over verts, where edges[i] must connect verts[i]
// and verts[i+1] (cyclically). Nothing is modified when it fails.
func (bm *BMesh) CreateFace(verts []VertID, edges []EdgeID) (FaceID, error) {
	n := len(verts)
	if n < 3 || len(edges) != n {
		return NoFace, ErrFaceTooSmall
	}
	for i, v := range verts {
		if !bm.VertAlive(v) || !bm.EdgeAlive(edges[i]) {
			return NoFace, ErrDeadElement
		}
		for _, w := range verts[:i] {
			if w == v {
				return NoFace, ErrDuplicateVert
			}
		}
		next := verts[(i+1)%n]
		ed := &bm.edges[edges[i]]
		if !((ed.V1 == v && ed.V2 == next) || (ed.V2 == v && ed.V1 == next)) {
			return NoFace, ErrEdgeMismatch
		}
	}

	f := FaceID(len(bm.faces))
	base := LoopID(len(bm.loops))
	for i := range verts {
		bm.loops = append(bm.loops, Loop{
			V: verts[i], E: edges[i], F: f,
			Index: -1,
			Data:  bm.LData.Alloc(),
			next:  base + LoopID((i+1)%n),
			prev:  base + LoopID((i+n-1)%n),
			alive: true,
		})
		bm.radialAppend(edges[i], base+LoopID(i))
	}
	bm.faces = append(bm.faces, Face{
		Index: -1,
		Data:  bm.PData.Alloc(),
		Len:   n,
		first: base,
		alive: true,
	})
	bm.totFace++
	bm.totLoop += n
	bm.indexDirty |= ElemFace | ElemLoop
	return f, nil
}

// CreateFaceVerts adds a face over verts, creating missing edges.
func (bm *BMesh) CreateFaceVerts(verts []VertID) (FaceID, error) {
	edges := make([]EdgeID, len(verts))
	for i, v := range verts {
		next := verts[(i+1)%len(verts)]
		if v == next {
			return NoFace, ErrDuplicateVert
		}
		e, err := bm.EnsureEdge(v, next)
		if err != nil {
			return NoFace, err
		}
		edges[i] = e
	}
	return bm.CreateFace(verts, edges)
}

// KillFace removes f and its loops. Its edges and vertices stay.
func (bm *BMesh) KillFace(f FaceID) {
	if !bm.FaceAlive(f) {
		return
	}
	if bm.faces[f].Flag&HSelect != 0 {
		bm.faces[f].Flag &^= HSelect
		bm.totFaceSel--
	}
	bm.selectHistoryRemove(FaceElem(f))
	loops := make([]LoopID, 0, bm.faces[f].Len)
	for l := range bm.FaceLoops(f) {
		loops = append(loops, l)
	}
	for _, l := range loops {
		bm.radialRemove(l)
		bm.loops[l].alive = false
		bm.loops[l].Data = nil
	}
	bm.faces[f].alive = false
	bm.faces[f].Data = nil
	bm.totLoop -= len(loops)
	bm.totFace--
	if bm.ActFace == f {
		bm.ActFace = NoFace
	}
	bm.indexDirty |= ElemFace | ElemLoop
}

// KillEdge removes e and every face using it.
func (bm *BMesh) KillEdge(e EdgeID) {
	if !bm.EdgeAlive(e) {
		return
	}
	for bm.edges[e].loop != NoLoop {
		bm.KillFace(bm.loops[bm.edges[e].loop].F)
	}
	if bm.edges[e].Flag&HSelect != 0 {
		bm.edges[e].Flag &^= HSelect
		bm.totEdgeSel--
	}
	bm.selectHistoryRemove(EdgeElem(e))
	bm.diskRemove(e, bm.edges[e].V1)
	bm.diskRemove(e, bm.edges[e].V2)
	bm.edges[e].alive = false
	bm.edges[e].Data = nil
	bm.totEdge--
	bm.indexDirty |= ElemEdge
}

// KillVert removes v together with its edges and their faces.
func (bm *BMesh) KillVert(v VertID) {
	if !bm.VertAlive(v) {
		return
	}
	for bm.verts[v].edge != NoEdge {
		bm.KillEdge(bm.verts[v].edge)
	}
	if bm.verts[v].Flag&HSelect != 0 {
		bm.verts[v].Flag &^= HSelect
		bm.totVertSel--
	}
	bm.selectHistoryRemove(VertElem(v))
	bm.verts[v].alive = false
	bm.verts[v].Data = nil
	bm.totVert--
	bm.indexDirty |= ElemVert
}
