package bmesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/scene"
)

// edgeDrawDotLimit is the face normal similarity above which an edge
// between two faces is hidden from wireframe overlays. Chosen so a 5 times
// subdivided icosphere keeps its edges and a 6 times one loses them.
const edgeDrawDotLimit = 0.9995

// ToMeshParams controls ToMesh.
type ToMeshParams struct {
	// CalcObjectRemap rewrites vertex parents and hook indices of objects
	// in the registry that point into the old vertex array.
	CalcObjectRemap bool
	// UpdateShapeKeyIndices restamps the original-index layer of bm with
	// the new vertex order once the mesh is written.
	UpdateShapeKeyIndices bool
	// ExtraMask adds layer types on top of the array mesh defaults.
	ExtraMask customdata.MeshMasks
}

// ToMesh rewrites me in place from bm. The vertex, edge, loop and polygon
// arrays and every attribute layer of me are replaced. When me has a key
// set, its blocks are rebuilt from the morph target layers of bm.
//
// bmain is only used for object remapping and may be nil otherwise.
func ToMesh(bmain *scene.Main, bm *BMesh, me *mesh.Mesh, params ToMeshParams) {
	keyIndexOffset := bm.VData.Offset(customdata.TypeShapeKeyIndex)

	oldTotVert := len(me.Verts)
	// The old vertices are needed to rebuild key blocks; detach them
	// instead of copying.
	var oldVerts []mesh.Vertex
	if me.Key != nil && keyIndexOffset != -1 {
		oldVerts = me.Verts
		me.Verts = nil
	}

	me.VData.Free()
	me.EData.Free()
	me.LData.Free()
	me.PData.Free()
	me.ActFace = -1

	mask := customdata.MaskMesh.Union(params.ExtraMask)
	// Morph targets live in me.Key, never in vertex layers.
	mask.VMask &^= customdata.MaskOf(customdata.TypeShapeKey, customdata.TypeShapeKeyIndex)
	customdata.CopyLayout(&bm.VData, &me.VData, mask.VMask, customdata.AllocCalloc, bm.TotVert())
	customdata.CopyLayout(&bm.EData, &me.EData, mask.EMask, customdata.AllocCalloc, bm.TotEdge())
	customdata.CopyLayout(&bm.LData, &me.LData, mask.LMask, customdata.AllocCalloc, bm.TotLoop())
	customdata.CopyLayout(&bm.PData, &me.PData, mask.PMask, customdata.AllocCalloc, bm.TotFace())

	allocArrays(bm, me)

	// Editable normals carry no validity state; let the mesh recompute.
	me.TagNormalsDirty()
	me.CDFlag = bm.CDFlagFromBMesh()

	writeVerts(bm, me)
	writeEdges(bm, me, quickEdgeDraw)
	writeFaces(bm, me)

	if params.CalcObjectRemap && oldTotVert > 0 {
		assert(bmain != nil, "object remap requested without a registry", zap.String("mesh", me.Name))
		if bmain != nil {
			remapObjects(bmain, bm, me, oldTotVert)
		}
	}

	writeSelectHistory(bm, me)

	if me.Key != nil {
		rebuildKeyBlocks(bm, me, oldVerts, keyIndexOffset)
	}

	// Runs without keys too: hooks and vertex parents rely on it.
	if params.UpdateShapeKeyIndices && keyIndexOffset != -1 {
		i := int32(0)
		for v := range bm.Verts() {
			bm.verts[v].Data.SetInt(keyIndexOffset, i)
			i++
		}
	}

	me.TopologyChanged()
	me.ClearGeometryCache()
}

func allocArrays(bm *BMesh, me *mesh.Mesh) {
	me.Verts = make([]mesh.Vertex, bm.TotVert())
	me.Edges = make([]mesh.Edge, bm.TotEdge())
	me.Loops = make([]mesh.Loop, bm.TotLoop())
	me.Polys = make([]mesh.Poly, bm.TotFace())
}

func writeVerts(bm *BMesh, me *mesh.Mesh) {
	bweightOffset := bm.VData.Offset(customdata.TypeBevelWeight)
	i := 0
	for v := range bm.Verts() {
		vp := &bm.verts[v]
		mv := &me.Verts[i]
		mv.Co = vp.Co
		mv.Flag = vertFlagToMesh(vp.Flag)
		vp.Index = i

		customdata.FromBlock(&bm.VData, &me.VData, vp.Data, i)

		if bweightOffset != -1 {
			mv.BWeight = kmath.UnitToByte(vp.Data.Float(bweightOffset))
		}
		i++
	}
	bm.indexDirty &^= ElemVert
}

// edgeDrawFunc decides the draw flag of a written edge.
type edgeDrawFunc func(bm *BMesh, e EdgeID, med *mesh.Edge)

func writeEdges(bm *BMesh, me *mesh.Mesh, draw edgeDrawFunc) {
	bweightOffset := bm.EData.Offset(customdata.TypeBevelWeight)
	creaseOffset := bm.EData.Offset(customdata.TypeCrease)
	i := 0
	for e := range bm.Edges() {
		ep := &bm.edges[e]
		med := &me.Edges[i]
		med.V1 = int32(bm.verts[ep.V1].Index)
		med.V2 = int32(bm.verts[ep.V2].Index)
		med.Flag = edgeFlagToMesh(ep.Flag)
		ep.Index = i

		customdata.FromBlock(&bm.EData, &me.EData, ep.Data, i)

		draw(bm, e, med)

		if creaseOffset != -1 {
			med.Crease = kmath.UnitToByte(ep.Data.Float(creaseOffset))
		}
		if bweightOffset != -1 {
			med.BWeight = kmath.UnitToByte(ep.Data.Float(bweightOffset))
		}
		i++
	}
	bm.indexDirty &^= ElemEdge
}

func writeFaces(bm *BMesh, me *mesh.Mesh) {
	i, j := 0, 0
	for f := range bm.Faces() {
		fp := &bm.faces[f]
		mp := &me.Polys[i]
		mp.LoopStart = int32(j)
		mp.TotLoop = int32(fp.Len)
		mp.MatNr = fp.MatNr
		mp.Flag = faceFlagToMesh(fp.Flag)
		fp.Index = i

		for l := range bm.FaceLoops(f) {
			lp := &bm.loops[l]
			ml := &me.Loops[j]
			ml.E = int32(bm.edges[lp.E].Index)
			ml.V = int32(bm.verts[lp.V].Index)
			lp.Index = j

			customdata.FromBlock(&bm.LData, &me.LData, lp.Data, j)
			j++
		}

		if f == bm.ActFace {
			me.ActFace = int32(i)
		}

		customdata.FromBlock(&bm.PData, &me.PData, fp.Data, i)
		i++
	}
	bm.indexDirty &^= ElemFace | ElemLoop
}

// quickEdgeDraw hides an edge shared by exactly two nearly coplanar faces.
// It relies on the stored face normals and is not a real feature-edge test.
func quickEdgeDraw(bm *BMesh, e EdgeID, med *mesh.Edge) {
	l := bm.edges[e].loop
	if l != NoLoop {
		r := bm.loops[l].radialNext
		if r != l && bm.loops[r].radialNext == l {
			a := bm.faces[bm.loops[l].F].No
			b := bm.faces[bm.loops[r].F].No
			if a.Dot(b) > edgeDrawDotLimit {
				med.Flag &^= mesh.EdgeDraw
				return
			}
		}
	}
	med.Flag |= mesh.EdgeDraw
}

func writeSelectHistory(bm *BMesh, me *mesh.Mesh) {
	me.Select = nil
	if len(bm.selected) == 0 {
		return
	}
	me.Select = make([]mesh.SelectRecord, 0, len(bm.selected))
	for _, ele := range bm.selected {
		t, ok := selectTypeFor(ele.Type)
		if !ok {
			continue
		}
		me.Select = append(me.Select, mesh.SelectRecord{Type: t, Index: int32(bm.elemIndex(ele))})
	}
}

// vertexMap maps old vertex indices to the vertices now holding them.
// With an original-index layer the first vertex claiming an index wins;
// later claimants are most likely duplicates. Without it, iteration order
// is assumed to match the old order.
func vertexMap(bm *BMesh, oldTotVert int) []VertID {
	assert(oldTotVert > 0, "vertex map for an empty mesh")
	vmap := make([]VertID, oldTotVert)
	for i := range vmap {
		vmap[i] = NoVert
	}
	offset := bm.VData.Offset(customdata.TypeShapeKeyIndex)
	if offset != -1 {
		for v := range bm.Verts() {
			keyi := bm.verts[v].Data.Int(offset)
			if inRange(keyi, oldTotVert) && vmap[keyi] == NoVert {
				vmap[keyi] = v
			}
		}
		return vmap
	}
	i := 0
	for v := range bm.Verts() {
		if i >= oldTotVert {
			break
		}
		vmap[i] = v
		i++
	}
	return vmap
}

// remapObjects patches vertex parents and hook modifiers that reference
// me by old vertex index. Hook entries whose vertex is gone are dropped.
func remapObjects(bmain *scene.Main, bm *BMesh, me *mesh.Mesh, oldTotVert int) {
	var vmap []VertID
	lookup := func(old int32) (int32, bool) {
		if vmap == nil {
			vmap = vertexMap(bm, oldTotVert)
		}
		if v := vmap[old]; v != NoVert {
			return int32(bm.verts[v].Index), true
		}
		return 0, false
	}

	for _, ob := range bmain.Objects {
		if ob.Parent != nil && ob.Parent.Data == me && ob.ParType.UsesVertices() {
			for k, old := range ob.ParVerts {
				if !inRange(old, oldTotVert) {
					continue
				}
				if idx, ok := lookup(old); ok {
					ob.ParVerts[k] = idx
				}
			}
		}
		if ob.Data != me {
			continue
		}
		for _, md := range ob.Modifiers {
			hmd, ok := md.(*scene.HookModifier)
			if !ok {
				continue
			}
			j := 0
			for _, old := range hmd.Indices {
				if !inRange(old, oldTotVert) {
					hmd.Indices[j] = old
					j++
					continue
				}
				if idx, ok := lookup(old); ok {
					hmd.Indices[j] = idx
					j++
				}
			}
			hmd.Indices = hmd.Indices[:j]
		}
	}
}
