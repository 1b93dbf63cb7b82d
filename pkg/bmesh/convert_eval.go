package bmesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/customdata"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ToMeshForEval writes bm into the empty mesh me for evaluation. Morph
// targets are never written, and me is marked as evaluated so it cannot
// be mistaken for an original mesh on a later import. Unlike ToMesh no
// objects are remapped and no face angles are measured.
func ToMeshForEval(bm *BMesh, me *mesh.Mesh, extraMask customdata.MeshMasks) {
	assert(me.TotVert() == 0, "evaluated mesh target is not empty", zap.String("mesh", me.Name))
	assert(!extraMask.VMask.Has(customdata.TypeShapeKey), "morph targets requested for an evaluated mesh")

	mask := customdata.MaskDerived.Union(extraMask)
	mask.VMask &^= customdata.TypeShapeKey.Mask()
	customdata.MergeLayout(&bm.VData, &me.VData, mask.VMask, customdata.AllocCalloc, bm.TotVert())
	customdata.MergeLayout(&bm.EData, &me.EData, mask.EMask, customdata.AllocCalloc, bm.TotEdge())
	customdata.MergeLayout(&bm.LData, &me.LData, mask.LMask, customdata.AllocCalloc, bm.TotLoop())
	customdata.MergeLayout(&bm.PData, &me.PData, mask.PMask, customdata.AllocCalloc, bm.TotFace())

	allocArrays(bm, me)
	me.TagNormalsDirty()
	me.Evaluated = true

	writeVerts(bm, me)
	writeEdges(bm, me, wireEdgeDraw)
	writeFaces(bm, me)

	me.CDFlag = bm.CDFlagFromBMesh()
}

// wireEdgeDraw keeps the stored draw flag and adds it for edges used by a
// single face.
func wireEdgeDraw(bm *BMesh, e EdgeID, med *mesh.Edge) {
	if med.Flag&mesh.EdgeDraw != 0 {
		return
	}
	if l := bm.edges[e].loop; l != NoLoop && bm.loops[l].radialNext == l {
		med.Flag |= mesh.EdgeDraw
	}
}
