package bmesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// FromMeshParams controls FromMesh.
type FromMeshParams struct {
	// CalcFaceNormal computes face normals while faces are created.
	CalcFaceNormal bool
	// UseShapeKey takes the initial positions from the active key block.
	UseShapeKey bool
	// ActiveShapeKey is the 1-based index of the active key block, 0 for none.
	ActiveShapeKey int
	// AddKeyIndex stores every vertex's original index even without key blocks.
	AddKeyIndex bool
	// ExtraMask adds layer types on top of the editable defaults.
	ExtraMask customdata.MeshMasks
}

// ForMesh returns p with the active key block of me filled in when none
// was chosen. Positions are then read from that block, so edits made on
// the editable mesh are written back to the same block on export.
func (p FromMeshParams) ForMesh(me *mesh.Mesh) FromMeshParams {
	if p.ActiveShapeKey != 0 || me == nil || me.Key == nil || me.Evaluated {
		return p
	}
	if act := me.Key.ActiveIndex(); act != 0 {
		p.ActiveShapeKey = act
		p.UseShapeKey = true
	}
	return p
}

// NewFromMesh builds a fresh editable mesh from me.
func NewFromMesh(me *mesh.Mesh, params FromMeshParams) *BMesh {
	bm := New()
	FromMesh(bm, me, params)
	return bm
}

// FromMesh appends the contents of me to bm. When bm is empty its layer
// layout is copied from me; otherwise me's layers are merged into it and
// bm keeps the layers it already had.
//
// Polygons that cannot form a valid face are logged and skipped.
func FromMesh(bm *BMesh, me *mesh.Mesh, params FromMeshParams) {
	isNew := bm.IsEmpty()
	mask := customdata.MaskBMesh.Union(params.ExtraMask)

	if me == nil || len(me.Verts) == 0 {
		if me != nil && isNew {
			// Keep the layout so later merges line up.
			customdata.CopyBlockLayout(&me.VData, &bm.VData, mask.VMask)
			customdata.CopyBlockLayout(&me.EData, &bm.EData, mask.EMask)
			customdata.CopyBlockLayout(&me.LData, &bm.LData, mask.LMask)
			customdata.CopyBlockLayout(&me.PData, &bm.PData, mask.PMask)
		}
		return
	}

	// Dirty normals are left for later: computing them here could touch a
	// mesh that is only partially restored.
	var vertNormals []kmath.Vec3
	if !me.NormalsAreDirty() {
		vertNormals = me.Runtime.VertNormals
	}

	if isNew {
		customdata.CopyBlockLayout(&me.VData, &bm.VData, mask.VMask)
		customdata.CopyBlockLayout(&me.EData, &bm.EData, mask.EMask)
		customdata.CopyBlockLayout(&me.LData, &bm.LData, mask.LMask)
		customdata.CopyBlockLayout(&me.PData, &bm.PData, mask.PMask)
	} else {
		customdata.MergeBlockLayout(&me.VData, &bm.VData, mask.VMask, bm.Blocks(ElemVert))
		customdata.MergeBlockLayout(&me.EData, &bm.EData, mask.EMask, bm.Blocks(ElemEdge))
		customdata.MergeBlockLayout(&me.LData, &bm.LData, mask.LMask, bm.Blocks(ElemLoop))
		customdata.MergeBlockLayout(&me.PData, &bm.PData, mask.PMask, bm.Blocks(ElemFace))
	}

	totShapeKeys := 0
	if me.Key != nil && !me.Evaluated {
		// Evaluated meshes already have their keys applied and may not
		// match them topologically.
		totShapeKeys = len(me.Key.Blocks)
		assert(!me.VData.HasLayer(customdata.TypeShapeKey),
			"original mesh carries shape key layers", zap.String("mesh", me.Name))
	}
	if !isNew {
		totShapeKeys = min(totShapeKeys, bm.VData.NumLayers(customdata.TypeShapeKey))
	}

	var actkey *mesh.KeyBlock
	if params.ActiveShapeKey != 0 && totShapeKeys > 0 {
		actkey = me.Key.Block(params.ActiveShapeKey - 1)
	}

	if isNew && (totShapeKeys > 0 || params.AddKeyIndex) {
		bm.VData.AddLayer(customdata.TypeShapeKeyIndex, "", 0)
	}

	var keyco []kmath.Vec3
	shapeKeyTable := make([][]kmath.Vec3, totShapeKeys)
	if totShapeKeys > 0 {
		if isNew && me.Key.UIDGen == 0 {
			log().Warn("generating missing shape key uids", zap.String("mesh", me.Name))
			me.Key.RegenerateUIDs()
		}

		if actkey != nil && actkey.TotElem == len(me.Verts) && len(actkey.Data) >= len(me.Verts) {
			if params.UseShapeKey {
				keyco = actkey.Data
			}
			if isNew {
				bm.ShapeNr = params.ActiveShapeKey
			}
		}

		for i := 0; i < totShapeKeys; i++ {
			kb := me.Key.Blocks[i]
			if isNew {
				bm.VData.AddLayer(customdata.TypeShapeKey, kb.Name, kb.UID)
			}
			shapeKeyTable[i] = kb.Data
		}
	}

	cdFlag := me.CDFlag
	if !isNew {
		cdFlag |= bm.CDFlagFromBMesh()
	}
	bm.CDFlagApply(cdFlag)

	// Weights are only read when the source uses them; bm may carry the
	// layers because of an earlier mesh.
	vertBWeightOffset := -1
	if me.CDFlag&mesh.CDFlagVertBWeight != 0 {
		vertBWeightOffset = bm.VData.Offset(customdata.TypeBevelWeight)
	}
	edgeBWeightOffset := -1
	if me.CDFlag&mesh.CDFlagEdgeBWeight != 0 {
		edgeBWeightOffset = bm.EData.Offset(customdata.TypeBevelWeight)
	}
	edgeCreaseOffset := -1
	if me.CDFlag&mesh.CDFlagEdgeCrease != 0 {
		edgeCreaseOffset = bm.EData.Offset(customdata.TypeCrease)
	}
	shapeKeyOffsets := make([]int, totShapeKeys)
	for j := range shapeKeyOffsets {
		shapeKeyOffsets[j] = bm.VData.OffsetN(customdata.TypeShapeKey, j)
	}
	keyIndexOffset := -1
	if isNew && (totShapeKeys > 0 || params.AddKeyIndex) {
		keyIndexOffset = bm.VData.Offset(customdata.TypeShapeKeyIndex)
	}

	vtable := make([]VertID, len(me.Verts))
	for i, mv := range me.Verts {
		co := mv.Co
		if keyco != nil {
			co = keyco[i]
		}
		v := bm.CreateVert(co, NoVert)
		vtable[i] = v

		vp := bm.Vert(v)
		vp.Index = i
		vp.Flag = vertFlagFromMesh(mv.Flag)
		if mv.Flag&mesh.VertSelect != 0 {
			bm.SelectVert(v, true)
		}
		if vertNormals != nil {
			vp.No = vertNormals[i]
		}

		customdata.ToBlock(&me.VData, &bm.VData, i, &vp.Data, true)

		if vertBWeightOffset != -1 {
			vp.Data.SetFloat(vertBWeightOffset, kmath.ByteToUnit(mv.BWeight))
		}
		if keyIndexOffset != -1 {
			vp.Data.SetInt(keyIndexOffset, int32(i))
		}
		for j, data := range shapeKeyTable {
			kco := mv.Co
			if i < len(data) {
				kco = data[i]
			}
			vp.Data.SetVec3(shapeKeyOffsets[j], kco)
		}
	}
	if isNew {
		bm.indexDirty &^= ElemVert // added in order
	}

	etable := make([]EdgeID, len(me.Edges))
	for i, med := range me.Edges {
		etable[i] = NoEdge
		if !inRange(med.V1, len(vtable)) || !inRange(med.V2, len(vtable)) {
			log().Warn("edge references a missing vertex, skipping",
				zap.String("mesh", me.Name), zap.Int("index", i))
			continue
		}
		e, err := bm.CreateEdge(vtable[med.V1], vtable[med.V2])
		if err != nil {
			log().Warn("bad edge, skipping",
				zap.String("mesh", me.Name), zap.Int("index", i), zap.Error(err))
			continue
		}
		etable[i] = e

		ep := bm.Edge(e)
		ep.Index = i
		ep.Flag = edgeFlagFromMesh(med.Flag)
		if med.Flag&mesh.EdgeSelect != 0 {
			bm.SelectEdge(e, true)
		}

		customdata.ToBlock(&me.EData, &bm.EData, i, &ep.Data, true)

		if edgeBWeightOffset != -1 {
			ep.Data.SetFloat(edgeBWeightOffset, kmath.ByteToUnit(med.BWeight))
		}
		if edgeCreaseOffset != -1 {
			ep.Data.SetFloat(edgeCreaseOffset, kmath.ByteToUnit(med.Crease))
		}
	}
	if isNew {
		bm.indexDirty &^= ElemEdge
	}

	// Only needed to resolve face entries of the selection history.
	var ftable []FaceID
	if len(me.Select) > 0 {
		ftable = make([]FaceID, len(me.Polys))
		for i := range ftable {
			ftable[i] = NoFace
		}
	}

	totLoops := 0
	for i, mp := range me.Polys {
		f, err := faceFromPoly(bm, me, mp, vtable, etable)
		if err != nil {
			log().Warn("bad face, skipping",
				zap.String("mesh", me.Name), zap.Int("index", i), zap.Error(err))
			continue
		}
		if ftable != nil {
			ftable[i] = f
		}

		fp := bm.Face(f)
		// Not i: skipped polygons must not leave gaps.
		fp.Index = bm.TotFace() - 1
		fp.Flag = faceFlagFromMesh(mp.Flag)
		fp.MatNr = mp.MatNr
		if mp.Flag&mesh.PolySelect != 0 {
			bm.SelectFace(f, true)
		}
		if int32(i) == me.ActFace {
			bm.ActFace = f
		}

		j := int(mp.LoopStart)
		for l := range bm.FaceLoops(f) {
			lp := bm.Loop(l)
			lp.Index = totLoops
			totLoops++
			customdata.ToBlock(&me.LData, &bm.LData, j, &lp.Data, true)
			j++
		}

		customdata.ToBlock(&me.PData, &bm.PData, i, &bm.Face(f).Data, true)

		if params.CalcFaceNormal {
			bm.FaceNormalUpdate(f)
		}
	}
	if isNew {
		bm.indexDirty &^= ElemFace | ElemLoop
	}

	// Table slots are cleared as they are consumed so an element is only
	// recorded once. The tables are not used after this.
	if len(me.Select) == 0 {
		bm.SelectHistoryClear()
		return
	}
	for _, msel := range me.Select {
		idx := int(msel.Index)
		switch msel.Type {
		case mesh.SelectVert:
			if idx >= 0 && idx < len(vtable) && vtable[idx] != NoVert {
				bm.SelectHistoryStoreNotest(VertElem(vtable[idx]))
				vtable[idx] = NoVert
			}
		case mesh.SelectEdge:
			if idx >= 0 && idx < len(etable) && etable[idx] != NoEdge {
				bm.SelectHistoryStoreNotest(EdgeElem(etable[idx]))
				etable[idx] = NoEdge
			}
		case mesh.SelectFace:
			if idx >= 0 && idx < len(ftable) && ftable[idx] != NoFace {
				bm.SelectHistoryStoreNotest(FaceElem(ftable[idx]))
				ftable[idx] = NoFace
			}
		}
	}
}

func faceFromPoly(bm *BMesh, me *mesh.Mesh, mp mesh.Poly, vtable []VertID, etable []EdgeID) (FaceID, error) {
	if mp.LoopStart < 0 || mp.TotLoop < 0 || int(mp.LoopStart+mp.TotLoop) > len(me.Loops) {
		return NoFace, mesh.ErrLoopOutOfRange
	}
	loops := me.Loops[mp.LoopStart : mp.LoopStart+mp.TotLoop]
	verts := make([]VertID, len(loops))
	edges := make([]EdgeID, len(loops))
	for k, ml := range loops {
		if !inRange(ml.V, len(vtable)) {
			return NoFace, mesh.ErrVertexOutOfRange
		}
		if !inRange(ml.E, len(etable)) {
			return NoFace, mesh.ErrEdgeOutOfRange
		}
		verts[k] = vtable[ml.V]
		edges[k] = etable[ml.E]
	}
	return bm.CreateFace(verts, edges)
}

func inRange(i int32, n int) bool {
	return i >= 0 && int(i) < n
}
