package bmesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// shapeLayerOffset returns the block offset of the morph target layer
// carrying uid, or -1.
func shapeLayerOffset(d *customdata.BlockData, uid int32) int {
	for _, l := range d.Layers {
		if l.Type == customdata.TypeShapeKey && l.UID == uid {
			return l.Offset
		}
	}
	return -1
}

// addMissingKeyBlocks creates a key block for every morph target layer of
// bm whose uid the key set does not know.
func addMissingKeyBlocks(bm *BMesh, key *mesh.Key) {
	for _, l := range bm.VData.Layers {
		if l.Type != customdata.TypeShapeKey || key.FindUID(l.UID) != nil {
			continue
		}
		kb := key.AddBlock(l.Name)
		kb.UID = l.UID
		if key.UIDGen <= l.UID {
			key.UIDGen = l.UID + 1
		}
		log().Debug("adding key block for unmatched layer",
			zap.String("name", kb.Name), zap.Int32("uid", kb.UID))
	}
}

// basisOffsets returns, per written vertex, how far the edited basis moved
// it. It returns nil unless every vertex maps back into the basis data.
func basisOffsets(bm *BMesh, basis *mesh.KeyBlock, keyIndexOffset int) []kmath.Vec3 {
	ofs := make([]kmath.Vec3, bm.TotVert())
	i := 0
	for v := range bm.Verts() {
		vp := &bm.verts[v]
		keyi := vp.Data.Int(keyIndexOffset)
		if !inRange(keyi, basis.TotElem) || int(keyi) >= len(basis.Data) {
			// A vertex with no place in the basis, most likely added
			// while editing. Nothing is propagated.
			return nil
		}
		ofs[i] = vp.Co.Sub(basis.Data[keyi])
		i++
	}
	return ofs
}

// rebuildKeyBlocks rewrites every block of me.Key from the morph target
// layers of bm. me.Verts must already hold the new vertices.
func rebuildKeyBlocks(bm *BMesh, me *mesh.Mesh, oldVerts []mesh.Vertex, keyIndexOffset int) {
	key := me.Key
	addMissingKeyBlocks(bm, key)

	actIndex := bm.ShapeNr - 1
	actkey := key.Block(actIndex)
	refkey := key.RefKey()

	var ofs []kmath.Vec3
	if key.Type == mesh.KeyRelative && actkey != nil && oldVerts != nil && keyIndexOffset != -1 &&
		key.IsBasis(actIndex) {
		ofs = basisOffsets(bm, actkey, keyIndexOffset)
		if ofs == nil {
			log().Warn("edited basis has vertices without an original index, offsets not propagated",
				zap.String("mesh", me.Name), zap.String("basis", actkey.Name))
		}
	}

	totVert := bm.TotVert()
	for _, kb := range key.Blocks {
		shapeOffset := shapeLayerOffset(&bm.VData, kb.UID)
		applyOffset := ofs != nil && shapeOffset != -1 && kb != actkey && kb.Relative == actIndex

		oldData := kb.Data
		oldTot := min(kb.TotElem, len(oldData))
		data := make([]kmath.Vec3, totVert)

		i := 0
		for v := range bm.Verts() {
			vp := &bm.verts[v]
			keyi := customdata.OrigIndexNone
			if keyIndexOffset != -1 {
				keyi = vp.Data.Int(keyIndexOffset)
			}

			var co kmath.Vec3
			switch {
			case kb == actkey:
				co = vp.Co
				// Edits made with a non-reference key active belong to that
				// key only; the mesh keeps its previous position.
				if kb != refkey && oldVerts != nil && inRange(keyi, kb.TotElem) && int(keyi) < len(oldVerts) {
					me.Verts[i].Co = oldVerts[keyi].Co
				}
			case shapeOffset != -1:
				co = vp.Data.Vec3(shapeOffset)
			case inRange(keyi, oldTot):
				co = oldData[keyi]
			default:
				co = vp.Co
			}

			if applyOffset {
				co = co.Add(ofs[i])
				// Keep the layer in sync so flushing again does not add
				// the offset twice.
				vp.Data.SetVec3(shapeOffset, co)
			}

			data[i] = co
			i++
		}

		kb.Data = data
		kb.TotElem = totVert
	}
}
