package bmesh

import (
	"github.com/Faultbox/meshkit/pkg/customdata"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// domainBlocks exposes the blocks of one domain to customdata.
type domainBlocks struct {
	bm     *BMesh
	domain ElemType
}

func (d domainBlocks) EachBlock(fn func(blk *customdata.Block)) {
	bm := d.bm
	switch d.domain {
	case ElemVert:
		for i := range bm.verts {
			if bm.verts[i].alive {
				fn(&bm.verts[i].Data)
			}
		}
	case ElemEdge:
		for i := range bm.edges {
			if bm.edges[i].alive {
				fn(&bm.edges[i].Data)
			}
		}
	case ElemLoop:
		for i := range bm.loops {
			if bm.loops[i].alive {
				fn(&bm.loops[i].Data)
			}
		}
	case ElemFace:
		for i := range bm.faces {
			if bm.faces[i].alive {
				fn(&bm.faces[i].Data)
			}
		}
	}
}

// Blocks returns the block set of a single domain.
func (bm *BMesh) Blocks(domain ElemType) customdata.BlockSet {
	return domainBlocks{bm: bm, domain: domain}
}

// LayerData returns the layout of a single domain.
func (bm *BMesh) LayerData(domain ElemType) *customdata.BlockData {
	switch domain {
	case ElemVert:
		return &bm.VData
	case ElemEdge:
		return &bm.EData
	case ElemLoop:
		return &bm.LData
	case ElemFace:
		return &bm.PData
	default:
		panic("bmesh: layer data requested for a mixed domain")
	}
}

// AddDataLayer adds a layer to a domain and rewrites the existing blocks.
// It returns the layer index.
func (bm *BMesh) AddDataLayer(domain ElemType, t customdata.Type, name string, uid int32) int {
	data := bm.LayerData(domain)
	old := data.Clone()
	i := data.AddLayer(t, name, uid)
	data.Realloc(&old, bm.Blocks(domain))
	return i
}

// FreeDataLayer removes the first layer of type t from a domain and
// rewrites the existing blocks. It reports whether a layer was removed.
func (bm *BMesh) FreeDataLayer(domain ElemType, t customdata.Type) bool {
	data := bm.LayerData(domain)
	i := data.LayerIndex(t)
	if i == -1 {
		return false
	}
	old := data.Clone()
	data.RemoveLayer(i)
	data.Realloc(&old, bm.Blocks(domain))
	return true
}

func (bm *BMesh) ensureLayer(domain ElemType, t customdata.Type, want bool) {
	has := bm.LayerData(domain).HasLayer(t)
	switch {
	case want && !has:
		bm.AddDataLayer(domain, t, "", 0)
	case !want && has:
		bm.FreeDataLayer(domain, t)
	}
}

// CDFlagApply adds or removes the optional weight layers so that they
// match flag exactly.
func (bm *BMesh) CDFlagApply(flag mesh.CDFlag) {
	bm.ensureLayer(ElemVert, customdata.TypeBevelWeight, flag&mesh.CDFlagVertBWeight != 0)
	bm.ensureLayer(ElemEdge, customdata.TypeBevelWeight, flag&mesh.CDFlagEdgeBWeight != 0)
	bm.ensureLayer(ElemEdge, customdata.TypeCrease, flag&mesh.CDFlagEdgeCrease != 0)
}

// CDFlagFromBMesh derives the weight flags from the layers present.
func (bm *BMesh) CDFlagFromBMesh() mesh.CDFlag {
	var flag mesh.CDFlag
	if bm.VData.HasLayer(customdata.TypeBevelWeight) {
		flag |= mesh.CDFlagVertBWeight
	}
	if bm.EData.HasLayer(customdata.TypeBevelWeight) {
		flag |= mesh.CDFlagEdgeBWeight
	}
	if bm.EData.HasLayer(customdata.TypeCrease) {
		flag |= mesh.CDFlagEdgeCrease
	}
	return flag
}

// CDFlagEnsure merges extra into the flags already in use and applies the
// result, recording it on me when given.
func (bm *BMesh) CDFlagEnsure(me *mesh.Mesh, extra mesh.CDFlag) {
	all := bm.CDFlagFromBMesh() | extra
	bm.CDFlagApply(all)
	if me != nil {
		me.CDFlag = all
	}
}
