package bmesh

// TotVertSel returns the number of selected vertices.
func (bm *BMesh) TotVertSel() int { return bm.totVertSel }

// TotEdgeSel returns the number of selected edges.
func (bm *BMesh) TotEdgeSel() int { return bm.totEdgeSel }

// TotFaceSel returns the number of selected faces.
func (bm *BMesh) TotFaceSel() int { return bm.totFaceSel }

// SelectVert sets the selection state of v. Hidden vertices cannot be
// selected.
func (bm *BMesh) SelectVert(v VertID, sel bool) {
	vp := &bm.verts[v]
	if sel {
		if vp.Flag&HHide != 0 || vp.Flag&HSelect != 0 {
			return
		}
		vp.Flag |= HSelect
		bm.totVertSel++
		return
	}
	if vp.Flag&HSelect != 0 {
		vp.Flag &^= HSelect
		bm.totVertSel--
	}
}

// SelectEdge sets the selection state of e. Selecting also selects both
// endpoints; deselecting releases endpoints no other selected edge uses.
func (bm *BMesh) SelectEdge(e EdgeID, sel bool) {
	ep := &bm.edges[e]
	if sel {
		if ep.Flag&HHide != 0 {
			return
		}
		if ep.Flag&HSelect == 0 {
			ep.Flag |= HSelect
			bm.totEdgeSel++
		}
		bm.SelectVert(ep.V1, true)
		bm.SelectVert(ep.V2, true)
		return
	}
	if ep.Flag&HSelect != 0 {
		ep.Flag &^= HSelect
		bm.totEdgeSel--
	}
	for _, v := range [2]VertID{ep.V1, ep.V2} {
		if !bm.vertHasSelectedEdge(v) {
			bm.SelectVert(v, false)
		}
	}
}

// SelectFace sets the selection state of f. Selecting also selects its
// edges and vertices; deselecting releases those no other selected face
// uses.
func (bm *BMesh) SelectFace(f FaceID, sel bool) {
	fp := &bm.faces[f]
	if sel {
		if fp.Flag&HHide != 0 {
			return
		}
		if fp.Flag&HSelect == 0 {
			fp.Flag |= HSelect
			bm.totFaceSel++
		}
		for l := range bm.FaceLoops(f) {
			bm.SelectEdge(bm.loops[l].E, true)
		}
		return
	}
	if fp.Flag&HSelect != 0 {
		fp.Flag &^= HSelect
		bm.totFaceSel--
	}
	for l := range bm.FaceLoops(f) {
		e := bm.loops[l].E
		if !bm.edgeHasSelectedFace(e) {
			bm.SelectEdge(e, false)
		}
	}
}

func (bm *BMesh) vertHasSelectedEdge(v VertID) bool {
	for e := range bm.VertEdges(v) {
		if bm.edges[e].Flag&HSelect != 0 {
			return true
		}
	}
	return false
}

func (bm *BMesh) edgeHasSelectedFace(e EdgeID) bool {
	for l := range bm.EdgeLoops(e) {
		if bm.faces[bm.loops[l].F].Flag&HSelect != 0 {
			return true
		}
	}
	return false
}

// SelectedVerts returns the selected vertices in iteration order.
func (bm *BMesh) SelectedVerts() []VertID {
	var out []VertID
	for v := range bm.Verts() {
		if bm.verts[v].Flag&HSelect != 0 {
			out = append(out, v)
		}
	}
	return out
}

// SelectHistory returns a copy of the ordered selection history.
func (bm *BMesh) SelectHistory() []Elem {
	return append([]Elem(nil), bm.selected...)
}

// SelectHistoryLen returns the number of history entries.
func (bm *BMesh) SelectHistoryLen() int {
	return len(bm.selected)
}

// SelectHistoryStore appends ele unless it is already recorded.
func (bm *BMesh) SelectHistoryStore(ele Elem) {
	for _, s := range bm.selected {
		if s == ele {
			return
		}
	}
	bm.selected = append(bm.selected, ele)
}

// SelectHistoryStoreNotest appends ele without checking for duplicates.
func (bm *BMesh) SelectHistoryStoreNotest(ele Elem) {
	bm.selected = append(bm.selected, ele)
}

// SelectHistoryClear empties the selection history.
func (bm *BMesh) SelectHistoryClear() {
	bm.selected = nil
}

func (bm *BMesh) selectHistoryRemove(ele Elem) {
	for i, s := range bm.selected {
		if s == ele {
			bm.selected = append(bm.selected[:i], bm.selected[i+1:]...)
			return
		}
	}
}

// elemIndex returns the stored index of a tagged element.
func (bm *BMesh) elemIndex(ele Elem) int {
	switch ele.Type {
	case ElemVert:
		return bm.verts[ele.ID].Index
	case ElemEdge:
		return bm.edges[ele.ID].Index
	case ElemLoop:
		return bm.loops[ele.ID].Index
	case ElemFace:
		return bm.faces[ele.ID].Index
	default:
		panic("bmesh: element without a single domain")
	}
}
