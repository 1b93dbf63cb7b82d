package bmesh

import "testing"

func TestSelectFlush(t *testing.T) {
	bm := NewFromMesh(gridMesh(2), FromMeshParams{})
	var faces []FaceID
	for f := range bm.Faces() {
		faces = append(faces, f)
	}

	bm.SelectFace(faces[0], true)
	bm.SelectFace(faces[1], true)
	if bm.TotFaceSel() != 2 || bm.TotEdgeSel() != 7 || bm.TotVertSel() != 6 {
		t.Fatalf("selected %d/%d/%d, want 6/7/2",
			bm.TotVertSel(), bm.TotEdgeSel(), bm.TotFaceSel())
	}

	// The shared edge and its vertices stay selected through the other face.
	bm.SelectFace(faces[0], false)
	if bm.TotFaceSel() != 1 || bm.TotEdgeSel() != 4 || bm.TotVertSel() != 4 {
		t.Errorf("after deselect %d/%d/%d, want 4/4/1",
			bm.TotVertSel(), bm.TotEdgeSel(), bm.TotFaceSel())
	}
}

func TestSelectHidden(t *testing.T) {
	bm := NewFromMesh(gridMesh(1), FromMeshParams{})
	v := vertIDs(bm)[0]
	bm.Vert(v).Flag |= HHide
	bm.SelectVert(v, true)
	if bm.TotVertSel() != 0 {
		t.Error("hidden vertex was selected")
	}
}

func TestSelectHistoryStore(t *testing.T) {
	bm := NewFromMesh(gridMesh(1), FromMeshParams{})
	ids := vertIDs(bm)
	bm.SelectHistoryStore(VertElem(ids[0]))
	bm.SelectHistoryStore(VertElem(ids[1]))
	bm.SelectHistoryStore(VertElem(ids[0]))
	if bm.SelectHistoryLen() != 2 {
		t.Errorf("history length = %d, want 2", bm.SelectHistoryLen())
	}

	bm.KillVert(ids[0])
	hist := bm.SelectHistory()
	if len(hist) != 1 || hist[0] != VertElem(ids[1]) {
		t.Errorf("history after kill = %v", hist)
	}

	bm.SelectHistoryClear()
	if bm.SelectHistoryLen() != 0 {
		t.Error("history not cleared")
	}
}
