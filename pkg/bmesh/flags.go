package bmesh

import "github.com/Faultbox/meshkit/pkg/mesh"

// The *FromMesh helpers never carry selection; callers select through the
// Select* methods so that the selection counters stay right.

func vertFlagFromMesh(f mesh.VertFlag) HFlag {
	var h HFlag
	if f&mesh.VertHide != 0 {
		h |= HHide
	}
	return h
}

func vertFlagToMesh(h HFlag) mesh.VertFlag {
	var f mesh.VertFlag
	if h&HSelect != 0 {
		f |= mesh.VertSelect
	}
	if h&HHide != 0 {
		f |= mesh.VertHide
	}
	return f
}

func edgeFlagFromMesh(f mesh.EdgeFlag) HFlag {
	var h HFlag
	if f&mesh.EdgeSeam != 0 {
		h |= HSeam
	}
	if f&mesh.EdgeDraw != 0 {
		h |= HDraw
	}
	if f&mesh.EdgeSharp == 0 {
		h |= HSmooth
	}
	if f&mesh.EdgeHide != 0 {
		h |= HHide
	}
	return h
}

func edgeFlagToMesh(h HFlag) mesh.EdgeFlag {
	var f mesh.EdgeFlag
	if h&HSelect != 0 {
		f |= mesh.EdgeSelect
	}
	if h&HSeam != 0 {
		f |= mesh.EdgeSeam
	}
	if h&HDraw != 0 {
		f |= mesh.EdgeDraw
	}
	if h&HSmooth == 0 {
		f |= mesh.EdgeSharp
	}
	if h&HHide != 0 {
		f |= mesh.EdgeHide
	}
	return f
}

func faceFlagFromMesh(f mesh.PolyFlag) HFlag {
	var h HFlag
	if f&mesh.PolySmooth != 0 {
		h |= HSmooth
	}
	if f&mesh.PolyHide != 0 {
		h |= HHide
	}
	return h
}

func faceFlagToMesh(h HFlag) mesh.PolyFlag {
	var f mesh.PolyFlag
	if h&HSelect != 0 {
		f |= mesh.PolySelect
	}
	if h&HSmooth != 0 {
		f |= mesh.PolySmooth
	}
	if h&HHide != 0 {
		f |= mesh.PolyHide
	}
	return f
}

// selectTypeFor maps an editable element domain to its history record tag.
func selectTypeFor(t ElemType) (mesh.SelectType, bool) {
	switch t {
	case ElemVert:
		return mesh.SelectVert, true
	case ElemEdge:
		return mesh.SelectEdge, true
	case ElemFace:
		return mesh.SelectFace, true
	default:
		return 0, false
	}
}
