package bmesh

import (
	kmath "github.com/Faultbox/meshkit/pkg/math"
)

// FacePoints returns the vertex positions of f in loop order.
func (bm *BMesh) FacePoints(f FaceID) []kmath.Vec3 {
	pts := make([]kmath.Vec3, 0, bm.faces[f].Len)
	for l := range bm.FaceLoops(f) {
		pts = append(pts, bm.verts[bm.loops[l].V].Co)
	}
	return pts
}

// FaceNormalUpdate recomputes the normal of f.
func (bm *BMesh) FaceNormalUpdate(f FaceID) {
	bm.faces[f].No = kmath.PolygonNormal(bm.FacePoints(f))
}

// NormalUpdate recomputes every face normal, then every vertex normal as
// the normalized sum of the normals of its faces.
func (bm *BMesh) NormalUpdate() {
	for i := range bm.verts {
		bm.verts[i].No = kmath.Vec3{}
	}
	for f := range bm.Faces() {
		bm.FaceNormalUpdate(f)
		n := bm.faces[f].No
		for l := range bm.FaceLoops(f) {
			v := bm.loops[l].V
			bm.verts[v].No = bm.verts[v].No.Add(n)
		}
	}
	for v := range bm.Verts() {
		vp := &bm.verts[v]
		if vp.No.IsZero() {
			vp.No = vp.Co.Normalize()
			continue
		}
		vp.No = vp.No.Normalize()
	}
}
