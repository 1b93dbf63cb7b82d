package bmesh

import (
	"os"
	"testing"

	"github.com/Faultbox/meshkit/internal/logger"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

func v3(x, y, z float32) kmath.Vec3 { return kmath.Vec3{X: x, Y: y, Z: z} }

// buildMesh makes an array mesh from positions and polygons given as
// vertex index lists. Edges are created on first use.
func buildMesh(name string, co []kmath.Vec3, polys [][]int32) *mesh.Mesh {
	me := mesh.New(name)
	for _, c := range co {
		me.Verts = append(me.Verts, mesh.Vertex{Co: c})
	}
	edges := map[[2]int32]int32{}
	edgeFor := func(a, b int32) int32 {
		k := [2]int32{min(a, b), max(a, b)}
		if e, ok := edges[k]; ok {
			return e
		}
		e := int32(len(me.Edges))
		me.Edges = append(me.Edges, mesh.Edge{V1: a, V2: b, Flag: mesh.EdgeDraw})
		edges[k] = e
		return e
	}
	for _, p := range polys {
		start := int32(len(me.Loops))
		for i, v := range p {
			next := p[(i+1)%len(p)]
			me.Loops = append(me.Loops, mesh.Loop{V: v, E: edgeFor(v, next)})
		}
		me.Polys = append(me.Polys, mesh.Poly{LoopStart: start, TotLoop: int32(len(p))})
	}
	return me
}

// gridMesh returns a row of n unit quads in the XY plane.
func gridMesh(n int) *mesh.Mesh {
	var co []kmath.Vec3
	for i := 0; i <= n; i++ {
		co = append(co, v3(float32(i), 0, 0), v3(float32(i), 1, 0))
	}
	var polys [][]int32
	for i := 0; i < n; i++ {
		a := int32(2 * i)
		polys = append(polys, []int32{a, a + 2, a + 3, a + 1})
	}
	return buildMesh("grid", co, polys)
}

// cubeMesh returns a unit cube with outward facing quads.
func cubeMesh() *mesh.Mesh {
	co := []kmath.Vec3{
		v3(0, 0, 0), v3(1, 0, 0), v3(1, 1, 0), v3(0, 1, 0),
		v3(0, 0, 1), v3(1, 0, 1), v3(1, 1, 1), v3(0, 1, 1),
	}
	polys := [][]int32{
		{0, 3, 2, 1},
		{4, 5, 6, 7},
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
	return buildMesh("cube", co, polys)
}

// hinge returns two triangles sharing the edge from the origin to +X. The
// second triangle's free vertex is apex.
func hinge(apex kmath.Vec3) *mesh.Mesh {
	co := []kmath.Vec3{v3(0, 0, 0), v3(1, 0, 0), v3(0, 1, 0), apex}
	return buildMesh("hinge", co, [][]int32{{0, 1, 2}, {1, 0, 3}})
}

// relativeKey gives me a relative key set with a basis copied from the
// mesh and one target per offset, each relative to the basis.
func relativeKey(me *mesh.Mesh, offsets ...kmath.Vec3) *mesh.Key {
	key := mesh.NewKey(mesh.KeyRelative)
	key.AddBlockFromMesh("Basis", me)
	for _, ofs := range offsets {
		kb := key.AddBlockFromMesh("", me)
		for i := range kb.Data {
			kb.Data[i] = kb.Data[i].Add(ofs)
		}
	}
	me.Key = key
	return key
}

func vertIDs(bm *BMesh) []VertID {
	var out []VertID
	for v := range bm.Verts() {
		out = append(out, v)
	}
	return out
}

func assertCounts(t *testing.T, me *mesh.Mesh, verts, edges, loops, polys int) {
	t.Helper()
	if me.TotVert() != verts || me.TotEdge() != edges || me.TotLoop() != loops || me.TotPoly() != polys {
		t.Fatalf("counts = %d/%d/%d/%d, want %d/%d/%d/%d",
			me.TotVert(), me.TotEdge(), me.TotLoop(), me.TotPoly(), verts, edges, loops, polys)
	}
}
