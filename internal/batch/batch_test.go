package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/bmesh"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/scene"
)

func TestMain(m *testing.M) {
	logger.InitNop()
	os.Exit(m.Run())
}

// strip returns n quads in a row with a hook on vertices 0, 2 and 5.
func strip(n int) *scene.Main {
	me := mesh.New(fmt.Sprintf("strip%d", n))
	for i := 0; i <= n; i++ {
		me.Verts = append(me.Verts,
			mesh.Vertex{Co: kmath.Vec3{X: float32(i)}},
			mesh.Vertex{Co: kmath.Vec3{X: float32(i), Y: 1}})
	}
	edge := func(a, b int32) int32 {
		for i, e := range me.Edges {
			if (e.V1 == a && e.V2 == b) || (e.V1 == b && e.V2 == a) {
				return int32(i)
			}
		}
		me.Edges = append(me.Edges, mesh.Edge{V1: a, V2: b})
		return int32(len(me.Edges) - 1)
	}
	for i := int32(0); i < int32(n); i++ {
		vs := []int32{2 * i, 2*i + 2, 2*i + 3, 2*i + 1}
		start := int32(len(me.Loops))
		for k, v := range vs {
			me.Loops = append(me.Loops, mesh.Loop{V: v, E: edge(v, vs[(k+1)%4])})
		}
		me.Polys = append(me.Polys, mesh.Poly{LoopStart: start, TotLoop: 4})
	}

	bmain := scene.NewMain()
	bmain.AddObject("ob", bmain.AddMesh(me)).AddHook("hook", 0, 2, 5)
	return bmain
}

func writeInputs(t *testing.T, dir string, sizes ...int) {
	t.Helper()
	for _, n := range sizes {
		if err := meshio.Save(filepath.Join(dir, fmt.Sprintf("strip%d.yaml", n)), strip(n)); err != nil {
			t.Fatalf("writing input: %v", err)
		}
	}
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, 2, 3, 4)

	results, err := Run(context.Background(), in, out, Options{
		Workers:  2,
		Progress: io.Discard,
		Import:   bmesh.FromMeshParams{CalcFaceNormal: true},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, n := range []int{2, 3, 4} {
		r := results[i]
		if r.Stats.Meshes != 1 || r.Stats.Faces != n || r.Stats.Verts != 2*(n+1) {
			t.Errorf("%s stats = %+v", r.Input, r.Stats)
		}
		if _, err := os.Stat(r.Output); err != nil {
			t.Errorf("output missing: %v", err)
		}
	}
}

func TestRunEditRemapsHooks(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, 2)

	deleteThird := func(bm *bmesh.BMesh, _ *mesh.Mesh) error {
		i := 0
		for v := range bm.Verts() {
			if i == 2 {
				bm.KillVert(v)
				return nil
			}
			i++
		}
		return errors.New("mesh too small")
	}
	_, err := Run(context.Background(), in, out, Options{
		Import: bmesh.FromMeshParams{AddKeyIndex: true},
		Export: bmesh.ToMeshParams{CalcObjectRemap: true},
		Edit:   deleteThird,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	bmain, err := meshio.Load(filepath.Join(out, "strip2.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	hooks := bmain.FindObject("ob").Hooks()
	if len(hooks) != 1 || len(hooks[0].Indices) != 2 || hooks[0].Indices[0] != 0 || hooks[0].Indices[1] != 4 {
		t.Errorf("hooks after edit = %+v", hooks)
	}
}

func TestRoundTripEditKeepsBasis(t *testing.T) {
	bmain := strip(1)
	me := bmain.Meshes[0]
	key := mesh.NewKey(mesh.KeyRelative)
	key.AddBlockFromMesh("Basis", me)
	up := key.AddBlockFromMesh("Up", me)
	for i := range up.Data {
		up.Data[i].Z = 1
	}
	me.Key = key

	cc := config.Default().Convert
	in, err := cc.ImportParams()
	if err != nil {
		t.Fatal(err)
	}
	out, err := cc.ExportParams()
	if err != nil {
		t.Fatal(err)
	}
	liftFirst := func(bm *bmesh.BMesh, _ *mesh.Mesh) error {
		for v := range bm.Verts() {
			bm.TranslateVerts([]bmesh.VertID{v}, kmath.Vec3{Z: 5})
			return nil
		}
		return errors.New("empty mesh")
	}
	if _, err := RoundTrip(bmain, in, out, liftFirst); err != nil {
		t.Fatalf("RoundTrip: %v", err)
	}

	if got := me.Verts[0].Co; got != (kmath.Vec3{Z: 5}) {
		t.Fatalf("vertex 0 = %v, want lifted", got)
	}
	basis := me.Key.Blocks[0].Data
	for i, v := range me.Verts {
		if basis[i] != v.Co {
			t.Errorf("basis %d = %v, mesh = %v", i, basis[i], v.Co)
		}
	}
	if got := me.Key.Blocks[1].Data[0].Z; got != 6 {
		t.Errorf("Up vertex 0 z = %v, want basis offset applied (6)", got)
	}
}

func TestRunReportsBadDocuments(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, 1)
	if err := os.WriteFile(filepath.Join(in, "broken.yaml"), []byte("version: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	results, err := Run(context.Background(), in, out, Options{Workers: 4})
	if !errors.Is(err, meshio.ErrVersion) {
		t.Fatalf("err = %v, want ErrVersion", err)
	}
	if len(results) != 2 || results[0].Err == nil || results[1].Err != nil {
		t.Errorf("results = %+v", results)
	}
}

func TestRunNoInput(t *testing.T) {
	_, err := Run(context.Background(), t.TempDir(), t.TempDir(), Options{})
	if !errors.Is(err, ErrNoInput) {
		t.Errorf("err = %v, want ErrNoInput", err)
	}
}

func TestRunCanceled(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeInputs(t, in, 1, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, in, out, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
