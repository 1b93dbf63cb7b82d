package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshkit/internal/batch"
	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/bmesh"
	"github.com/Faultbox/meshkit/pkg/customdata"
	kmath "github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/scene"
)

var stdout io.Writer = os.Stdout

var (
	flagMesh   string
	flagOutput string
	flagDelta  string
)

func deleteFlags(fs *flag.FlagSet) {
	fs.StringVar(&flagMesh, "mesh", "", "Mesh name")
	fs.StringVar(&flagOutput, "o", "", "Output file (default: overwrite input)")
}

func moveFlags(fs *flag.FlagSet) {
	deleteFlags(fs)
	fs.StringVar(&flagDelta, "d", "", "Translation as x,y,z")
}

func evalFlags(fs *flag.FlagSet) {
	fs.StringVar(&flagMesh, "mesh", "", "Mesh name")
}

func cmdInfo(_ *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 1 {
		return errUsage
	}
	bmain, err := meshio.Load(fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Scene:   %s\n", fs.Arg(0))
	fmt.Fprintf(stdout, "Meshes:  %d\n", len(bmain.Meshes))
	fmt.Fprintf(stdout, "Objects: %d\n", len(bmain.Objects))
	for _, me := range bmain.Meshes {
		fmt.Fprintln(stdout)
		printMesh(me)
		for _, ob := range bmain.ObjectsUsing(me) {
			fmt.Fprintf(stdout, "  object %s\n", ob.Name)
			for _, h := range ob.Hooks() {
				fmt.Fprintf(stdout, "    hook %-12s %v\n", h.Name, h.Indices)
			}
		}
	}
	return nil
}

func printMesh(me *mesh.Mesh) {
	fmt.Fprintf(stdout, "Mesh %s (%s)\n", me.Name, me.ID)
	fmt.Fprintf(stdout, "  verts %d, edges %d, loops %d, polys %d\n",
		me.TotVert(), me.TotEdge(), me.TotLoop(), me.TotPoly())
	for _, d := range []struct {
		name string
		l    []string
	}{
		{"vert", layerNames(me.VData.Layers)},
		{"edge", layerNames(me.EData.Layers)},
		{"loop", layerNames(me.LData.Layers)},
		{"poly", layerNames(me.PData.Layers)},
	} {
		if len(d.l) > 0 {
			fmt.Fprintf(stdout, "  %s layers: %s\n", d.name, strings.Join(d.l, ", "))
		}
	}
	if me.Key == nil {
		return
	}
	fmt.Fprintf(stdout, "  shape keys (next uid %d):\n", me.Key.UIDGen)
	for i, kb := range me.Key.Blocks {
		fmt.Fprintf(stdout, "    %d %-16s uid %-4d relative %d\n", i+1, kb.Name, kb.UID, kb.Relative)
	}
}

func layerNames(layers []customdata.Layer) []string {
	var out []string
	for _, l := range layers {
		if l.Name == "" {
			out = append(out, l.Type.String())
			continue
		}
		out = append(out, l.Type.String()+":"+l.Name)
	}
	return out
}

func cmdRoundTrip(cfg *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 1 {
		return errUsage
	}
	in := fs.Arg(0)
	out := in
	if fs.NArg() > 1 {
		out = fs.Arg(1)
	}
	return editScene(cfg, in, out, "", nil)
}

func cmdDeleteVerts(cfg *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 2 || flagMesh == "" {
		return errUsage
	}
	indices, err := parseIndices(fs.Args()[1:])
	if err != nil {
		return err
	}
	return editScene(cfg, fs.Arg(0), outputPath(fs), flagMesh, func(bm *bmesh.BMesh, _ *mesh.Mesh) error {
		verts, err := vertsAt(bm, indices)
		if err != nil {
			return err
		}
		for _, v := range verts {
			bm.KillVert(v)
		}
		return nil
	})
}

func cmdMove(cfg *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 2 || flagMesh == "" || flagDelta == "" {
		return errUsage
	}
	delta, err := parseVec3(flagDelta)
	if err != nil {
		return err
	}
	indices, err := parseIndices(fs.Args()[1:])
	if err != nil {
		return err
	}
	return editScene(cfg, fs.Arg(0), outputPath(fs), flagMesh, func(bm *bmesh.BMesh, _ *mesh.Mesh) error {
		verts, err := vertsAt(bm, indices)
		if err != nil {
			return err
		}
		bm.TranslateVerts(verts, delta)
		return nil
	})
}

func cmdEval(cfg *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 1 || flagMesh == "" {
		return errUsage
	}
	bmain, err := meshio.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	me, err := findMesh(bmain, flagMesh)
	if err != nil {
		return err
	}
	in, err := cfg.Convert.ImportParams()
	if err != nil {
		return err
	}
	out, err := cfg.Convert.ExportParams()
	if err != nil {
		return err
	}
	bm := bmesh.NewFromMesh(me, in.ForMesh(me))
	eval := mesh.New(me.Name + ".eval")
	bmesh.ToMeshForEval(bm, eval, out.ExtraMask)
	printMesh(eval)
	return nil
}

func cmdBatch(cfg *config.Config, fs *flag.FlagSet) error {
	if fs.NArg() < 2 {
		return errUsage
	}
	in, err := cfg.Convert.ImportParams()
	if err != nil {
		return err
	}
	out, err := cfg.Convert.ExportParams()
	if err != nil {
		return err
	}
	opts := batch.Options{
		Workers: cfg.Batch.Workers,
		Pattern: cfg.Batch.Pattern,
		Import:  in,
		Export:  out,
	}
	if cfg.Batch.Progress {
		opts.Progress = os.Stderr
	}

	results, err := batch.Run(context.Background(), fs.Arg(0), fs.Arg(1), opts)
	var total batch.Stats
	for _, r := range results {
		if r.Err == nil {
			total.Meshes += r.Stats.Meshes
			total.Verts += r.Stats.Verts
			total.Faces += r.Stats.Faces
		}
	}
	fmt.Fprintf(stdout, "Documents: %d\nMeshes:    %d\nVerts:     %d\nFaces:     %d\n",
		len(results), total.Meshes, total.Verts, total.Faces)
	return err
}

// editScene round-trips every mesh of the scene at in, applying edit to
// the mesh called target, and writes the scene to out.
func editScene(cfg *config.Config, in, out, target string, edit batch.EditFunc) error {
	bmain, err := meshio.Load(in)
	if err != nil {
		return err
	}
	var targetMesh, before *mesh.Mesh
	if target != "" {
		if targetMesh, err = findMesh(bmain, target); err != nil {
			return err
		}
		if before, err = targetMesh.Copy(); err != nil {
			return err
		}
	}
	inParams, err := cfg.Convert.ImportParams()
	if err != nil {
		return err
	}
	outParams, err := cfg.Convert.ExportParams()
	if err != nil {
		return err
	}

	var onlyTarget batch.EditFunc
	if edit != nil {
		onlyTarget = func(bm *bmesh.BMesh, me *mesh.Mesh) error {
			if me.Name != target {
				return nil
			}
			return edit(bm, me)
		}
	}
	st, err := batch.RoundTrip(bmain, inParams, outParams, onlyTarget)
	if err != nil {
		return err
	}
	if err := meshio.Save(out, bmain); err != nil {
		return err
	}
	if before != nil {
		fmt.Fprintf(stdout, "%s: verts %d -> %d, edges %d -> %d, polys %d -> %d\n", target,
			before.TotVert(), targetMesh.TotVert(), before.TotEdge(), targetMesh.TotEdge(),
			before.TotPoly(), targetMesh.TotPoly())
	}
	fmt.Fprintf(stdout, "Wrote %s: %d meshes, %d verts, %d faces\n", out, st.Meshes, st.Verts, st.Faces)
	return nil
}

func findMesh(bmain *scene.Main, name string) (*mesh.Mesh, error) {
	for _, me := range bmain.Meshes {
		if me.Name == name {
			return me, nil
		}
	}
	return nil, fmt.Errorf("no mesh named %q", name)
}

func outputPath(fs *flag.FlagSet) string {
	if flagOutput != "" {
		return flagOutput
	}
	return fs.Arg(0)
}

// vertsAt resolves vertex positions in iteration order, which match the
// array indices right after import.
func vertsAt(bm *bmesh.BMesh, indices []int) ([]bmesh.VertID, error) {
	all := make([]bmesh.VertID, 0, bm.TotVert())
	for v := range bm.Verts() {
		all = append(all, v)
	}
	out := make([]bmesh.VertID, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(all) {
			return nil, fmt.Errorf("vertex %d out of range (mesh has %d)", idx, len(all))
		}
		out[i] = all[idx]
	}
	return out, nil
}

func parseIndices(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("bad vertex index %q", a)
		}
		out[i] = n
	}
	return out, nil
}

func parseVec3(s string) (kmath.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return kmath.Vec3{}, fmt.Errorf("bad vector %q, want x,y,z", s)
	}
	var f [3]float32
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return kmath.Vec3{}, fmt.Errorf("bad vector %q: %w", s, err)
		}
		f[i] = float32(v)
	}
	return kmath.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}
