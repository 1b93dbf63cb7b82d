// Package batch round-trips every scene document of a directory through
// the editable mesh, concurrently.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/meshio"
	"github.com/Faultbox/meshkit/pkg/bmesh"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/scene"
)

// ErrNoInput is returned when the pattern matches no file.
var ErrNoInput = errors.New("no input documents")

// EditFunc changes an editable mesh between import and export.
type EditFunc func(bm *bmesh.BMesh, me *mesh.Mesh) error

// Options controls a batch run.
type Options struct {
	Workers int
	Pattern string
	// Progress receives a progress bar when non-nil.
	Progress io.Writer

	Import bmesh.FromMeshParams
	Export bmesh.ToMeshParams
	Edit   EditFunc
}

// Stats counts what one document produced.
type Stats struct {
	Meshes int
	Verts  int
	Edges  int
	Faces  int
}

func (s *Stats) add(o Stats) {
	s.Meshes += o.Meshes
	s.Verts += o.Verts
	s.Edges += o.Edges
	s.Faces += o.Faces
}

// Result is the outcome for one document.
type Result struct {
	Input  string
	Output string
	Stats  Stats
	Err    error
}

// RoundTrip converts every mesh of bmain to an editable mesh, applies edit
// when given and writes it back. Meshes with key blocks are edited through
// their stored active block unless in selects one. Objects in bmain are
// remapped when the export options ask for it.
func RoundTrip(bmain *scene.Main, in bmesh.FromMeshParams, out bmesh.ToMeshParams, edit EditFunc) (Stats, error) {
	var st Stats
	for _, me := range bmain.Meshes {
		bm := bmesh.NewFromMesh(me, in.ForMesh(me))
		if edit != nil {
			if err := edit(bm, me); err != nil {
				return st, fmt.Errorf("editing mesh %s: %w", me.Name, err)
			}
		}
		bmesh.ToMesh(bmain, bm, me, out)
		st.add(Stats{Meshes: 1, Verts: me.TotVert(), Edges: me.TotEdge(), Faces: me.TotPoly()})
	}
	return st, nil
}

// Run processes every document in inDir matching opts.Pattern and writes
// the results under outDir with the same names. A failing document does
// not stop the others; the returned error joins every failure. Only ctx
// cancels the run: workers record document errors in their Result and
// never fail the group.
func Run(ctx context.Context, inDir, outDir string, opts Options) ([]Result, error) {
	log := logger.Named("batch")

	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*.yaml"
	}
	files, err := filepath.Glob(filepath.Join(inDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("matching %s: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s matching %s", ErrNoInput, inDir, pattern)
	}
	sort.Strings(files)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("round trip"),
			progressbar.OptionShowCount(),
		)
		defer bar.Close()
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := &results[i]
			res.Input = path
			res.Output = filepath.Join(outDir, filepath.Base(path))
			res.Stats, res.Err = processFile(path, res.Output, opts)
			if res.Err != nil {
				log.Warn("document failed", zap.String("path", path), zap.Error(res.Err))
			} else {
				log.Debug("document done", zap.String("path", path),
					zap.Int("meshes", res.Stats.Meshes), zap.Int("verts", res.Stats.Verts))
			}
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Input, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

func processFile(in, out string, opts Options) (Stats, error) {
	bmain, err := meshio.Load(in)
	if err != nil {
		return Stats{}, err
	}
	st, err := RoundTrip(bmain, opts.Import, opts.Export, opts.Edit)
	if err != nil {
		return st, err
	}
	return st, meshio.Save(out, bmain)
}
