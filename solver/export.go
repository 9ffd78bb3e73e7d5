package solver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/katalvlaran/ddsolve/mdd"
)

// exportDiagram writes d as <ExportDir>/<name>.dot, plus <name>.svg when
// ExportSVG is set. Failures are logged and never stop the search.
func (s *Sequential[S]) exportDiagram(ctx context.Context, name string, d *mdd.Diagram[S]) {
	paths, err := WriteDiagram(ctx, s.opts.ExportDir, name, d, s.opts.ExportSVG)
	if err != nil {
		s.run.Warn("diagram export failed", "diagram", name, "err", err)
		return
	}
	s.run.Info("diagram exported", "diagram", name, "files", paths)
}

// WriteDiagram writes d in DOT format to dir/name.dot and, when svg is set,
// renders it to dir/name.svg. It returns the written paths.
func WriteDiagram[S comparable](ctx context.Context, dir, name string, d *mdd.Diagram[S], svg bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}

	dot := d.ToDOT(mdd.DOTOptions{Name: name})
	dotPath := filepath.Join(dir, name+".dot")
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", dotPath, err)
	}
	paths := []string{dotPath}
	if !svg {
		return paths, nil
	}

	img, err := mdd.RenderSVG(ctx, dot)
	if err != nil {
		return paths, err
	}
	svgPath := filepath.Join(dir, name+".svg")
	if err := os.WriteFile(svgPath, img, 0o644); err != nil {
		return paths, fmt.Errorf("write %s: %w", svgPath, err)
	}

	return append(paths, svgPath), nil
}
