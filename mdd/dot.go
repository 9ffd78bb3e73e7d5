package mdd

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/katalvlaran/ddsolve/core"
)

// DOTOptions configures diagram export.
type DOTOptions struct {
	// Name is the graph identifier. Defaults to the compilation kind.
	Name string

	// StateLabel renders a state inside its node. Defaults to fmt's %v.
	StateLabel func(state any) string
}

// ToDOT converts the diagram to Graphviz DOT.
//
// Layers are laid out top to bottom with rank=same groups. Merged nodes are
// dashed, inexact nodes grey, cutset nodes bold, and the best terminal node
// is double-circled. Every node carries a tooltip with its value and bounds;
// every edge a tooltip with its decision and cost.
func (d *Diagram[S]) ToDOT(opts DOTOptions) string {
	name := opts.Name
	if name == "" {
		name = d.kind.String()
	}
	label := opts.StateLabel
	if label == nil {
		label = func(s any) string { return fmt.Sprintf("%v", s) }
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=10];\n")
	buf.WriteString("  edge [fontsize=9];\n")
	buf.WriteString("\n")

	for l, layer := range d.layers {
		ids := make([]string, len(layer))
		for i, id := range layer {
			ids[i] = fmt.Sprintf("n%d", id)
			n := &d.nodes[id]
			fmt.Fprintf(&buf, "  n%d [%s];\n", id, strings.Join(d.nodeAttrs(id, label(n.state)), ", "))
		}
		if len(ids) > 0 {
			fmt.Fprintf(&buf, "  { rank=same; %s; } // layer %d\n", strings.Join(ids, "; "), l)
		}
	}

	buf.WriteString("\n")
	for _, layer := range d.layers {
		for _, id := range layer {
			for _, eid := range d.nodes[id].inbound {
				e := d.edges[eid]
				attrs := []string{
					fmt.Sprintf("label=%q", e.decision.String()),
					fmt.Sprintf("tooltip=%q", fmt.Sprintf("%s cost=%d", e.decision, e.cost)),
				}
				if d.nodes[id].best == eid {
					attrs = append(attrs, "penwidth=2")
				}
				fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.from, e.to, strings.Join(attrs, ", "))
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (d *Diagram[S]) nodeAttrs(id int, state string) []string {
	n := &d.nodes[id]
	tooltip := fmt.Sprintf("value=%s fub=%s rub=%s exact=%t",
		core.FormatBound(n.value), core.FormatBound(n.fub), core.FormatBound(n.rub), n.exact)

	attrs := []string{
		fmt.Sprintf("label=%q", state),
		fmt.Sprintf("tooltip=%q", tooltip),
	}
	var styles []string
	styles = append(styles, "filled")
	if n.merged {
		styles = append(styles, "dashed")
	}
	if n.cutset {
		styles = append(styles, "bold")
	}
	attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(styles, ",")))
	if !n.exact {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	if id == d.best && d.Complete() {
		attrs = append(attrs, "shape=doublecircle")
	}

	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
