// Command hlayout drives the layout engine from a YAML graph fixture,
// without a renderer front-end. It exists for development and the
// end-to-end test fixtures; it is not part of the engine's public API.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/hlayout/hlayout"
	"github.com/hlayout/hlayout/model"
)

// fixtureNode is one node entry in a YAML graph fixture.
type fixtureNode struct {
	ID     string   `yaml:"id"`
	Width  float64  `yaml:"width"`
	Height float64  `yaml:"height"`
	In     []string `yaml:"in"`
	Out    []string `yaml:"out"`
}

// fixtureEdge is one edge entry in a YAML graph fixture.
type fixtureEdge struct {
	Src     string `yaml:"src"`
	Dst     string `yaml:"dst"`
	SrcPort string `yaml:"srcPort"`
	DstPort string `yaml:"dstPort"`
	Weight  float64 `yaml:"weight"`
}

// fixture is the top-level YAML document cmd/hlayout reads.
type fixture struct {
	Nodes []fixtureNode `yaml:"nodes"`
	Edges []fixtureEdge `yaml:"edges"`
}

// optionsOverlay mirrors hlayout.Options for YAML overlay files; only
// fields present in the file override DefaultOptions.
type optionsOverlay struct {
	TargetEdgeLength   *float64 `yaml:"targetEdgeLength"`
	WithLabels         *bool    `yaml:"withLabels"`
	Bundle             *bool    `yaml:"bundle"`
	OptimizeAngles     *bool    `yaml:"optimizeAngles"`
	Shuffles           *int     `yaml:"shuffles"`
	ShuffleGlobal      *bool    `yaml:"shuffleGlobal"`
	PreorderConnectors *bool    `yaml:"preorderConnectors"`
	Debug              *bool    `yaml:"debug"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "hlayout:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("hlayout", pflag.ContinueOnError)
	inputPath := flags.StringP("input", "i", "", "path to a YAML graph fixture")
	optionsPath := flags.StringP("options", "o", "", "path to a YAML options overlay")
	targetEdgeLength := flags.Float64("target-edge-length", 0, "override targetEdgeLength (0 = use default/overlay)")
	shuffles := flags.Int("shuffles", -1, "override shuffle retry count (-1 = use default/overlay)")
	debug := flags.Bool("debug", false, "enable InternalInvariantViolated assertions")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *inputPath == "" {
		return fmt.Errorf("missing required -input <fixture.yaml>")
	}

	opts := hlayout.DefaultOptions()
	if *optionsPath != "" {
		if err := applyOverlay(*optionsPath, &opts); err != nil {
			return err
		}
	}
	if *targetEdgeLength > 0 {
		opts.TargetEdgeLength = *targetEdgeLength
	}
	if *shuffles >= 0 {
		opts.Shuffles = *shuffles
	}
	if *debug {
		opts.Debug = true
	}

	g, err := loadFixture(*inputPath)
	if err != nil {
		return err
	}

	result, err := hlayout.Layout(g, opts)
	if err != nil {
		return err
	}

	return json.NewEncoder(os.Stdout).Encode(toOutput(result))
}

func applyOverlay(path string, opts *hlayout.Options) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading options overlay: %w", err)
	}
	var ov optionsOverlay
	if err := yaml.Unmarshal(raw, &ov); err != nil {
		return fmt.Errorf("parsing options overlay: %w", err)
	}
	if ov.TargetEdgeLength != nil {
		opts.TargetEdgeLength = *ov.TargetEdgeLength
	}
	if ov.WithLabels != nil {
		opts.WithLabels = *ov.WithLabels
	}
	if ov.Bundle != nil {
		opts.Bundle = *ov.Bundle
	}
	if ov.OptimizeAngles != nil {
		opts.OptimizeAngles = *ov.OptimizeAngles
	}
	if ov.Shuffles != nil {
		opts.Shuffles = *ov.Shuffles
	}
	if ov.ShuffleGlobal != nil {
		opts.ShuffleGlobal = *ov.ShuffleGlobal
	}
	if ov.PreorderConnectors != nil {
		opts.PreorderConnectors = *ov.PreorderConnectors
	}
	if ov.Debug != nil {
		opts.Debug = *ov.Debug
	}
	return nil
}

func loadFixture(path string) (*model.Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}

	g := model.NewGraph(true)
	byID := make(map[string]*model.Node, len(fx.Nodes))
	for _, fn := range fx.Nodes {
		n := g.AddNode()
		n.Width, n.Height = fn.Width, fn.Height
		for _, name := range fn.In {
			n.AddConnector(model.SideIn, name)
		}
		for _, name := range fn.Out {
			n.AddConnector(model.SideOut, name)
		}
		byID[fn.ID] = n
	}
	for _, fe := range fx.Edges {
		src, ok := byID[fe.Src]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node %q", fe.Src)
		}
		dst, ok := byID[fe.Dst]
		if !ok {
			return nil, fmt.Errorf("edge references unknown node %q", fe.Dst)
		}
		e, err := g.AddEdge(src, dst)
		if err != nil {
			return nil, err
		}
		e.SrcPort, e.DstPort = fe.SrcPort, fe.DstPort
		if fe.Weight > 0 {
			e.Weight = fe.Weight
			g.SyncWeight(e)
		}
	}
	return g, nil
}

type outputNode struct {
	X, Y, Width, Height float64
}

type outputEdge struct {
	Points []model.Point
}

type output struct {
	Nodes []outputNode
	Edges []outputEdge
}

func toOutput(g *model.Graph) output {
	var out output
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, outputNode{X: n.X, Y: n.Y, Width: n.Width, Height: n.Height})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, outputEdge{Points: e.Points})
	}
	return out
}
