package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/deadsy/dxf2gltf/entitysource"
	"github.com/deadsy/dxf2gltf/geometry"
	"github.com/deadsy/dxf2gltf/preprocess"
	"github.com/deadsy/dxf2gltf/writer"
)

//-----------------------------------------------------------------------------

func main() {
	opts := geometry.DefaultOptions()

	var (
		glb          = flag.Bool("g", false, "write a 3MF binary asset alongside the JSON output")
		wireframe    = flag.Bool("w", false, "write an SVG wireframe preview alongside the JSON output")
		junkFilter   = flag.Bool("j", false, "enable percentile bounding-box culling and island removal")
		decimateGrid = flag.Int("d", 0, "enable vertex-clustering decimation at the given grid resolution (32..1024)")
		minComponent = flag.Int("min-component", opts.MinIslandTriangles, "minimum island component size kept by junk filtering")
		output       = flag.String("o", "out", "output path, without extension")
		layers       = flag.String("l", "", "comma-separated list of layers to include (default: all)")
	)
	flag.BoolVar(glb, "glb", *glb, "alias for -g")
	flag.BoolVar(wireframe, "wireframe", *wireframe, "alias for -w")
	flag.BoolVar(junkFilter, "junk-filter", *junkFilter, "alias for -j")
	flag.IntVar(decimateGrid, "decimate", *decimateGrid, "alias for -d")
	flag.StringVar(output, "output", *output, "alias for -o")
	flag.StringVar(layers, "layers", *layers, "alias for -l")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: dxf2gltf [flags] <input.dxf>")
		os.Exit(1)
	}
	input := flag.Arg(0)

	if *layers != "" {
		opts.IncludeLayers = geometry.NewLayerSet(strings.Split(*layers, ","))
	}
	opts.EnableJunkFilter = *junkFilter
	opts.MinIslandTriangles = *minComponent
	if *decimateGrid > 0 {
		opts.EnableDecimation = true
		opts.GridResolution = *decimateGrid
	}

	if err := run(input, *output, *glb, *wireframe, opts); err != nil {
		fmt.Fprintln(os.Stderr, "dxf2gltf:", err)
		os.Exit(1)
	}
}

func run(input, output string, writeGLB, writeWireframe bool, opts geometry.PreprocessorOptions) error {
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("opening %s: %w", input, err)
	}

	src, err := entitysource.OpenDXF(input)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", input, err)
	}

	geo, err := preprocess.Run(src, opts)
	if err != nil {
		return fmt.Errorf("preprocessing %s: %w", input, err)
	}

	jsonFile, err := os.Create(output + ".json")
	if err != nil {
		return err
	}
	defer jsonFile.Close()
	if err := writer.WriteJSON(jsonFile, geo); err != nil {
		return fmt.Errorf("writing %s.json: %w", output, err)
	}

	if writeGLB {
		f, err := os.Create(output + ".3mf")
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writer.Write3MF(f, geo); err != nil {
			return fmt.Errorf("writing %s.3mf: %w", output, err)
		}
	}

	if writeWireframe {
		f, err := os.Create(output + ".svg")
		if err != nil {
			return err
		}
		defer f.Close()
		if err := writer.WritePreviewSVG(f, geo, 1024, 1024); err != nil {
			return fmt.Errorf("writing %s.svg: %w", output, err)
		}
	}

	fmt.Printf("%s: %d entities -> %d polylines, %d meshes (%.2f%% vertex reduction)\n",
		input, geo.Stats.OriginalEntities, len(geo.Polylines), len(geo.Meshes), geo.Stats.ReductionPercent())
	return nil
}
