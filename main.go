// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/numerigo/paramesh/mesh"
	"github.com/numerigo/paramesh/meshio"
	"github.com/numerigo/paramesh/pipeline"
	"github.com/numerigo/paramesh/pipeline/projection"
	"github.com/numerigo/paramesh/vecops"
)

func main() {
	exitCode := 0

	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			if exitCode == 0 {
				exitCode = 2
			}
		}
		os.Exit(exitCode)
	}()

	io.PfWhite("\nparamesh -- surface parameterization driver\n\n")

	source := flag.String("source", "", "input 3D mesh (.obj or .off)")
	target := flag.String("target", "", "output mesh, written with (u,v) set (.obj or .off)")
	mapFile := flag.String("map", "", "optional pinned-vertex file: lines of 'id u v'")
	optIters := flag.Uint("opt_iters", 1000, "maximum NLO outer iterations")
	unIters := flag.Uint("un_iters", 1000, "maximum untangler iterations")
	scaleIters := flag.Uint("scale_iters", 300, "NLO iterations between rescales; 0 disables")
	res := flag.Float64("res", 1e-7, "target residual (informational)")
	workgroup := flag.Int("workgroup", 512, "backend parallel group size")
	proj := flag.Int("proj", 2, "initial projection: 0=planar 1=circular 2=uv")
	free := flag.Int("free", 1, "free boundaries? 0 or 1")
	etype := flag.String("type", "isometric", "energy: mips, isometric, or smooth")
	ps := flag.Int("ps", 0, "post-script export level (external, not implemented)")
	flag.Parse()

	_ = res // informational only; the optimizer runs to opt_iters regardless

	if *source == "" || *target == "" {
		chk.Panic("paramesh: -source and -target are required")
	}
	if *proj < 0 || *proj > 2 {
		chk.Panic("paramesh: -proj must be 0, 1, or 2, got %d", *proj)
	}
	switch *etype {
	case "mips", "isometric", "smooth":
	default:
		chk.Panic("paramesh: -type must be mips, isometric, or smooth, got %q", *etype)
	}
	if *ps != 0 {
		io.Pfyel("paramesh: -ps=%d requested but post-script export is not implemented; ignoring\n", *ps)
	}

	m, err := loadMesh(*source)
	if err != nil {
		exitCode = 1
		chk.Panic("%v", err)
	}

	if *mapFile != "" {
		pins, perr := meshio.LoadPinned(*mapFile)
		if perr != nil {
			exitCode = 1
			chk.Panic("%v", perr)
		}
		if aerr := meshio.ApplyPinned(m, pins); aerr != nil {
			exitCode = 1
			chk.Panic("%v", aerr)
		}
		io.Pf("paramesh: applied %d pinned vertices from %q\n", len(pins), *mapFile)
	}

	theta := 1.0
	if *etype == "mips" {
		theta = 0
	}

	backend := vecops.NewCPUBackend(*workgroup)
	defer backend.Close()

	opts := pipeline.Options{
		FreeBoundaries: *free != 0,
		ProjectionKind: projection.Kind(*proj),
		PlanarScale:    1,
		EnergyType:     *etype,
		Theta:          theta,
		OptIters:       int(*optIters),
		UnIters:        int(*unIters),
		ScaleIters:     int(*scaleIters),
		C1:             0.4,
		Memory:         8,
		Backend:        backend,
	}

	result, err := pipeline.Run(opts, m)
	if err != nil {
		chk.Panic("%v", err)
	}
	io.Pf("paramesh: %d free / %d pinned vertices, %d triangles, %d quads\n",
		result.NFree, result.NPinned, result.NTriangles, result.NQuads)
	if result.Optimize != nil {
		io.Pf("paramesh: optimizer ran %d iterations, final energy %v\n", result.Optimize.Iterations, result.Optimize.F)
	}

	if err := saveMesh(*target, m); err != nil {
		exitCode = 1
		chk.Panic("%v", err)
	}
	io.PfGreen("paramesh: wrote %q\n", *target)
}

func loadMesh(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return meshio.LoadOBJ(path)
	case ".off":
		return meshio.LoadOFF(path)
	default:
		return nil, chk.Err("paramesh: unrecognized mesh extension %q (expected .obj or .off)", path)
	}
}

func saveMesh(path string, m *mesh.Mesh) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return meshio.SaveOBJ(path, m)
	case ".off":
		return meshio.SaveOFF(path, m)
	default:
		return chk.Err("paramesh: unrecognized mesh extension %q (expected .obj or .off)", path)
	}
}
