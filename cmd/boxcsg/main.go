// boxcsg combines two boxes from a YAML scene file with a boolean operation
// and writes the voxelized result as JSON boxes or a binary STL mesh,
// depending on the output file extension.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/soypat/boxcsg/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func main() {
	var (
		scenePath = flag.String("scene", "scene.yaml", "YAML scene file with boxes a, b, operation and resolution")
		outPath   = flag.String("o", "out.json", "output path: .json for box list, .stl for mesh")
	)
	flag.Parse()

	scene, err := LoadSceneFile(*scenePath)
	if err != nil {
		log.Fatalf("load scene: %v", err)
	}
	boxes, err := scene.Combine()
	if err != nil {
		log.Fatalf("combine: %v", err)
	}
	log.Printf("%s of a and b at resolution %g: %d voxel boxes", scene.Operation, scene.Resolution, len(boxes))

	switch {
	case strings.HasSuffix(*outPath, ".stl"):
		err = render.CreateSTL(*outPath, render.NewBoxRenderer(boxes))
	default:
		err = writeJSON(*outPath, boxes)
	}
	if err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}
	log.Printf("wrote %s", *outPath)
}

// jsonBox is the host-facing output shape of a voxel box.
type jsonBox struct {
	From [3]float64 `json:"from"`
	To   [3]float64 `json:"to"`
}

func writeJSON(path string, boxes []r3.Box) error {
	out := make([]jsonBox, len(boxes))
	for i, b := range boxes {
		out[i] = jsonBox{
			From: [3]float64{b.Min.X, b.Min.Y, b.Min.Z},
			To:   [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode boxes: %w", err)
	}
	return nil
}
