package main

import (
	"fmt"
	"io"
	"os"

	"github.com/soypat/boxcsg"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Scene is the YAML input to the boxcsg command: two boxes, the boolean
// operation to apply between them and the voxel resolution of the rebuilt
// geometry.
type Scene struct {
	Operation  string   `yaml:"operation"`
	Resolution float64  `yaml:"resolution"`
	A          SceneBox `yaml:"a"`
	B          SceneBox `yaml:"b"`
}

// SceneBox is the YAML shape of a box primitive. Rotation is in degrees
// about the origin pivot, X then Y then Z.
type SceneBox struct {
	From     [3]float64 `yaml:"from"`
	To       [3]float64 `yaml:"to"`
	Origin   [3]float64 `yaml:"origin"`
	Rotation [3]float64 `yaml:"rotation"`
}

func vec(a [3]float64) r3.Vec {
	return r3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

// Box converts the YAML shape to the library input type.
func (sb SceneBox) Box() boxcsg.Box {
	return boxcsg.Box{
		From:     vec(sb.From),
		To:       vec(sb.To),
		Origin:   vec(sb.Origin),
		Rotation: vec(sb.Rotation),
	}
}

// LoadScene decodes a YAML scene. Unknown fields are rejected so typos in
// hand-written scene files fail loudly.
func LoadScene(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Scene
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	return &s, nil
}

// LoadSceneFile reads a YAML scene from disk.
func LoadSceneFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadScene(f)
}

// Combine runs the geometry pipeline on the scene.
func (s *Scene) Combine() ([]r3.Box, error) {
	op, err := boxcsg.ParseOperation(s.Operation)
	if err != nil {
		return nil, err
	}
	return boxcsg.Combine(s.A.Box(), s.B.Box(), op, s.Resolution)
}
