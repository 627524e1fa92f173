package scene

import (
	"fmt"
	"math"

	"mdxport/internal/config"
	"mdxport/internal/geometry"
)

// PlaneRotation tracks one rotation plane's angular state.
type PlaneRotation struct {
	Name  string
	Axis1 int
	Axis2 int
	// Speed is angular velocity in radians per second of video time.
	Speed float64
	// Angle is the current rotation angle in radians, kept in [0, 2π).
	Angle float64
}

// State holds all time-dependent scene parameters. Advancing is a
// deterministic function of the current state and an elapsed delta, so equal
// synthetic timelines always produce equal geometry.
type State struct {
	dim       int
	planes    []PlaneRotation
	projDist  float64
	vertices  [][]float64
	edges     [][2]int
}

// New builds scene state from configuration, resolving plane names against
// the configured dimension.
func New(cfg config.Scene) (*State, error) {
	if cfg.Dimension < 3 {
		return nil, fmt.Errorf("scene dimension %d too small", cfg.Dimension)
	}
	planes := make([]PlaneRotation, 0, len(cfg.Rotations))
	for _, rot := range cfg.Rotations {
		i, j, err := geometry.ParsePlane(rot.Plane, cfg.Dimension)
		if err != nil {
			return nil, err
		}
		planes = append(planes, PlaneRotation{
			Name:  rot.Plane,
			Axis1: i,
			Axis2: j,
			Speed: rot.Speed,
		})
	}
	return &State{
		dim:      cfg.Dimension,
		planes:   planes,
		projDist: cfg.ProjectionDistance,
		vertices: geometry.HypercubeVertices(cfg.Dimension),
		edges:    geometry.HypercubeEdges(cfg.Dimension),
	}, nil
}

// Dimension returns the scene's geometry dimension.
func (s *State) Dimension() int { return s.dim }

// Advance steps every rotation plane by deltaSeconds of synthetic video time.
func (s *State) Advance(deltaSeconds float64) {
	for i := range s.planes {
		angle := s.planes[i].Angle + s.planes[i].Speed*deltaSeconds
		angle = math.Mod(angle, 2*math.Pi)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		s.planes[i].Angle = angle
	}
}

// Matrix composes the current per-plane rotations into one transform.
func (s *State) Matrix() geometry.Matrix {
	planes := make([][2]int, len(s.planes))
	angles := make([]float64, len(s.planes))
	for i, p := range s.planes {
		planes[i] = [2]int{p.Axis1, p.Axis2}
		angles[i] = p.Angle
	}
	return geometry.ComposeRotations(s.dim, planes, angles)
}

// ProjectedEdges rotates the scene's wireframe by the current state and
// projects each edge endpoint to 3-D.
func (s *State) ProjectedEdges() [][2][3]float64 {
	m := s.Matrix()
	projected := make([][3]float64, len(s.vertices))
	for i, v := range s.vertices {
		projected[i] = geometry.Project3(geometry.Apply(m, v), s.projDist)
	}
	out := make([][2][3]float64, len(s.edges))
	for i, e := range s.edges {
		out[i] = [2][3]float64{projected[e[0]], projected[e[1]]}
	}
	return out
}

// Planes returns a copy of the current plane rotations.
func (s *State) Planes() []PlaneRotation {
	out := make([]PlaneRotation, len(s.planes))
	copy(out, s.planes)
	return out
}
