package geometry

import (
	"fmt"
	"math"
	"strings"
)

// axisNames maps dimension indices to their conventional axis letters.
var axisNames = []byte{'X', 'Y', 'Z', 'W', 'V', 'U'}

const (
	// minSafeDistance keeps the perspective division away from the
	// projection plane singularity.
	minSafeDistance = 0.01
)

// Matrix is a square row-major matrix of the given dimension.
type Matrix struct {
	Dim  int
	Data []float64
}

// Identity returns the dim x dim identity matrix.
func Identity(dim int) Matrix {
	m := Matrix{Dim: dim, Data: make([]float64, dim*dim)}
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

// ParsePlane resolves a two-letter plane name (e.g. "XY", "ZW") into ordered
// axis indices for the given dimension.
func ParsePlane(name string, dim int) (int, int, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(name))
	if len(trimmed) != 2 {
		return 0, 0, fmt.Errorf("plane %q: expected two axis letters", name)
	}
	i, ok := axisIndex(trimmed[0])
	if !ok {
		return 0, 0, fmt.Errorf("plane %q: unknown axis %q", name, string(trimmed[0]))
	}
	j, ok := axisIndex(trimmed[1])
	if !ok {
		return 0, 0, fmt.Errorf("plane %q: unknown axis %q", name, string(trimmed[1]))
	}
	if i == j {
		return 0, 0, fmt.Errorf("plane %q: axes must differ", name)
	}
	if i > j {
		i, j = j, i
	}
	if j >= dim {
		return 0, 0, fmt.Errorf("plane %q: axis out of range for dimension %d", name, dim)
	}
	return i, j, nil
}

func axisIndex(c byte) (int, bool) {
	for i, axis := range axisNames {
		if c == axis {
			return i, true
		}
	}
	return 0, false
}

// PlaneCount returns the number of distinct rotation planes in dim dimensions.
func PlaneCount(dim int) int {
	return dim * (dim - 1) / 2
}

// RotationMatrix builds the rotation by angle radians in the plane spanned by
// axes i and j.
func RotationMatrix(dim, i, j int, angle float64) Matrix {
	m := Identity(dim)
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	m.Data[i*dim+i] = cos
	m.Data[j*dim+j] = cos
	m.Data[i*dim+j] = -sin
	m.Data[j*dim+i] = sin
	return m
}

// Mul returns the matrix product a*b. Both operands must share a dimension.
func Mul(a, b Matrix) Matrix {
	dim := a.Dim
	out := Matrix{Dim: dim, Data: make([]float64, dim*dim)}
	for i := 0; i < dim; i++ {
		row := i * dim
		for j := 0; j < dim; j++ {
			var sum float64
			for k := 0; k < dim; k++ {
				sum += a.Data[row+k] * b.Data[k*dim+j]
			}
			out.Data[row+j] = sum
		}
	}
	return out
}

// Apply multiplies the matrix with a vector of matching dimension.
func Apply(m Matrix, v []float64) []float64 {
	dim := m.Dim
	out := make([]float64, dim)
	for i := 0; i < dim; i++ {
		row := i * dim
		var sum float64
		for j := 0; j < dim; j++ {
			sum += m.Data[row+j] * v[j]
		}
		out[i] = sum
	}
	return out
}

// ComposeRotations multiplies per-plane rotations in order. Planes are given
// as ordered axis index pairs with matching angles.
func ComposeRotations(dim int, planes [][2]int, angles []float64) Matrix {
	result := Identity(dim)
	for idx, plane := range planes {
		if idx >= len(angles) {
			break
		}
		i, j := plane[0], plane[1]
		if i < 0 || j < 0 || i >= dim || j >= dim || i == j {
			continue
		}
		result = Mul(result, RotationMatrix(dim, i, j, angles[idx]))
	}
	return result
}

// Project3 collapses an N-dimensional point to 3-D. Coordinates beyond the
// third contribute a normalized effective depth used for the perspective
// division, matching the visualizer's projection.
func Project3(v []float64, distance float64) [3]float64 {
	dim := len(v)
	if dim < 3 {
		var out [3]float64
		copy(out[:], v)
		return out
	}

	higher := dim - 3
	var depth float64
	if higher > 0 {
		for d := 3; d < dim; d++ {
			depth += v[d]
		}
		depth /= math.Sqrt(float64(higher))
	}

	denom := distance - depth
	if math.Abs(denom) < minSafeDistance {
		if denom >= 0 {
			denom = minSafeDistance
		} else {
			denom = -minSafeDistance
		}
	}
	scale := 1 / denom
	return [3]float64{v[0] * scale, v[1] * scale, v[2] * scale}
}

// HypercubeVertices returns the 2^dim corners of the unit hypercube,
// coordinates in {-1, 1}.
func HypercubeVertices(dim int) [][]float64 {
	count := 1 << dim
	vertices := make([][]float64, count)
	for i := 0; i < count; i++ {
		v := make([]float64, dim)
		for d := 0; d < dim; d++ {
			if i&(1<<d) != 0 {
				v[d] = 1
			} else {
				v[d] = -1
			}
		}
		vertices[i] = v
	}
	return vertices
}

// HypercubeEdges returns index pairs connecting corners that differ in
// exactly one coordinate.
func HypercubeEdges(dim int) [][2]int {
	count := 1 << dim
	edges := make([][2]int, 0, count*dim/2)
	for i := 0; i < count; i++ {
		for d := 0; d < dim; d++ {
			j := i ^ (1 << d)
			if i < j {
				edges = append(edges, [2]int{i, j})
			}
		}
	}
	return edges
}
