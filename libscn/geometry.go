package libscn

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	Uv       mgl32.Vec2
}

const VertexSize = int(unsafe.Sizeof(Vertex{}))

// Geometry is cpu side triangle list data, ready to be uploaded as a Mesh.
type Geometry struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// UnitCube returns the 36 corner positions of a cube spanning [-1, 1] with outward facing ccw triangles.
func UnitCube() []mgl32.Vec3 {
	corners := [8]mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	faces := [6][4]int{
		{1, 2, 6, 5}, // +x
		{4, 7, 3, 0}, // -x
		{3, 7, 6, 2}, // +y
		{0, 1, 5, 4}, // -y
		{5, 6, 7, 4}, // +z
		{0, 3, 2, 1}, // -z
	}
	positions := make([]mgl32.Vec3, 0, 36)
	for _, f := range faces {
		positions = append(positions,
			corners[f[0]], corners[f[1]], corners[f[2]],
			corners[f[0]], corners[f[2]], corners[f[3]])
	}
	return positions
}

// UvSphere builds an indexed sphere with ccw winding seen from outside.
func UvSphere(radius float32, rings, segments int) *Geometry {
	if rings < 2 {
		rings = 2
	}
	if segments < 3 {
		segments = 3
	}
	geo := &Geometry{
		Name:     "sphere",
		Vertices: make([]Vertex, 0, (rings+1)*(segments+1)),
		Indices:  make([]uint32, 0, rings*segments*6),
	}

	for r := 0; r <= rings; r++ {
		v := float32(r) / float32(rings)
		theta := v * math32.Pi
		for s := 0; s <= segments; s++ {
			u := float32(s) / float32(segments)
			phi := u * 2 * math32.Pi
			normal := mgl32.Vec3{
				math32.Cos(phi) * math32.Sin(theta),
				-math32.Cos(theta),
				math32.Sin(phi) * math32.Sin(theta),
			}
			geo.Vertices = append(geo.Vertices, Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				Uv:       mgl32.Vec2{u, v},
			})
		}
	}

	stride := uint32(segments + 1)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			geo.Indices = append(geo.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return geo
}

// ComputeNormals replaces all normals with area weighted face normals.
func (geo *Geometry) ComputeNormals() {
	for i := range geo.Vertices {
		geo.Vertices[i].Normal = mgl32.Vec3{}
	}
	for i := 0; i+2 < len(geo.Indices); i += 3 {
		a, b, c := geo.Indices[i], geo.Indices[i+1], geo.Indices[i+2]
		pa, pb, pc := geo.Vertices[a].Position, geo.Vertices[b].Position, geo.Vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		geo.Vertices[a].Normal = geo.Vertices[a].Normal.Add(n)
		geo.Vertices[b].Normal = geo.Vertices[b].Normal.Add(n)
		geo.Vertices[c].Normal = geo.Vertices[c].Normal.Add(n)
	}
	for i := range geo.Vertices {
		if geo.Vertices[i].Normal.Len() > 0 {
			geo.Vertices[i].Normal = geo.Vertices[i].Normal.Normalize()
		}
	}
}

// Bounds returns the axis aligned extent of all vertices.
func (geo *Geometry) Bounds() (min, max mgl32.Vec3) {
	if len(geo.Vertices) == 0 {
		return
	}
	min = geo.Vertices[0].Position
	max = min
	for _, v := range geo.Vertices[1:] {
		for c := 0; c < 3; c++ {
			min[c] = math32.Min(min[c], v.Position[c])
			max[c] = math32.Max(max[c], v.Position[c])
		}
	}
	return
}

// Normalize centers the geometry at the origin and scales it to fit the unit sphere.
func (geo *Geometry) Normalize() {
	min, max := geo.Bounds()
	center := min.Add(max).Mul(0.5)
	var radius float32
	for _, v := range geo.Vertices {
		radius = math32.Max(radius, v.Position.Sub(center).Len())
	}
	if radius == 0 {
		return
	}
	for i := range geo.Vertices {
		geo.Vertices[i].Position = geo.Vertices[i].Position.Sub(center).Mul(1 / radius)
	}
}
