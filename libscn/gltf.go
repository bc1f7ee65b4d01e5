package libscn

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGltf merges all triangle primitives of a gltf or glb file into one geometry.
// Missing normals are computed from the faces.
func LoadGltf(path string) (*Geometry, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	geo := &Geometry{Name: filepath.Base(path)}
	hasNormals := true
	for _, m := range doc.Meshes {
		for _, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			normals, err := appendPrimitive(doc, prim, geo)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
			}
			hasNormals = hasNormals && normals
		}
	}

	if len(geo.Vertices) == 0 {
		return nil, fmt.Errorf("%s contains no triangles", path)
	}
	if !hasNormals {
		geo.ComputeNormals()
	}
	return geo, nil
}

func appendPrimitive(doc *gltf.Document, prim *gltf.Primitive, geo *Geometry) (hasNormals bool, err error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	base := uint32(len(geo.Vertices))
	for i, p := range positions {
		v := Vertex{Position: mgl32.Vec3(p)}
		if i < len(normals) {
			v.Normal = mgl32.Vec3(normals[i])
		}
		if i < len(uvs) {
			// gltf has its uv origin in the top left
			v.Uv = mgl32.Vec2{uvs[i][0], 1 - uvs[i][1]}
		}
		geo.Vertices = append(geo.Vertices, v)
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
		for _, i := range indices {
			geo.Indices = append(geo.Indices, base+i)
		}
	} else {
		for i := range positions {
			geo.Indices = append(geo.Indices, base+uint32(i))
		}
	}
	return len(normals) == len(positions), nil
}
