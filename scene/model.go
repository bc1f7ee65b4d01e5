package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/libscn"
)

const (
	sphereRadius   = 3
	sphereRings    = 128
	sphereSegments = 128
)

// loadModel uploads the gltf model at path scaled to the sphere's size, or the sphere itself when path is empty.
func loadModel(path string) (*libscn.Mesh, mgl32.Mat4, error) {
	if path == "" {
		geo := libscn.UvSphere(sphereRadius, sphereRings, sphereSegments)
		return libscn.UploadGeometry(geo), mgl32.Ident4(), nil
	}
	geo, err := libscn.LoadGltf(path)
	if err != nil {
		return nil, mgl32.Mat4{}, fmt.Errorf("load model: %w", err)
	}
	geo.Normalize()
	return libscn.UploadGeometry(geo), mgl32.Scale3D(sphereRadius, sphereRadius, sphereRadius), nil
}
