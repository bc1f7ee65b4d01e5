package ibl

import (
	"fmt"
	"runtime"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"

	"pbr-ibl/libio"
)

// SwBaker runs the same shading math as the gpu programs on the cpu.
// It needs no context, so it also works headless and in tests.
type SwBaker struct {
	cfg      Config
	viewport [4]int

	background     *libio.FloatImage
	backgroundCube *IblEnv
	irradiance     *IblEnv
	prefilter      *IblEnv
	brdfLut        *libio.FloatImage
	allocated      bool
}

func NewSwBaker(cfg Config) *SwBaker {
	return &SwBaker{cfg: cfg}
}

func (b *SwBaker) Allocate() error {
	if b.allocated {
		return nil
	}
	if err := b.cfg.Validate(); err != nil {
		return err
	}
	b.backgroundCube = NewIblEnv(nil, b.cfg.BackgroundCubeSize, 1)
	b.irradiance = NewIblEnv(nil, b.cfg.IrradianceSize, 1)
	b.prefilter = NewIblEnv(nil, b.cfg.PrefilterSize, b.cfg.PrefilterLevels)
	b.brdfLut = libio.NewFloatImage(make([]float32, b.cfg.BrdfLutSize*b.cfg.BrdfLutSize*2), 2, b.cfg.BrdfLutSize, b.cfg.BrdfLutSize)
	b.allocated = true
	return nil
}

func (b *SwBaker) UploadBackground(img *HdrImage) error {
	if !b.allocated {
		return fmt.Errorf("upload before allocate")
	}
	if err := img.Validate(); err != nil {
		return err
	}
	b.background = img.FloatImage()

	bg := b.background
	return swRenderToCube(b.backgroundCube, 0, func(dir mgl32.Vec3) mgl32.Vec3 {
		u, v := sampleSphericalMap(dir)
		return sampleBilinear(bg.Width, bg.Height, bg.Channels, bg.Pix, u, v)
	})
}

func (b *SwBaker) BakeIrradiance() error {
	src := b.backgroundCube
	delta := b.cfg.IrradianceSampleDelta
	return swRenderToCube(b.irradiance, 0, func(n mgl32.Vec3) mgl32.Vec3 {
		return convolveIrradiance(src, n, delta)
	})
}

func (b *SwBaker) BakePrefilter() error {
	src := b.backgroundCube
	samples := b.cfg.PrefilterSamples
	for _, pass := range PrefilterPlan(b.cfg.PrefilterSize, b.cfg.PrefilterLevels) {
		roughness := pass.Roughness
		err := swRenderToCube(b.prefilter, pass.Mip, func(n mgl32.Vec3) mgl32.Vec3 {
			return convolveSpecular(src, n, roughness, samples)
		})
		if err != nil {
			return fmt.Errorf("prefilter mip %d: %w", pass.Mip, err)
		}
	}
	return nil
}

func (b *SwBaker) BakeBrdfLut() error {
	lut := b.brdfLut
	size := lut.Width
	samples := uint32(b.cfg.BrdfSamples)

	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < size; y++ {
		g.Go(func() error {
			roughness := (float32(y) + 0.5) / float32(size)
			for x := 0; x < size; x++ {
				ndotv := (float32(x) + 0.5) / float32(size)
				scale, bias := integrateBrdf(ndotv, roughness, samples)
				i := lut.Index(x, y)
				lut.Pix[i+0] = scale
				lut.Pix[i+1] = bias
			}
			return nil
		})
	}
	return g.Wait()
}

func (b *SwBaker) Viewport() [4]int {
	return b.viewport
}

func (b *SwBaker) SetViewport(vp [4]int) {
	b.viewport = vp
}

// Result shares the baker's buffers.
func (b *SwBaker) Result() *BakeResult {
	return &BakeResult{
		Background:     b.background,
		BackgroundCube: b.backgroundCube,
		Irradiance:     b.irradiance,
		Prefilter:      b.prefilter,
		BrdfLut:        b.brdfLut,
	}
}

func (b *SwBaker) Release() {
	*b = SwBaker{cfg: b.cfg}
}

// swRenderToCube shades every texel of one level of dst with the direction through its center.
// Faces are shaded in parallel.
func swRenderToCube(dst *IblEnv, level int, shade func(dir mgl32.Vec3) mgl32.Vec3) error {
	size := dst.Size(level)

	g := errgroup.Group{}
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, view := range CubeFaceViews {
		face := view.Face
		pix := dst.Face(level, face)
		g.Go(func() error {
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					c := shade(TexelDirection(face, x, y, size))
					if !finite(c) {
						return fmt.Errorf("face %v texel (%d, %d) is not finite: %v", face, x, y, c)
					}
					i := (y*size + x) * 3
					pix[i+0], pix[i+1], pix[i+2] = c[0], c[1], c[2]
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func finite(c mgl32.Vec3) bool {
	for _, v := range c {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// 1/(2pi), 1/pi
var invAtan = [2]float32{0.15915494309, 0.31830988618}

func sampleSphericalMap(dir mgl32.Vec3) (u, v float32) {
	y := mgl32.Clamp(dir[1], -1, 1)
	u = math32.Atan2(dir[2], dir[0])*invAtan[0] + 0.5
	v = math32.Asin(y)*invAtan[1] + 0.5
	return u, v
}

// sampleBilinear filters the first three channels like GL_LINEAR with GL_CLAMP_TO_EDGE.
func sampleBilinear(w, h int, channels int, pix []float32, u, v float32) mgl32.Vec3 {
	// -0.5 to adjust for the pixel center offset
	u = u*float32(w) - 0.5
	v = v*float32(h) - 0.5
	ufloor := math32.Floor(u)
	vfloor := math32.Floor(v)
	ufrac, vfrac := u-ufloor, v-vfloor
	x0, y0 := int(ufloor), int(vfloor)
	x1, y1 := x0+1, y0+1

	clamp := func(i, n int) int {
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
	x0, x1 = clamp(x0, w), clamp(x1, w)
	y0, y1 = clamp(y0, h), clamp(y1, h)

	at := func(x, y int) mgl32.Vec3 {
		o := (y*w + x) * channels
		return mgl32.Vec3{pix[o], pix[o+1], pix[o+2]}
	}

	top := at(x0, y0).Mul(1 - ufrac).Add(at(x1, y0).Mul(ufrac))
	bottom := at(x0, y1).Mul(1 - ufrac).Add(at(x1, y1).Mul(ufrac))
	return top.Mul(1 - vfrac).Add(bottom.Mul(vfrac))
}

// sampleCubeMap selects the face and texture coordinates the way GL does for a direction.
func sampleCubeMap(dir mgl32.Vec3) (face CubeMapFace, u, v float32) {
	rx, ry, rz := dir[0], dir[1], dir[2]
	ax, ay, az := math32.Abs(rx), math32.Abs(ry), math32.Abs(rz)

	var ma float32
	switch {
	case ax >= ay && ax >= az:
		ma = ax
		v = -ry
		if rx >= 0 {
			face, u = CubeMapPositiveX, -rz
		} else {
			face, u = CubeMapNegativeX, rz
		}
	case ay >= az:
		ma = ay
		u = rx
		if ry >= 0 {
			face, v = CubeMapPositiveY, rz
		} else {
			face, v = CubeMapNegativeY, -rz
		}
	default:
		ma = az
		v = -ry
		if rz >= 0 {
			face, u = CubeMapPositiveZ, rx
		} else {
			face, u = CubeMapNegativeZ, -rx
		}
	}

	u = u*0.5/ma + 0.5
	v = v*0.5/ma + 0.5
	return face, u, v
}

func sampleCube(env *IblEnv, level int, dir mgl32.Vec3) mgl32.Vec3 {
	face, u, v := sampleCubeMap(dir)
	size := env.Size(level)
	return sampleBilinear(size, size, 3, env.Face(level, face), u, v)
}

// tangentFrame builds an orthonormal basis around n, falling back to a second up vector near the pole.
func tangentFrame(n, up, fallback mgl32.Vec3, pole float32) (tangent, bitangent mgl32.Vec3) {
	if math32.Abs(n.Dot(up)) >= pole {
		up = fallback
	}
	tangent = up.Cross(n).Normalize()
	bitangent = n.Cross(tangent)
	return tangent, bitangent
}

func convolveIrradiance(env *IblEnv, n mgl32.Vec3, delta float32) mgl32.Vec3 {
	right, up := tangentFrame(n, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}, 0.999)

	var irradiance mgl32.Vec3
	var samples float32
	for phi := float32(0); phi < 2*math32.Pi; phi += delta {
		sinPhi, cosPhi := math32.Sincos(phi)
		for theta := float32(0); theta < 0.5*math32.Pi; theta += delta {
			sinTheta, cosTheta := math32.Sincos(theta)
			dir := right.Mul(sinTheta * cosPhi).Add(up.Mul(sinTheta * sinPhi)).Add(n.Mul(cosTheta))
			irradiance = irradiance.Add(sampleCube(env, 0, dir).Mul(cosTheta * sinTheta))
			samples++
		}
	}
	return irradiance.Mul(math32.Pi / samples)
}

func convolveSpecular(env *IblEnv, n mgl32.Vec3, roughness float32, count int) mgl32.Vec3 {
	tangent, bitangent := tangentFrame(n, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, 0.999)
	v := n

	var color mgl32.Vec3
	var weight float32
	for i := 0; i < count; i++ {
		xu, xv := hammersley(uint32(i), uint32(count))
		hs := importanceSampleGGX(xu, xv, roughness)
		h := tangent.Mul(hs[0]).Add(bitangent.Mul(hs[1])).Add(n.Mul(hs[2])).Normalize()
		l := h.Mul(2 * v.Dot(h)).Sub(v).Normalize()

		ndotl := n.Dot(l)
		if ndotl > 0 {
			color = color.Add(sampleCube(env, 0, l).Mul(ndotl))
			weight += ndotl
		}
	}
	return color.Mul(1 / math32.Max(weight, 1e-4))
}

func radicalInverseVdC(bits uint32) float32 {
	bits = (bits << 16) | (bits >> 16)
	bits = ((bits & 0x55555555) << 1) | ((bits & 0xAAAAAAAA) >> 1)
	bits = ((bits & 0x33333333) << 2) | ((bits & 0xCCCCCCCC) >> 2)
	bits = ((bits & 0x0F0F0F0F) << 4) | ((bits & 0xF0F0F0F0) >> 4)
	bits = ((bits & 0x00FF00FF) << 8) | ((bits & 0xFF00FF00) >> 8)
	return float32(bits) * 2.3283064365386963e-10 // / 0x100000000
}

func hammersley(i, n uint32) (x, y float32) {
	return float32(i) / float32(n), radicalInverseVdC(i)
}

// importanceSampleGGX returns a half vector around +z.
func importanceSampleGGX(su, sv float32, roughness float32) mgl32.Vec3 {
	a := roughness * roughness

	phi := 2 * math32.Pi * su
	cosTheta := math32.Sqrt((1 - sv) / (1 + (a*a-1)*sv))
	sinTheta := math32.Sqrt(1 - cosTheta*cosTheta)

	sinPhi, cosPhi := math32.Sincos(phi)
	return mgl32.Vec3{cosPhi * sinTheta, sinPhi * sinTheta, cosTheta}
}

func geometrySchlickGGX(ndotv, roughness float32) float32 {
	// k for image based lighting
	k := roughness * roughness / 2
	return ndotv / (ndotv*(1-k) + k)
}

// integrateBrdf returns the scale and bias applied to F0 in the split sum.
func integrateBrdf(ndotv, roughness float32, count uint32) (scale, bias float32) {
	v := mgl32.Vec3{math32.Sqrt(1 - ndotv*ndotv), 0, ndotv}

	for i := uint32(0); i < count; i++ {
		xu, xv := hammersley(i, count)
		h := importanceSampleGGX(xu, xv, roughness)
		l := h.Mul(2 * v.Dot(h)).Sub(v).Normalize()

		ndotl := math32.Max(l[2], 0)
		ndoth := math32.Max(h[2], 0)
		vdoth := math32.Max(v.Dot(h), 0)
		if ndotl > 0 {
			g := geometrySchlickGGX(ndotv, roughness) * geometrySchlickGGX(ndotl, roughness)
			gVis := g * vdoth / (ndoth * ndotv)
			fc := math32.Pow(1-vdoth, 5)
			scale += (1 - fc) * gVis
			bias += fc * gVis
		}
	}
	return scale / float32(count), bias / float32(count)
}
