package libio

import (
	"fmt"
	goimg "image"

	"github.com/chewxy/math32"
)

const MagicNumberF32 = 0x6d16837d

type FloatImageVersion uint32

const (
	F32Version1_001_000 = FloatImageVersion(1_001_000)
)

type FloatImageCompression uint32

const (
	FloatImageCompressionNone = FloatImageCompression(iota)
	FloatImageCompressionFixedPoint16Lz4
)

func (c FloatImageCompression) String() string {
	switch c {
	case FloatImageCompressionNone:
		return "none"
	case FloatImageCompressionFixedPoint16Lz4:
		return "fixed16+lz4"
	}
	return fmt.Sprintf("unknown(%d)", uint32(c))
}

type FloatImageHeader struct {
	Check         uint32
	Version       FloatImageVersion
	Width, Height uint32
	Channels      uint8
	Compression   FloatImageCompression
	Unused        [14]uint8
}

// FloatImage is a tightly packed float image.
// The origin (0,0) is in the bottom left, as opposed to Go's top left origin.
type FloatImage struct {
	Channels      int
	Width, Height int
	Pix           []float32
}

func NewFloatImage(pix []float32, channels int, width, height int) *FloatImage {
	return &FloatImage{
		Pix:      pix,
		Channels: channels,
		Width:    width,
		Height:   height,
	}
}

// Index returns the offset of the first channel of pixel (x, y).
func (img *FloatImage) Index(x, y int) int {
	return (x + y*img.Width) * img.Channels
}

func (img *FloatImage) Count() int {
	return img.Width * img.Height
}

func (img *FloatImage) Bytes() int {
	return img.Width * img.Height * img.Channels * 4
}

func (img *FloatImage) Validate() error {
	if img.Width <= 0 || img.Height <= 0 || img.Channels <= 0 {
		return fmt.Errorf("image dimensions %dx%dx%d are not positive", img.Width, img.Height, img.Channels)
	}
	if len(img.Pix) != img.Width*img.Height*img.Channels {
		return fmt.Errorf("image holds %d values, expected %d", len(img.Pix), img.Width*img.Height*img.Channels)
	}
	return nil
}

// ToChannels repacks the image to nr channels. Added channels take their value from defaults.
func (img *FloatImage) ToChannels(nr int, defaults ...float32) *FloatImage {
	dst := toChannels(img.Channels, nr, img.Count(), img.Pix, defaults...)
	return NewFloatImage(dst, nr, img.Width, img.Height)
}

func toChannels[P ~[]E, E any](srcCh, dstCh int, count int, pix P, defaults ...E) P {
	if srcCh == dstCh {
		return pix
	}

	if len(defaults) < dstCh {
		defaults = append(defaults, make([]E, dstCh-len(defaults))...)
	}

	dst := make(P, count*dstCh)
	for i := 0; i < count; i++ {
		for c := 0; c < dstCh; c++ {
			if c < srcCh {
				dst[i*dstCh+c] = pix[i*srcCh+c]
			} else {
				dst[i*dstCh+c] = defaults[c]
			}
		}
	}
	return dst
}

// Preview tonemaps the image into an 8-bit RGBA image with Go's top left origin.
func (img *FloatImage) Preview(gamma, exposure float32) *goimg.RGBA {
	rgba := goimg.NewRGBA(goimg.Rect(0, 0, img.Width, img.Height))
	channels := img.Channels
	if channels > 4 {
		channels = 4
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			i := img.Index(x, y)
			j := (x + (img.Height-y-1)*img.Width) * 4
			for c := 0; c < channels && c < 3; c++ {
				rgba.Pix[j+c] = uint8(tonemap(img.Pix[i+c], 1.0/gamma, exposure) * 0xff)
			}
			rgba.Pix[j+3] = 0xff
		}
	}
	return rgba
}

func tonemap(value, gamma, scale float32) float32 {
	value = math32.Pow(math32.Max(0, value)*scale, gamma)
	return math32.Min(value, 1.0)
}
