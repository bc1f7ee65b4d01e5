package ibl

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"

	"pbr-ibl/libio"
)

// HdrImage is a packed RGB float image whose first row is the bottom of the picture.
type HdrImage struct {
	Width, Height int
	Pix           []float32
}

func (img *HdrImage) Validate() error {
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: image dimensions %dx%d are not positive", ErrAsset, img.Width, img.Height)
	}
	if len(img.Pix) != img.Width*img.Height*3 {
		return fmt.Errorf("%w: image of %dx%d holds %d values", ErrAsset, img.Width, img.Height, len(img.Pix))
	}
	return nil
}

func (img *HdrImage) FloatImage() *libio.FloatImage {
	return libio.NewFloatImage(img.Pix, 3, img.Width, img.Height)
}

// DecodeHdr decodes any image format registered with the hdr package, Radiance RGBE by default.
// Alpha is dropped. With flip the bottom row of the picture becomes row 0.
func DecodeHdr(r io.Reader, flip bool) (*HdrImage, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: decode hdr: %v", ErrAsset, err)
	}
	hm, ok := m.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("%w: %s image is not high dynamic range", ErrAsset, format)
	}

	b := hm.Bounds()
	img := &HdrImage{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float32, b.Dx()*b.Dy()*3),
	}
	for y := 0; y < img.Height; y++ {
		row := y
		if flip {
			row = img.Height - y - 1
		}
		for x := 0; x < img.Width; x++ {
			r, g, b, _ := hm.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
			i := (row*img.Width + x) * 3
			img.Pix[i+0] = float32(r)
			img.Pix[i+1] = float32(g)
			img.Pix[i+2] = float32(b)
		}
	}
	return img, img.Validate()
}

// DecodeFloatImageHdr reads a libio float image. Those are stored bottom row first already.
func DecodeFloatImageHdr(r io.Reader) (*HdrImage, error) {
	fimg, err := libio.DecodeFloatImage(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAsset, err)
	}
	if fimg.Channels < 3 {
		return nil, fmt.Errorf("%w: float image has %d channels, need at least 3", ErrAsset, fimg.Channels)
	}
	fimg = fimg.ToChannels(3)
	img := &HdrImage{Width: fimg.Width, Height: fimg.Height, Pix: fimg.Pix}
	return img, img.Validate()
}

// DecodeFile picks the decoder by file extension: .f32 is a libio float image, everything else goes through DecodeHdr.
func DecodeFile(path string, flip bool) (*HdrImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAsset, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".f32") {
		return DecodeFloatImageHdr(file)
	}
	return DecodeHdr(file, flip)
}
