package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DecodeImage decodes PNG, JPEG, BMP or TGA data into RGBA. The name's
// extension picks TGA, which has no magic number; every other format is
// sniffed.
func DecodeImage(name string, data []byte) (*image.RGBA, error) {
	var (
		img image.Image
		err error
	)
	if strings.EqualFold(path.Ext(name), ".tga") {
		img, err = decodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return toRGBA(img), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

const (
	tgaTypeTrueColor = 2
	tgaTypeRLE       = 10
)

// decodeTGA handles uncompressed and RLE true-colour TGA at 24 or 32 bpp.
func decodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header too short")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: colour-mapped images not supported")
	}
	if imageType != tgaTypeTrueColor && imageType != tgaTypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: truncated")
	}
	src := data[offset:]
	bytesPerPixel := bpp / 8

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	put := func(idx int, px []byte) {
		x, y := idx%width, idx/width
		if !topToBottom {
			y = height - 1 - y
		}
		o := img.PixOffset(x, y)
		img.Pix[o+0] = px[2]
		img.Pix[o+1] = px[1]
		img.Pix[o+2] = px[0]
		img.Pix[o+3] = 255
		if bytesPerPixel == 4 {
			img.Pix[o+3] = px[3]
		}
	}

	total := width * height
	if imageType == tgaTypeTrueColor {
		if len(src) < total*bytesPerPixel {
			return nil, fmt.Errorf("tga: pixel data truncated")
		}
		for i := 0; i < total; i++ {
			put(i, src[i*bytesPerPixel:])
		}
		return img, nil
	}

	idx, pos := 0, 0
	for idx < total && pos < len(src) {
		header := src[pos]
		pos++
		count := int(header&0x7F) + 1
		if header&0x80 != 0 {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("tga: rle packet truncated")
			}
			px := src[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for ; count > 0 && idx < total; count-- {
				put(idx, px)
				idx++
			}
			continue
		}
		for ; count > 0 && idx < total; count-- {
			if pos+bytesPerPixel > len(src) {
				return nil, fmt.Errorf("tga: raw packet truncated")
			}
			put(idx, src[pos:pos+bytesPerPixel])
			pos += bytesPerPixel
			idx++
		}
	}
	return img, nil
}
