package scene

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Texture holds CPU-side pixel data for a 2D texture.
// GLID is set by the OpenGL backend after upload; do not access directly.
type Texture struct {
	ID     string
	Name   string
	Path   string
	Width  int
	Height int
	// Pixels in RGBA8 format (4 bytes per pixel, row-major). With FlipY the
	// first row is the bottom row of the source image, as GL samples it.
	Pixels []byte
	FlipY  bool
	// Loaded reports whether Pixels holds the decoded image.
	Loaded bool
	// GLID is the OpenGL texture object ID, set by opengl.UploadTexture.
	GLID uint32
	// Owned marks textures whose GL object belongs to another resource
	// (render target attachments); the backend never uploads them.
	Owned bool
}

// NewTexture creates an empty texture that will be filled from path.
func NewTexture(path string) *Texture {
	return &Texture{
		ID:    uuid.NewString(),
		Name:  path,
		Path:  path,
		FlipY: true,
	}
}

// DecodeImageFile opens and decodes path into RGBA.
func DecodeImageFile(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, err := DecodeImage(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes any registered image format and converts it to RGBA
// with its origin at (0, 0).
func DecodeImage(r io.Reader) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	return rgba, nil
}

// SetImage replaces the pixel data, flipping rows if FlipY is set, and marks
// the texture loaded.
func (t *Texture) SetImage(img *image.RGBA) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	stride := w * 4
	pixels := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		srcRow := y
		if t.FlipY {
			srcRow = h - 1 - y
		}
		copy(pixels[y*stride:(y+1)*stride], img.Pix[srcRow*img.Stride:srcRow*img.Stride+stride])
	}
	t.Width = w
	t.Height = h
	t.Pixels = pixels
	t.Loaded = true
}
