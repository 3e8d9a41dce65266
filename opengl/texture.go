package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"planeview/scene"
)

var errNilTexture = errors.New("nil texture")

// UploadTexture uploads a scene.Texture to the GPU and sets its GLID field.
// Call this from the main goroutine (OpenGL context must be current).
// Uploading again replaces the image in the existing GL object. Render target
// attachments are owned by their FBO and are left alone.
func UploadTexture(tex *scene.Texture) error {
	if tex == nil {
		return errNilTexture
	}
	if tex.Owned {
		return nil
	}
	if len(tex.Pixels) == 0 || len(tex.Pixels) < tex.Width*tex.Height*4 {
		return fmt.Errorf("texture %q has no pixel data", tex.Name)
	}

	id := tex.GLID
	if id == 0 {
		gl.GenTextures(1, &id)
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Rows are tightly packed; widths that are not a multiple of 4 bytes
	// would otherwise be skewed.
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(tex.Width),
		int32(tex.Height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		unsafe.Pointer(&tex.Pixels[0]),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	tex.GLID = id
	return nil
}

// DeleteTexture frees a previously uploaded GPU texture and zeroes its GLID.
func DeleteTexture(tex *scene.Texture) {
	if tex == nil || tex.GLID == 0 || tex.Owned {
		return
	}
	gl.DeleteTextures(1, &tex.GLID)
	tex.GLID = 0
}
