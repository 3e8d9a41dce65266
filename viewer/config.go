package viewer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"planeview/assets"
	"planeview/core"
)

// Config holds the scene constants and resources of a viewer.
type Config struct {
	// Variant 1 renders the plane only. Variant 2 also renders a copy of
	// the plane into an offscreen target and shows it on a sprite.
	Variant int

	FOV            float32 // vertical, degrees
	Aspect         float32
	Near           float32
	Far            float32
	CameraPosition mgl32.Vec3

	// ZoomStep is how far one wheel notch moves the camera. In variant 2 a
	// zoom-in is refused once the plane is ZoomGuard or closer.
	ZoomStep  float32
	ZoomGuard float32

	RenderTargetSize int
	SpriteOffset     mgl32.Vec3
	AuxCameraZ       float32

	LightColor     core.Color
	LightIntensity float32
	LightPosition  mgl32.Vec3
	AxesSize       float32
	Background     core.Color

	VertexShader   string
	FragmentShader string
	TextureOnePath string
	TextureTwoPath string
}

// DefaultConfig returns a variant-1 viewer with the stock camera, light and
// texture paths.
func DefaultConfig() Config {
	return Config{
		Variant:          1,
		FOV:              75,
		Aspect:           2,
		Near:             0.1,
		Far:              5,
		CameraPosition:   mgl32.Vec3{0, 0, 2},
		ZoomStep:         0.05,
		ZoomGuard:        1,
		RenderTargetSize: 512,
		SpriteOffset:     mgl32.Vec3{1.25, 0, 0},
		AuxCameraZ:       1,
		LightColor:       core.ColorHex(0xFFFFFF),
		LightIntensity:   1,
		LightPosition:    mgl32.Vec3{-1, 2, 4},
		AxesSize:         1,
		Background:       core.ColorBlack,
		VertexShader:     assets.PlaneVertexShader,
		FragmentShader:   assets.PlaneFragmentShader,
		TextureOnePath:   "resources/somepng.png",
		TextureTwoPath:   "resources/somebackground.png",
	}
}

// Validate rejects configurations the viewer cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Variant != 1 && c.Variant != 2 {
		errs = append(errs, fmt.Errorf("variant must be 1 or 2, got %d", c.Variant))
	}
	if c.FOV <= 0 || c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("fov %v out of range (0, 180)", c.FOV))
	}
	if c.Aspect <= 0 {
		errs = append(errs, fmt.Errorf("aspect %v must be positive", c.Aspect))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("clip planes near=%v far=%v invalid", c.Near, c.Far))
	}
	if c.ZoomStep <= 0 {
		errs = append(errs, fmt.Errorf("zoom step %v must be positive", c.ZoomStep))
	}
	if c.Variant == 2 && c.RenderTargetSize <= 0 {
		errs = append(errs, fmt.Errorf("render target size %d must be positive", c.RenderTargetSize))
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		errs = append(errs, errors.New("shader sources must not be empty"))
	}
	if c.TextureOnePath == "" || c.TextureTwoPath == "" {
		errs = append(errs, fmt.Errorf("texture paths: %w", assets.ErrEmptyPath))
	}
	return errors.Join(errs...)
}
