package main

import (
	"flag"
	"os"

	"github.com/go-gl/mathgl/mgl32"

	"planeview/assets"
	"planeview/internal/logging"
	"planeview/opengl"
	"planeview/platform"
	"planeview/viewer"
)

func main() {
	cfg := viewer.DefaultConfig()
	winCfg := platform.DefaultWindowConfig()

	var (
		variant    = flag.Int("variant", cfg.Variant, "1: plane only, 2: plane plus render-target sprite")
		textureOne = flag.String("texture-one", cfg.TextureOnePath, "Foreground image (tOne)")
		textureTwo = flag.String("texture-two", cfg.TextureTwoPath, "Background image (tSec)")
		vertexPath = flag.String("vertex", "", "Vertex shader file (default: built-in)")
		fragPath   = flag.String("fragment", "", "Fragment shader file (default: built-in)")
		rtSize     = flag.Int("rt-size", cfg.RenderTargetSize, "Render target size in pixels (variant 2)")
		width      = flag.Int("width", winCfg.Width, "Window width")
		height     = flag.Int("height", winCfg.Height, "Window height")
		vsync      = flag.Bool("vsync", winCfg.VSync, "Wait for vertical sync")
		debug      = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	log := logging.NewDefaultLogger("planeview", *debug)
	if err := run(log, cfg, winCfg, options{
		variant:    *variant,
		textureOne: *textureOne,
		textureTwo: *textureTwo,
		vertexPath: *vertexPath,
		fragPath:   *fragPath,
		rtSize:     *rtSize,
		width:      *width,
		height:     *height,
		vsync:      *vsync,
	}); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

type options struct {
	variant                int
	textureOne, textureTwo string
	vertexPath, fragPath   string
	rtSize                 int
	width, height          int
	vsync                  bool
}

func run(log logging.Logger, cfg viewer.Config, winCfg platform.WindowConfig, opts options) error {
	var err error
	cfg.Variant = opts.variant
	cfg.TextureOnePath = opts.textureOne
	cfg.TextureTwoPath = opts.textureTwo
	cfg.RenderTargetSize = opts.rtSize
	if cfg.VertexShader, err = assets.ShaderSource(opts.vertexPath, assets.PlaneVertexShader); err != nil {
		return err
	}
	if cfg.FragmentShader, err = assets.ShaderSource(opts.fragPath, assets.PlaneFragmentShader); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	winCfg.Width = opts.width
	winCfg.Height = opts.height
	winCfg.VSync = opts.vsync

	window, err := platform.NewWindow(winCfg)
	if err != nil {
		return err
	}
	defer window.Destroy()

	fbw, fbh := window.GetFramebufferSize()
	renderer, err := opengl.NewRenderer(fbw, fbh, log)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	loader := assets.NewLoader(2, log)
	defer loader.Shutdown()

	v, err := viewer.New(cfg, window, renderer, loader, log)
	if err != nil {
		return err
	}

	window.SetWheelCallback(v.OnWheel)
	window.SetPointerCallbacks(v.Controls.OnPointerDown, v.Controls.OnPointerMove, v.Controls.OnPointerUp)
	window.SetKeyCallback(func(key int) {
		switch key {
		case platform.KeyEscape:
			window.Close()
		case platform.KeyR:
			v.Controls.Reset()
			v.Controls.Target = mgl32.Vec3{}
			v.Camera.SetPosition(cfg.CameraPosition)
			v.Camera.LookAt(v.Controls.Target)
			log.Infof("camera reset")
		case platform.KeyD:
			log.SetDebug(!log.DebugEnabled())
		}
	})

	log.Infof("running, %d texture loads pending", loader.Pending())
	return window.Run(v.Frame)
}
