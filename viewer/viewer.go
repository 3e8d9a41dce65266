package viewer

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"planeview/assets"
	"planeview/controls"
	"planeview/internal/logging"
	"planeview/scene"
)

var (
	ErrNoSurface  = errors.New("viewer: no drawing surface")
	ErrNoRenderer = errors.New("viewer: no renderer")
	ErrNoLoader   = errors.New("viewer: no texture loader")
)

// Surface is the element the viewer draws into.
type Surface interface {
	ClientSize() (float64, float64)
	PixelRatio() float64
}

// Renderer draws scenes to the surface or to render targets.
type Renderer interface {
	DrawingBufferSize() (int, int)
	SetDrawingBufferSize(width, height int)
	UploadTexture(tex *scene.Texture) error
	Render(s *scene.Scene, cam *scene.Camera, target *scene.RenderTarget) error
}

// TextureLoader hands out empty textures immediately and reports finished
// loads through Poll.
type TextureLoader interface {
	Load(path string) (*scene.Texture, error)
	Poll() []assets.Result
}

// Viewer owns the scene, the camera and its controller, and drives them one
// frame at a time.
type Viewer struct {
	cfg      Config
	surface  Surface
	renderer Renderer
	loader   TextureLoader
	log      logging.Logger

	Camera   *scene.Camera
	Controls *controls.Orbit
	Scene    *scene.Scene
	Light    *scene.Light
	Axes     *scene.Node
	Plane    *scene.Node
	Material *scene.Material

	TextureOne *scene.Texture
	TextureTwo *scene.Texture

	// Variant 2 only.
	AuxScene  *scene.Scene
	AuxCamera *scene.Camera
	AuxPlane  *scene.Node
	Target    *scene.RenderTarget
	Sprite    *scene.Node

	raycaster *scene.Raycaster
	loads     loadTracker
	fresh     []*scene.Texture
}

// New builds the scene described by cfg and starts loading its textures.
func New(cfg Config, surface Surface, renderer Renderer, loader TextureLoader, log logging.Logger) (*Viewer, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if renderer == nil {
		return nil, ErrNoRenderer
	}
	if loader == nil {
		return nil, ErrNoLoader
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("viewer config: %w", err)
	}
	if log == nil {
		log = logging.Nop()
	}

	v := &Viewer{
		cfg:       cfg,
		surface:   surface,
		renderer:  renderer,
		loader:    loader,
		log:       log,
		raycaster: scene.NewRaycaster(),
		loads:     newLoadTracker(),
	}

	v.Camera = scene.NewPerspectiveCamera(cfg.FOV, cfg.Aspect, cfg.Near, cfg.Far)
	v.Camera.SetPosition(cfg.CameraPosition)

	v.Controls = controls.NewOrbit(v.Camera, surface)
	v.Controls.EnableZoom = false

	v.Scene = scene.NewScene()
	v.Scene.Background = cfg.Background

	v.Light = scene.NewDirectionalLight(cfg.LightColor, cfg.LightIntensity)
	v.Light.Position = cfg.LightPosition
	v.Scene.AddLight(v.Light)

	v.Axes = scene.NewMeshNode(scene.CreateAxes(cfg.AxesSize))
	v.Scene.Add(v.Axes)

	var err error
	if v.TextureOne, err = loader.Load(cfg.TextureOnePath); err != nil {
		return nil, fmt.Errorf("load texture one: %w", err)
	}
	if v.TextureTwo, err = loader.Load(cfg.TextureTwoPath); err != nil {
		return nil, fmt.Errorf("load texture two: %w", err)
	}
	v.loads.expect(v.TextureOne.ID, v.TextureTwo.ID)

	v.Material = scene.NewShaderMaterial("PlaneMaterial", cfg.VertexShader, cfg.FragmentShader, map[string]*scene.Uniform{
		"tOne": {Value: v.TextureOne},
		"tSec": {Value: v.TextureTwo},
	})

	planeMesh := scene.CreatePlane(1, 1, 1, 1)
	planeMesh.Material = v.Material
	v.Plane = scene.NewMeshNode(planeMesh)
	v.Scene.Add(v.Plane)

	if cfg.Variant == 2 {
		v.buildRenderTarget(planeMesh)
	}

	log.Infof("viewer ready (variant %d), loading %s and %s", cfg.Variant, cfg.TextureOnePath, cfg.TextureTwoPath)
	return v, nil
}

// buildRenderTarget sets up the auxiliary scene that frames a copy of the
// plane, and the sprite that shows it in the main scene.
func (v *Viewer) buildRenderTarget(planeMesh *scene.Mesh) {
	v.AuxScene = scene.NewScene()
	v.AuxScene.Background = v.cfg.Background
	v.AuxPlane = scene.NewMeshNode(planeMesh.Clone("AuxPlane"))
	v.AuxScene.Add(v.AuxPlane)

	v.AuxCamera = scene.NewOrthographicCamera(-0.5, 0.5, 0.5, -0.5, 0.1, 10)
	v.AuxCamera.SetPosition(mgl32.Vec3{0, 0, v.cfg.AuxCameraZ})
	v.AuxCamera.LookAt(mgl32.Vec3{})

	v.Target = scene.NewRenderTarget(v.cfg.RenderTargetSize, v.cfg.RenderTargetSize)

	v.Sprite = scene.NewSpriteNode("RenderTargetSprite", scene.NewSpriteMaterial("RenderTargetSprite", v.Target.Texture))
	v.Sprite.SetPosition(v.cfg.SpriteOffset)
	v.Scene.Add(v.Sprite)
}

// Config returns the configuration the viewer was built with.
func (v *Viewer) Config() Config { return v.cfg }

// State reports whether textures are still loading.
func (v *Viewer) State() LoadState { return v.loads.state }

// LoadedTextures is the number of distinct textures counted as loaded.
func (v *Viewer) LoadedTextures() int { return v.loads.count() }
