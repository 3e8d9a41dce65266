package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
	"planeview/internal/logging"
	"planeview/scene"
)

var ErrNoCamera = errors.New("opengl: render without a camera")

// GPUMesh holds the OpenGL buffer objects for an uploaded mesh.
type GPUMesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
	HasIndices bool
}

// Renderer is the OpenGL rendering backend.
type Renderer struct {
	width, height int

	basic     *Program
	sprite    *Program
	quad      *scene.Mesh
	programs  map[*scene.Material]*Program
	gpuMeshes map[*scene.Mesh]*GPUMesh
	targets   map[*scene.RenderTarget]*GPURenderTarget
	textures  map[*scene.Texture]struct{}

	// default material for meshes without one
	vertexColors *scene.Material

	log logging.Logger
}

// NewRenderer initialises OpenGL for a drawing buffer of width x height
// pixels. Must be called after the GLFW window context is made current.
func NewRenderer(width, height int, log logging.Logger) (*Renderer, error) {
	if log == nil {
		log = logging.Nop()
	}
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Infof("OpenGL version: %s", gl.GoStr(gl.GetString(gl.VERSION)))

	basic, err := linkProgram(basicVertSrc, basicFragSrc)
	if err != nil {
		return nil, fmt.Errorf("basic shader: %w", err)
	}
	sprite, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		basic.Delete()
		return nil, fmt.Errorf("sprite shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)

	r := &Renderer{
		basic:        basic,
		sprite:       sprite,
		quad:         scene.CreatePlane(1, 1, 1, 1),
		programs:     make(map[*scene.Material]*Program),
		gpuMeshes:    make(map[*scene.Mesh]*GPUMesh),
		targets:      make(map[*scene.RenderTarget]*GPURenderTarget),
		textures:     make(map[*scene.Texture]struct{}),
		vertexColors: scene.NewBasicMaterial("VertexColors"),
		log:          log,
	}
	r.SetDrawingBufferSize(width, height)
	return r, nil
}

// DrawingBufferSize is the size in pixels of the default framebuffer as last
// set through SetDrawingBufferSize.
func (r *Renderer) DrawingBufferSize() (int, int) {
	return r.width, r.height
}

// SetDrawingBufferSize records the new backing size and resizes the viewport.
func (r *Renderer) SetDrawingBufferSize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debugf("drawing buffer %dx%d", width, height)
}

// UploadTexture pushes tex's pixels to the GPU.
func (r *Renderer) UploadTexture(tex *scene.Texture) error {
	if err := UploadTexture(tex); err != nil {
		return err
	}
	r.textures[tex] = struct{}{}
	r.log.Debugf("texture %s uploaded %dx%d (gl %d)", tex.ID, tex.Width, tex.Height, tex.GLID)
	return nil
}

// Render draws s through cam. With a non-nil target the image goes to the
// target's framebuffer instead of the window.
func (r *Renderer) Render(s *scene.Scene, cam *scene.Camera, target *scene.RenderTarget) error {
	if cam == nil {
		return ErrNoCamera
	}

	if target != nil {
		gpu, err := r.ensureTarget(target)
		if err != nil {
			return err
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, gpu.FBO)
		gl.Viewport(0, 0, gpu.Width, gpu.Height)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(r.width), int32(r.height))
	}

	bg := s.Background
	gl.ClearColor(bg.R, bg.G, bg.B, bg.A)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	frame := frameState{
		view:  cam.ViewMatrix(),
		proj:  cam.ProjectionMatrix(),
		eye:   cam.Position,
		light: s.DirectionalLight(),
	}

	frustum := scene.CameraFrustum(cam)
	var transparent []*scene.Node
	for _, node := range s.VisibleNodes() {
		if !node.InFrustum(&frustum) {
			continue
		}
		if mat := nodeMaterial(node); mat != nil && mat.Transparent {
			transparent = append(transparent, node)
			continue
		}
		if err := r.drawNode(node, &frame); err != nil {
			return err
		}
	}
	for _, node := range transparent {
		if err := r.drawNode(node, &frame); err != nil {
			return err
		}
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
	if target != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		gl.Viewport(0, 0, int32(r.width), int32(r.height))
	}
	return nil
}

type frameState struct {
	view  mgl32.Mat4
	proj  mgl32.Mat4
	eye   mgl32.Vec3
	light *scene.Light
}

func nodeMaterial(node *scene.Node) *scene.Material {
	switch {
	case node.Sprite != nil:
		return node.Sprite.Material
	case node.Mesh != nil:
		return node.Mesh.Material
	}
	return nil
}

func (r *Renderer) drawNode(node *scene.Node, frame *frameState) error {
	if node.Sprite != nil {
		return r.drawSprite(node, frame)
	}

	mesh := node.Mesh
	gpu := r.ensureUploaded(mesh)
	if gpu == nil {
		return nil
	}

	mat := mesh.Material
	if mat == nil {
		mat = r.vertexColors
	}
	prog, err := r.programFor(mat)
	if err != nil {
		return err
	}

	gl.UseProgram(prog.ID)
	model := node.WorldMatrix()
	setMatrices(prog, model, frame)
	if mat.Kind == scene.MaterialBasic {
		setColor(prog.Loc("diffuse"), mat.Color)
	} else {
		r.applyUniforms(prog, mat)
		setLight(prog, frame.light, frame.view)
	}
	applyRenderState(mat)

	mode := uint32(gl.TRIANGLES)
	if mesh.DrawMode == scene.DrawLines {
		mode = gl.LINES
	}

	gl.BindVertexArray(gpu.VAO)
	if gpu.HasIndices {
		gl.DrawElements(mode, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mode, 0, int32(len(mesh.Vertices)))
	}
	return nil
}

func (r *Renderer) drawSprite(node *scene.Node, frame *frameState) error {
	gpu := r.ensureUploaded(r.quad)
	if gpu == nil {
		return nil
	}
	sp := node.Sprite
	mat := sp.Material
	if mat == nil {
		return nil
	}

	gl.UseProgram(r.sprite.ID)
	setMatrices(r.sprite, node.WorldMatrix(), frame)
	gl.Uniform2f(r.sprite.Loc("center"), sp.Center.X(), sp.Center.Y())
	setColor(r.sprite.Loc("diffuse"), mat.Color)
	gl.Uniform1f(r.sprite.Loc("opacity"), mat.Color.A)

	if mat.Map != nil && mat.Map.GLID != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, mat.Map.GLID)
		gl.Uniform1i(r.sprite.Loc("map"), 0)
		gl.Uniform1i(r.sprite.Loc("hasMap"), 1)
	} else {
		gl.Uniform1i(r.sprite.Loc("hasMap"), 0)
	}
	applyRenderState(mat)

	gl.BindVertexArray(gpu.VAO)
	gl.DrawElements(gl.TRIANGLES, gpu.IndexCount, gl.UNSIGNED_INT, nil)
	return nil
}

// programFor returns the program of a material, compiling it on first use.
func (r *Renderer) programFor(mat *scene.Material) (*Program, error) {
	switch mat.Kind {
	case scene.MaterialBasic:
		return r.basic, nil
	case scene.MaterialSprite:
		return r.sprite, nil
	}
	if prog, ok := r.programs[mat]; ok {
		return prog, nil
	}
	prog, err := newMaterialProgram(mat.VertexShader, mat.FragmentShader)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", mat.Name, err)
	}
	r.programs[mat] = prog
	r.log.Debugf("compiled program %d for material %q", prog.ID, mat.Name)
	return prog, nil
}

func setMatrices(prog *Program, model mgl32.Mat4, frame *frameState) {
	modelView := frame.view.Mul4(model)
	normal := modelView.Mat3().Inv().Transpose()

	setMat4(prog.Loc("modelMatrix"), model)
	setMat4(prog.Loc("viewMatrix"), frame.view)
	setMat4(prog.Loc("projectionMatrix"), frame.proj)
	setMat4(prog.Loc("modelViewMatrix"), modelView)
	gl.UniformMatrix3fv(prog.Loc("normalMatrix"), 1, false, &normal[0])
	gl.Uniform3f(prog.Loc("cameraPosition"), frame.eye.X(), frame.eye.Y(), frame.eye.Z())
}

// setLight passes the first directional light in view space, the way lit
// materials expect it.
func setLight(prog *Program, light *scene.Light, view mgl32.Mat4) {
	if light == nil {
		gl.Uniform1f(prog.Loc("directionalLightIntensity"), 0)
		return
	}
	dir := view.Mul4x1(light.Direction().Mul(-1).Vec4(0)).Vec3()
	gl.Uniform3f(prog.Loc("directionalLightDirection"), dir.X(), dir.Y(), dir.Z())
	setColor(prog.Loc("directionalLightColor"), light.Color)
	gl.Uniform1f(prog.Loc("directionalLightIntensity"), light.Intensity)
}

// applyUniforms binds texture uniforms to consecutive units in name order and
// uploads the remaining values.
func (r *Renderer) applyUniforms(prog *Program, mat *scene.Material) {
	for unit, tu := range mat.TextureUniforms() {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		var id uint32
		if tu.Texture != nil {
			id = tu.Texture.GLID
		}
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.Uniform1i(prog.Loc(tu.Name), int32(unit))
	}

	for name, u := range mat.Uniforms {
		if u == nil {
			continue
		}
		loc := prog.Loc(name)
		switch v := u.Value.(type) {
		case float32:
			gl.Uniform1f(loc, v)
		case float64:
			gl.Uniform1f(loc, float32(v))
		case int32:
			gl.Uniform1i(loc, v)
		case int:
			gl.Uniform1i(loc, int32(v))
		case bool:
			if v {
				gl.Uniform1i(loc, 1)
			} else {
				gl.Uniform1i(loc, 0)
			}
		case core.Color:
			setColor(loc, v)
		case mgl32.Vec2:
			gl.Uniform2f(loc, v[0], v[1])
		case mgl32.Vec3:
			gl.Uniform3f(loc, v[0], v[1], v[2])
		case mgl32.Vec4:
			gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
		case mgl32.Mat4:
			setMat4(loc, v)
		case *scene.Texture:
			// bound above
		default:
			r.log.Warnf("material %q: uniform %q has unsupported type %T", mat.Name, name, v)
		}
	}
}

func applyRenderState(mat *scene.Material) {
	switch mat.Side {
	case scene.DoubleSide:
		gl.Disable(gl.CULL_FACE)
	case scene.BackSide:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	default:
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	if mat.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}

	if mat.Transparent {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
		gl.DepthMask(false)
	} else {
		gl.Disable(gl.BLEND)
		gl.DepthMask(true)
	}
}

func setMat4(loc int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func setColor(loc int32, c core.Color) {
	gl.Uniform3f(loc, c.R, c.G, c.B)
}

// ReleaseMesh frees GPU buffers for the given mesh.
func (r *Renderer) ReleaseMesh(mesh *scene.Mesh) {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		gl.DeleteVertexArrays(1, &gpu.VAO)
		gl.DeleteBuffers(1, &gpu.VBO)
		if gpu.HasIndices {
			gl.DeleteBuffers(1, &gpu.EBO)
		}
		delete(r.gpuMeshes, mesh)
		mesh.GPUData = nil
	}
}

// Destroy releases all GPU resources.
func (r *Renderer) Destroy() {
	for mesh := range r.gpuMeshes {
		r.ReleaseMesh(mesh)
	}
	for target := range r.targets {
		r.ReleaseTarget(target)
	}
	for tex := range r.textures {
		DeleteTexture(tex)
		delete(r.textures, tex)
	}
	for mat, prog := range r.programs {
		prog.Delete()
		delete(r.programs, mat)
	}
	r.basic.Delete()
	r.sprite.Delete()
}

// ensureUploaded uploads vertex/index data if not already done.
func (r *Renderer) ensureUploaded(mesh *scene.Mesh) *GPUMesh {
	if gpu, ok := r.gpuMeshes[mesh]; ok {
		return gpu
	}
	if len(mesh.Vertices) == 0 {
		return nil
	}

	stride := int32(unsafe.Sizeof(core.Vertex{}))

	gpu := &GPUMesh{
		IndexCount: int32(len(mesh.Indices)),
		HasIndices: len(mesh.Indices) > 0,
	}

	gl.GenVertexArrays(1, &gpu.VAO)
	gl.GenBuffers(1, &gpu.VBO)
	gl.BindVertexArray(gpu.VAO)

	// Upload vertex data
	gl.BindBuffer(gl.ARRAY_BUFFER, gpu.VBO)
	gl.BufferData(gl.ARRAY_BUFFER,
		len(mesh.Vertices)*int(stride),
		gl.Ptr(mesh.Vertices),
		gl.STATIC_DRAW)

	// Compute field offsets from an empty Vertex
	var v core.Vertex
	posOff := int(unsafe.Offsetof(v.Position))
	normOff := int(unsafe.Offsetof(v.Normal))
	uvOff := int(unsafe.Offsetof(v.UV))
	colorOff := int(unsafe.Offsetof(v.Color))

	// location 0: position (vec3)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(posOff))

	// location 1: normal (vec3)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(normOff))

	// location 2: uv (vec2)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 2, gl.FLOAT, false, stride, gl.PtrOffset(uvOff))

	// location 3: color (vec4 RGBA float32)
	gl.EnableVertexAttribArray(3)
	gl.VertexAttribPointer(3, 4, gl.FLOAT, false, stride, gl.PtrOffset(colorOff))

	// Upload index data
	if gpu.HasIndices {
		gl.GenBuffers(1, &gpu.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gpu.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER,
			len(mesh.Indices)*4,
			gl.Ptr(mesh.Indices),
			gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	r.gpuMeshes[mesh] = gpu
	mesh.GPUData = gpu
	return gpu
}
