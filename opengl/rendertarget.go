package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"planeview/scene"
)

// GPURenderTarget is the framebuffer behind a scene.RenderTarget: an RGBA8
// colour texture plus a depth renderbuffer.
type GPURenderTarget struct {
	FBO      uint32
	ColorTex uint32
	DepthRBO uint32
	Width    int32
	Height   int32
}

func allocRenderTarget(width, height int) (*GPURenderTarget, error) {
	rt := &GPURenderTarget{
		Width:  int32(width),
		Height: int32(height),
	}

	gl.GenTextures(1, &rt.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, rt.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		rt.Width, rt.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &rt.DepthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rt.DepthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, rt.Width, rt.Height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &rt.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, rt.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.RENDERBUFFER, rt.DepthRBO)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.free()
		return nil, fmt.Errorf("render target %dx%d incomplete (0x%X)", width, height, status)
	}
	return rt, nil
}

func (rt *GPURenderTarget) free() {
	if rt.FBO != 0 {
		gl.DeleteFramebuffers(1, &rt.FBO)
		rt.FBO = 0
	}
	if rt.ColorTex != 0 {
		gl.DeleteTextures(1, &rt.ColorTex)
		rt.ColorTex = 0
	}
	if rt.DepthRBO != 0 {
		gl.DeleteRenderbuffers(1, &rt.DepthRBO)
		rt.DepthRBO = 0
	}
}

// ensureTarget allocates the framebuffer for target on first use and exposes
// its colour attachment through target.Texture.
func (r *Renderer) ensureTarget(target *scene.RenderTarget) (*GPURenderTarget, error) {
	if gpu, ok := r.targets[target]; ok {
		return gpu, nil
	}
	gpu, err := allocRenderTarget(target.Width, target.Height)
	if err != nil {
		return nil, err
	}
	r.targets[target] = gpu
	target.GPUData = gpu
	if target.Texture != nil {
		target.Texture.GLID = gpu.ColorTex
	}
	r.log.Debugf("render target allocated %dx%d (fbo %d)", target.Width, target.Height, gpu.FBO)
	return gpu, nil
}

// ReleaseTarget frees the framebuffer of target.
func (r *Renderer) ReleaseTarget(target *scene.RenderTarget) {
	gpu, ok := r.targets[target]
	if !ok {
		return
	}
	gpu.free()
	delete(r.targets, target)
	target.GPUData = nil
	if target.Texture != nil {
		target.Texture.GLID = 0
	}
}
