package viewer

import "fmt"

// Frame runs one display refresh: take in finished texture loads, follow
// surface resizes, update the controller, refresh the render target while
// textures are loading, then draw the main scene.
func (v *Viewer) Frame() error {
	if err := v.intake(); err != nil {
		return err
	}

	v.Resize()
	v.Controls.Update()

	if v.Target != nil && v.loads.state == Loading {
		if err := v.renderer.Render(v.AuxScene, v.AuxCamera, v.Target); err != nil {
			return fmt.Errorf("render target pass: %w", err)
		}
	}

	// Textures count as loaded only after a render target pass has seen
	// them, so the frozen target always shows both.
	v.acknowledge()

	if err := v.renderer.Render(v.Scene, v.Camera, nil); err != nil {
		return fmt.Errorf("main pass: %w", err)
	}
	return nil
}

// Resize matches the drawing buffer to the surface's displayed size times
// its pixel ratio. It reports whether the buffer changed; the camera aspect
// follows the displayed size.
func (v *Viewer) Resize() bool {
	cw, ch := v.surface.ClientSize()
	ratio := v.surface.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	width, height := int(cw*ratio), int(ch*ratio)

	bw, bh := v.renderer.DrawingBufferSize()
	if width == bw && height == bh {
		return false
	}

	v.renderer.SetDrawingBufferSize(width, height)
	if ch > 0 {
		v.Camera.Aspect = float32(cw / ch)
		v.Camera.UpdateProjectionMatrix()
	}
	v.log.Debugf("resized to %dx%d (client %.0fx%.0f @%.2f)", width, height, cw, ch, ratio)
	return true
}

// intake applies and uploads the textures whose loads finished. Failed loads
// leave their texture empty.
func (v *Viewer) intake() error {
	for _, r := range v.loader.Poll() {
		if err := r.Apply(); err != nil {
			v.log.Errorf("texture %s: %v", r.Texture.Path, err)
			continue
		}
		if err := v.renderer.UploadTexture(r.Texture); err != nil {
			return fmt.Errorf("upload texture %s: %w", r.Texture.Path, err)
		}
		v.fresh = append(v.fresh, r.Texture)
	}
	return nil
}

func (v *Viewer) acknowledge() {
	for _, tex := range v.fresh {
		if !v.loads.mark(tex.ID) {
			continue
		}
		v.log.Infof("texture loaded: %s (%d/%d)", tex.Path, v.loads.count(), texturesExpected)
		if v.loads.state == Ready {
			v.log.Infof("all textures loaded")
		}
	}
	v.fresh = v.fresh[:0]
}
