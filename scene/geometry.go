package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"planeview/core"
)

// CreatePlane generates a width x height plane in the XY plane facing +Z,
// centred on the origin. UV (0,0) is the bottom-left corner.
func CreatePlane(width, height float32, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 1 {
		widthSegments = 1
	}
	if heightSegments < 1 {
		heightSegments = 1
	}

	var vertices []core.Vertex
	var indices []uint32

	halfW := width / 2
	halfH := height / 2
	segW := width / float32(widthSegments)
	segH := height / float32(heightSegments)
	cols := widthSegments + 1

	for iy := 0; iy <= heightSegments; iy++ {
		y := float32(iy)*segH - halfH
		for ix := 0; ix <= widthSegments; ix++ {
			x := float32(ix)*segW - halfW
			vertices = append(vertices, core.Vertex{
				Position: mgl32.Vec3{x, -y, 0},
				Normal:   mgl32.Vec3{0, 0, 1},
				UV: mgl32.Vec2{
					float32(ix) / float32(widthSegments),
					1 - float32(iy)/float32(heightSegments),
				},
				Color: core.ColorWhite,
			})
		}
	}

	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)

			indices = append(indices, a, b, d)
			indices = append(indices, b, c, d)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateAxes builds three line segments of the given length from the origin:
// X in red, Y in green, Z in blue, each fading slightly towards its tip.
func CreateAxes(size float32) *Mesh {
	var vertices []core.Vertex
	var indices []uint32

	addLine := func(tip mgl32.Vec3, from, to core.Color) {
		base := uint32(len(vertices))
		vertices = append(vertices,
			core.Vertex{Position: mgl32.Vec3{}, Color: from},
			core.Vertex{Position: tip, Color: to},
		)
		indices = append(indices, base, base+1)
	}

	addLine(mgl32.Vec3{size, 0, 0}, core.Color{R: 1, G: 0, B: 0, A: 1}, core.Color{R: 1, G: 0.6, B: 0, A: 1})
	addLine(mgl32.Vec3{0, size, 0}, core.Color{R: 0, G: 1, B: 0, A: 1}, core.Color{R: 0.6, G: 1, B: 0, A: 1})
	addLine(mgl32.Vec3{0, 0, size}, core.Color{R: 0, G: 0, B: 1, A: 1}, core.Color{R: 0, G: 0.6, B: 1, A: 1})

	m := CreateMeshFromData("Axes", vertices, indices)
	m.DrawMode = DrawLines
	m.Material = NewBasicMaterial("AxesMaterial")
	return m
}
