package raster

import (
	"image"
	"image/color"

	"coaster-viewer/internal/ctrlpoints"
	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/scene"
	"coaster-viewer/internal/spline"
)

var (
	PostColour  = color.NRGBA{204, 230, 128, 255}
	TrackColour = color.NRGBA{255, 255, 255, 255}
	CurveColour = color.NRGBA{230, 60, 40, 255}
	TrainColour = color.NRGBA{238, 106, 20, 255}
	SkyColour   = color.NRGBA{150, 185, 225, 255}

	axisColours = [3]color.NRGBA{{230, 40, 40, 255}, {40, 200, 40, 255}, {50, 80, 230, 255}}
)

const (
	trainSize  = 10.0 // edge of the train cube
	trackWidth = 1.0
	curveWidth = 0.8
	frameLen   = 4.0 // debug frame axis length
	axisLen    = 10.0
)

// Geometry is a prebuilt, read-only set of world-space meshes. Several
// goroutines may Render the same Geometry.
type Geometry struct {
	Meshes     []Mesh
	Background color.NRGBA // zero leaves the frame transparent
}

// BuildGeometry turns the scene's terrain, posts, track and train into
// meshes, honouring its display options. It queries the track's arc-length
// table, so it must not run concurrently with edits.
func BuildGeometry(s *scene.Scene) *Geometry {
	g := &Geometry{Background: SkyColour}
	obj := s.ObjectTransform()
	opt := s.Options

	terr := TerrainMesh(s.Terrain, obj, s.Colour)
	terr.BackOnly = opt.UndersideOnly
	g.Meshes = append(g.Meshes, terr)

	g.Meshes = append(g.Meshes, postMeshes(s.Posts, obj, !opt.DrawTrack))

	if s.Posts.Count() > 1 {
		if opt.DrawTrack {
			g.Meshes = append(g.Meshes, trackMesh(s.Track, obj))
		} else {
			g.Meshes = append(g.Meshes, curveMeshes(s.Track, obj, opt.UseArcLength, opt.Debug)...)
		}
		if opt.DrawCoaster {
			f := s.Train.Frame()
			m := mathutil.Mat4Chain(obj, mathutil.Translate(f.O), mathutil.Scale(trainSize, trainSize, trainSize))
			g.Meshes = append(g.Meshes, BoxMesh(m, TrainColour))
		}
	}

	if opt.ShowAxes {
		for i, axis := range [3]mathutil.Vec3{mathutil.XAxis, mathutil.YAxis, mathutil.ZAxis} {
			g.Meshes = append(g.Meshes, SegmentMesh(mathutil.Vec3{}, axis.Scale(axisLen), 0.5, axisColours[i]))
		}
	}
	return g
}

// postMeshes draws each post as a bar from base to top, with cube handles
// at both ends when handles is set.
func postMeshes(posts *ctrlpoints.Set, obj mathutil.Mat4, handles bool) Mesh {
	out := Mesh{Colour: PostColour}
	bases, points := posts.Bases(), posts.Points()
	for i := range bases {
		b, p := obj.MulPoint(bases[i]), obj.MulPoint(points[i])
		out.Append(SegmentMesh(b, p, 2*ctrlpoints.PostRadius, PostColour))
		if handles {
			r := ctrlpoints.PointRadius
			for _, c := range [2]mathutil.Vec3{b, p} {
				out.Append(BoxMesh(mathutil.Mat4Mul(mathutil.Translate(c), mathutil.Scale(r, r, r)), PostColour))
			}
		}
	}
	return out
}

// trackMesh lays track pieces along the curve at even arc-length steps,
// each oriented by the local frame there.
func trackMesh(track *spline.Spline, obj mathutil.Mat4) Mesh {
	out := Mesh{Colour: TrackColour}
	total := track.TotalArcLength()
	step := total / float64(track.Len()*spline.DivsPerSeg)
	if step <= 0 {
		return out
	}
	for ss := step; ss < total-step; ss += step {
		f := track.LocalFrame(track.ParamAtArcLength(ss))
		m := mathutil.Mat4Chain(obj, f.Transform(), mathutil.Scale(trackWidth, trackWidth, step))
		out.Append(BoxMesh(m, TrackColour))
	}
	return out
}

// curveMeshes draws the curve as bars between samples, taken evenly in
// parameter or in arc length, plus the local frames in debug mode.
func curveMeshes(track *spline.Spline, obj mathutil.Mat4, byArcLength, debug bool) []Mesh {
	var params []float64
	if byArcLength {
		params = track.EvenArcLengthParams(track.Len() * spline.DivsPerSeg)
	} else {
		params = track.ParamSamples(spline.DivsPerSeg)
	}
	if len(params) == 0 {
		return nil
	}

	curve := Mesh{Colour: CurveColour}
	var frames [3]Mesh
	for i := range frames {
		frames[i].Colour = axisColours[i]
	}

	n := len(params)
	for i, t := range params {
		a := obj.MulPoint(track.Value(t))
		b := obj.MulPoint(track.Value(params[(i+1)%n]))
		curve.Append(SegmentMesh(a, b, curveWidth, CurveColour))

		if debug {
			f := track.LocalFrame(t)
			for k, axis := range [3]mathutil.Vec3{f.X, f.Y, f.Z} {
				end := obj.MulPoint(f.O.Add(axis.Scale(frameLen)))
				frames[k].Append(SegmentMesh(a, end, 0.3, axisColours[k]))
			}
		}
	}

	out := []Mesh{curve}
	if debug {
		out = append(out, frames[:]...)
	}
	return out
}

// Render rasterizes g through cam into a new image of cam's size.
func Render(g *Geometry, cam Camera) *image.NRGBA {
	fb := NewFrameBuffer(cam.Width, cam.Height)
	if g.Background.A > 0 {
		fb.Fill(g.Background.R, g.Background.G, g.Background.B)
	}
	lc := DefaultLightConfig(cam.ViewDir())
	eye := cam.Eye()

	for mi := range g.Meshes {
		mesh := &g.Meshes[mi]
		if len(mesh.Tris) == 0 {
			continue
		}
		px, py, pz, visible := cam.ProjectVertices(mesh.Verts)

		for i, tri := range mesh.Tris {
			if !visible[tri[0]] || !visible[tri[1]] || !visible[tri[2]] {
				continue
			}
			normal := mesh.Normal(i)
			if mesh.BackOnly && normal.Dot(eye.Sub(mesh.Verts[tri[0]])) > 0 {
				continue
			}
			shade := lc.ComputeShade(normal)
			RasterizeTriangle(fb, px, py, pz, mesh.UVs, tri, mesh.Tex, mesh.colourOf(i), shade, &lc)
		}
	}

	return fb.Image()
}

// SceneCamera is the scene's arcball view rendered at width×height
// pixels. The projection keeps the scene window's aspect ratio.
func SceneCamera(s *scene.Scene, width, height int) Camera {
	return Camera{View: s.Camera.View(), Proj: s.Projection(), Width: width, Height: height}
}

// RenderScene renders the scene from its arcball camera, supersample
// times larger than its window.
func RenderScene(s *scene.Scene, supersample int) *image.NRGBA {
	w, h := s.Camera.WindowSize()
	supersample = max(supersample, 1)
	return Render(BuildGeometry(s), SceneCamera(s, w*supersample, h*supersample))
}
