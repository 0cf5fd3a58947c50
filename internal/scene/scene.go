package scene

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"coaster-viewer/internal/arcball"
	"coaster-viewer/internal/ctrlpoints"
	"coaster-viewer/internal/mathutil"
	"coaster-viewer/internal/spline"
	"coaster-viewer/internal/terrain"
	"coaster-viewer/internal/texture"
)

// depthMargin scales the terrain diagonal into the near/far clip distance
// on either side of the look-at centre.
const depthMargin = 1.2

// pickVerticalEps bounds |dir × z| below which a pick ray counts as vertical.
const pickVerticalEps = 1e-6

// Options are the user-toggled display and simulation switches.
type Options struct {
	DrawTrack     bool // ties instead of the bare curve
	DrawCoaster   bool
	UseArcLength  bool // sample the curve evenly in arc length
	ShowAxes      bool
	UndersideOnly bool
	Debug         bool // draw the local frames along the track
	Pause         bool
	Flag          bool
}

// Scene is a loaded terrain with its posts, track, camera and train.
// Posts and the track are in terrain object space; ObjectTransform maps
// them to world space.
type Scene struct {
	Path     string // scene file, target of Save
	ViewPath string // view file for ReadView/WriteView keys

	File    File
	Terrain *terrain.HeightField
	Colour  *image.NRGBA // colour map, nil to shade by height

	Track  *spline.Spline
	Posts  *ctrlpoints.Set
	Camera *arcball.Arcball
	Train  *Train
	Fovy   float64

	Options Options
}

// New builds a scene over hf with no posts and a default camera for a
// width×height window.
func New(hf *terrain.HeightField, width, height int) *Scene {
	track := spline.New(spline.CatmullRom)
	s := &Scene{
		Terrain: hf,
		Track:   track,
		Posts:   ctrlpoints.New(track),
		Camera:  arcball.New(width, height),
		Train:   NewTrain(track),
		Fovy:    DefaultFovy,
		Options: Options{DrawCoaster: true},
	}
	s.DefaultView()
	return s
}

// LoadOption adjusts how Load builds a scene.
type LoadOption func(*loadOptions)

type loadOptions struct {
	smoothing float64
}

// WithSmoothing blurs the height map with the given Gaussian radius before
// building the height field.
func WithSmoothing(radius float64) LoadOption {
	return func(o *loadOptions) { o.smoothing = radius }
}

// Load reads the scene file at path and the images it names, which are
// resolved relative to the file's directory. The view file next to it is
// applied when present.
func Load(path string, width, height int, opts ...LoadOption) (*Scene, error) {
	var lo loadOptions
	for _, o := range opts {
		o(&lo)
	}

	sf, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	// names that are not files fall back to any image with the same stem,
	// so a scene naming height.ppm picks up a converted height.png
	dir := filepath.Dir(path)
	cache := texture.NewCache(dir, texture.BuildIndex(dir))
	hmap, err := cache.Load(sf.HeightField)
	if err != nil {
		return nil, fmt.Errorf("scene: height field: %w", err)
	}
	hmap = texture.Smooth(hmap, lo.smoothing)
	hf, err := terrain.NewFromImage(hmap, terrain.DefaultMaxHeightFraction)
	if err != nil {
		return nil, fmt.Errorf("scene: height field %s: %w", sf.HeightField, err)
	}
	colour, err := cache.Load(sf.Texture)
	if err != nil {
		return nil, fmt.Errorf("scene: texture: %w", err)
	}

	s := New(hf, width, height)
	s.Path = path
	s.ViewPath = filepath.Join(filepath.Dir(path), "view.txt")
	s.File = *sf
	s.Colour = colour
	for _, p := range sf.Posts {
		s.Posts.AddPointWithHeight(p.Base, p.Height)
	}

	if err := s.ReadView(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the current posts in file form.
func (s *Scene) Snapshot() *File {
	sf := &File{HeightField: s.File.HeightField, Texture: s.File.Texture}
	bases, points := s.Posts.Bases(), s.Posts.Points()
	for i := range bases {
		sf.Posts = append(sf.Posts, Post{Base: bases[i], Height: points[i][2] - bases[i][2]})
	}
	return sf
}

// Save writes the posts back to the scene file.
func (s *Scene) Save() error {
	if s.Path == "" {
		return fmt.Errorf("scene: no scene file to save to")
	}
	return WriteFile(s.Path, s.Snapshot())
}

// DefaultView looks at the terrain centre from the south, above the
// terrain by its diagonal.
func (s *Scene) DefaultView() {
	d := s.Terrain.Diagonal()
	s.Camera.SetInitialView(mathutil.Vec3{0, -1.5 * d, d}, mathutil.Vec3{}, mathutil.ZAxis)
}

// ReadView loads the camera from ViewPath.
func (s *Scene) ReadView() error {
	if s.ViewPath == "" {
		return fmt.Errorf("scene: no view file: %w", os.ErrNotExist)
	}
	v, err := ReadView(s.ViewPath)
	if err != nil {
		return err
	}
	s.SetView(v)
	return nil
}

// WriteView stores the camera to ViewPath.
func (s *Scene) WriteView() error {
	if s.ViewPath == "" {
		return fmt.Errorf("scene: no view file path set")
	}
	return WriteView(s.ViewPath, s.View())
}

func (s *Scene) View() View {
	return View{V: s.Camera.V, DistToCentre: s.Camera.DistToCentre, Fovy: s.Fovy}
}

func (s *Scene) SetView(v View) {
	s.Camera.V = v.V
	s.Camera.DistToCentre = v.DistToCentre
	s.Fovy = v.Fovy
}

// ObjectTransform maps terrain object space to world space.
func (s *Scene) ObjectTransform() mathutil.Mat4 {
	return s.Terrain.CentreTransform()
}

// Projection is the perspective view-to-clip transform. The near and far
// planes hug the terrain around the look-at centre.
func (s *Scene) Projection() mathutil.Mat4 {
	w, h := s.Camera.WindowSize()
	aspect := 1.0
	if h > 0 {
		aspect = float64(w) / float64(h)
	}
	diag := s.Terrain.Diagonal()
	near := max(0.1, s.Camera.DistToCentre-depthMargin*diag)
	far := s.Camera.DistToCentre + depthMargin*diag
	return mathutil.Perspective(s.Fovy, aspect, near, far)
}

// MouseRay returns the world ray from the eye through window pixel (x, y).
func (s *Scene) MouseRay(x, y float64) (start, dir mathutil.Vec3) {
	w, h := s.Camera.WindowSize()
	ccs := mathutil.Vec4{x/float64(w)*2 - 1, -(y/float64(h)*2 - 1), 0, 1}

	inv := mathutil.Mat4Mul(s.Projection(), s.Camera.V).Inverse()
	wcs := inv.MulVec4(ccs).Project()

	start = s.Camera.EyePosition()
	dir = wcs.Sub(start).Normalize()
	return start, dir
}

// PickTerrain returns the object-space terrain point under window pixel
// (x, y), if any.
func (s *Scene) PickTerrain(x, y float64) (mathutil.Vec3, bool) {
	start, dir := s.MouseRay(x, y)
	return s.Terrain.FindIntersection(start, dir, pickPlaneNormal(dir, s.Camera.UpDirection()), s.ObjectTransform())
}

// pickPlaneNormal is the horizontal normal of the vertical plane holding
// dir. A vertical dir has no such plane, so the camera up picks one.
func pickPlaneNormal(dir, up mathutil.Vec3) mathutil.Vec3 {
	n := dir.Cross(mathutil.ZAxis)
	if n.Len() < pickVerticalEps {
		n = dir.Cross(up)
	}
	return n.Normalize()
}

// Update advances the simulation by dt seconds.
func (s *Scene) Update(dt float64) {
	if s.Posts.Count() > 1 && !s.Options.Pause {
		s.Train.Advance(dt)
	}
}

// Status is the one-line summary shown while editing.
func (s *Scene) Status() string {
	return fmt.Sprintf("using %s        speed %.2g", s.Track.Name(), s.Train.Speed())
}
