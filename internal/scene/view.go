package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"coaster-viewer/internal/mathutil"
)

// DefaultFovy is the vertical field of view used without a view file.
var DefaultFovy = mathutil.Deg2Rad(30)

// View is a saved camera: the world-to-view transform, the distance to the
// look-at centre and the vertical field of view in radians. On disk it is
// 16 numbers of V row-major, then the distance, then fovy in degrees.
type View struct {
	V            mathutil.Mat4
	DistToCentre float64
	Fovy         float64
}

// ReadView parses the view file at path. A missing file is reported with
// an error satisfying errors.Is(err, os.ErrNotExist).
func ReadView(path string) (View, error) {
	f, err := os.Open(path)
	if err != nil {
		return View{}, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	v, err := ParseView(f)
	if err != nil {
		return View{}, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return v, nil
}

// ParseView reads the 18 numbers of a view file.
func ParseView(r io.Reader) (View, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var nums [18]float64
	for i := range nums {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return View{}, err
			}
			return View{}, fmt.Errorf("want 18 numbers, got %d", i)
		}
		v, err := strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return View{}, fmt.Errorf("number %d: %w", i, err)
		}
		nums[i] = v
	}

	var v View
	copy(v.V[:], nums[:16])
	v.DistToCentre = nums[16]
	v.Fovy = mathutil.Deg2Rad(nums[17])
	return v, nil
}

// Write emits the view as four matrix rows, the distance and fovy in
// degrees, one per line.
func (v View) Write(w io.Writer) error {
	var b strings.Builder
	for r := 0; r < 4; r++ {
		row := v.V[r*4 : r*4+4]
		fmt.Fprintf(&b, "%s %s %s %s\n", fmtNum(row[0]), fmtNum(row[1]), fmtNum(row[2]), fmtNum(row[3]))
	}
	fmt.Fprintf(&b, "%s\n%s\n", fmtNum(v.DistToCentre), fmtNum(mathutil.Rad2Deg(v.Fovy)))
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteView writes v to path.
func WriteView(path string, v View) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: create %s: %w", path, err)
	}
	if err := v.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return f.Close()
}
