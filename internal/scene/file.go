// Package scene ties the terrain, the posts and track, the camera and the
// train together, and reads and writes their files.
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

// Post is a saved control point: its base on the terrain and its length.
type Post struct {
	Base   mathutil.Vec3
	Height float64
}

// File is the on-disk scene description:
//
//	terrain <heightfield image> <colour image>
//	points
//	  x y z height
//	  ...
//
// Image names are relative to the scene file's directory.
type File struct {
	HeightField string
	Texture     string
	Posts       []Post
}

// ReadFile parses the scene file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()

	sf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	return sf, nil
}

// Parse reads whitespace-separated scene tokens. A later "points" section
// replaces an earlier one.
func Parse(r io.Reader) (*File, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	sf := &File{}
	seenTerrain := false
	tok, ok := next()
	for ok {
		switch tok {
		case "terrain":
			hf, ok1 := next()
			tex, ok2 := next()
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("terrain needs a height field and a texture")
			}
			sf.HeightField, sf.Texture = hf, tex
			seenTerrain = true
			tok, ok = next()

		case "points":
			sf.Posts = sf.Posts[:0]
			tok, ok = next()
			for ok && looksNumeric(tok) {
				var vals [4]float64
				for i := range vals {
					if i > 0 {
						if tok, ok = next(); !ok {
							return nil, fmt.Errorf("post %d: want 4 numbers", len(sf.Posts))
						}
					}
					v, err := strconv.ParseFloat(tok, 64)
					if err != nil {
						return nil, fmt.Errorf("post %d: %w", len(sf.Posts), err)
					}
					vals[i] = v
				}
				sf.Posts = append(sf.Posts, Post{
					Base:   mathutil.Vec3{vals[0], vals[1], vals[2]},
					Height: vals[3],
				})
				tok, ok = next()
			}

		default:
			return nil, fmt.Errorf("unknown section %q", tok)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !seenTerrain {
		return nil, fmt.Errorf("no terrain section")
	}
	return sf, nil
}

func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

// Write emits the scene in the layout Parse reads.
func (sf *File) Write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "terrain\n  %s\n  %s\n\npoints\n", sf.HeightField, sf.Texture)
	for _, p := range sf.Posts {
		fmt.Fprintf(&b, "  %s %s %s %s\n", fmtNum(p.Base[0]), fmtNum(p.Base[1]), fmtNum(p.Base[2]), fmtNum(p.Height))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile writes the scene to path.
func WriteFile(path string, sf *File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("scene: create %s: %w", path, err)
	}
	if err := sf.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return f.Close()
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
