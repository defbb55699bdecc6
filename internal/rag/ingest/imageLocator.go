package ingest

import (
	"fmt"
	"math"

	"github.com/dslipak/pdf"
)

const maxFormDepth = 8

// matrix is a PDF transformation matrix [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

func (m matrix) mul(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// rect is in PDF user space, origin bottom left.
type rect struct {
	X0, Y0, X1, Y1 float64
}

func (r rect) empty() bool {
	return r.X1-r.X0 <= 0 || r.Y1-r.Y0 <= 0
}

// unitSquareBounds is where an image lands on the page: images are painted into the unit square
// of the current transformation.
func unitSquareBounds(ctm matrix) rect {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, corner := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := ctm.apply(corner[0], corner[1])
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return rect{X0: minOf(xs), Y0: minOf(ys), X1: maxOf(xs), Y1: maxOf(ys)}
}

func minOf(v []float64) float64 {
	m := math.Inf(1)
	for _, x := range v {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(v []float64) float64 {
	m := math.Inf(-1)
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}

type imagePlacement struct {
	Name   string
	Bounds rect
}

// pageBox is the visible area of the page: CropBox when present, MediaBox otherwise.
// Both are inheritable from the page tree.
func pageBox(page pdf.Page) (rect, error) {
	for _, key := range []string{"CropBox", "MediaBox"} {
		box := inherited(page.V, key)
		if box.Kind() == pdf.Array && box.Len() == 4 {
			r := rect{
				X0: math.Min(box.Index(0).Float64(), box.Index(2).Float64()),
				Y0: math.Min(box.Index(1).Float64(), box.Index(3).Float64()),
				X1: math.Max(box.Index(0).Float64(), box.Index(2).Float64()),
				Y1: math.Max(box.Index(1).Float64(), box.Index(3).Float64()),
			}
			if !r.empty() {
				return r, nil
			}
		}
	}
	return rect{}, fmt.Errorf("page has no usable media box")
}

func inherited(v pdf.Value, key string) pdf.Value {
	for depth := 0; v.Kind() == pdf.Dict && depth < 32; depth++ {
		if val := v.Key(key); !val.IsNull() {
			return val
		}
		v = v.Key("Parent")
	}
	return pdf.Value{}
}

// locateImages walks the page content and reports every image XObject in paint order.
func locateImages(page pdf.Page) (placements []imagePlacement, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("content stream: %v", r)
		}
	}()

	walker := &contentWalker{}
	walker.walk(page.V.Key("Contents"), page.Resources(), identity, 0)
	return walker.found, nil
}

type contentWalker struct {
	found []imagePlacement
}

func (w *contentWalker) walk(contents pdf.Value, resources pdf.Value, base matrix, depth int) {
	ctm := base
	var saved []matrix

	handle := func(stk *pdf.Stack, op string) {
		// the interpreter leaves operands of ignored operators on the stack
		defer func() {
			for stk.Len() > 0 {
				stk.Pop()
			}
		}()
		switch op {
		case "q":
			saved = append(saved, ctm)
		case "Q":
			if len(saved) > 0 {
				ctm = saved[len(saved)-1]
				saved = saved[:len(saved)-1]
			}
		case "cm":
			if stk.Len() < 6 {
				return
			}
			var m matrix
			for i := 5; i >= 0; i-- {
				m[i] = stk.Pop().Float64()
			}
			ctm = m.mul(ctm)
		case "Do":
			if stk.Len() < 1 {
				return
			}
			name := stk.Pop().Name()
			xobj := resources.Key("XObject").Key(name)
			switch xobj.Key("Subtype").Name() {
			case "Image":
				w.found = append(w.found, imagePlacement{Name: name, Bounds: unitSquareBounds(ctm)})
			case "Form":
				if depth >= maxFormDepth {
					return
				}
				formMatrix := identity
				if mv := xobj.Key("Matrix"); mv.Kind() == pdf.Array && mv.Len() == 6 {
					for i := 0; i < 6; i++ {
						formMatrix[i] = mv.Index(i).Float64()
					}
				}
				formResources := xobj.Key("Resources")
				if formResources.IsNull() {
					formResources = resources
				}
				w.walk(xobj, formResources, formMatrix.mul(ctm), depth+1)
			}
		}
	}

	// a content array is one logical stream, the graphics state carries across parts
	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), handle)
		}
		return
	}
	if contents.Kind() == pdf.Stream {
		pdf.Interpret(contents, handle)
	}
}
