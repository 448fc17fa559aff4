package kernel

// View is the visible window onto the complex plane.
type View struct {
	// CenterX and CenterY are the complex coordinates of the screen center.
	CenterX float64
	CenterY float64

	// Scale is the distance in the complex plane between adjacent pixels.
	Scale float64
}

// Default view: a spiral on the boundary of the main cardioid.
const (
	DefaultCenterX = -0.637011
	DefaultCenterY = -0.0395159
	DefaultScale   = 0.002
)

// DefaultView returns the view the renderer starts from and resets to.
func DefaultView() View {
	return View{CenterX: DefaultCenterX, CenterY: DefaultCenterY, Scale: DefaultScale}
}

// ScreenToComplex maps a pixel coordinate on one axis to the complex plane.
func ScreenToComplex(px, center float64, size int, scale float64) float64 {
	return center + (px-float64(size)/2)*scale
}

// ComplexToScreen maps a complex coordinate on one axis to a pixel,
// truncating toward zero.
func ComplexToScreen(v, center float64, size int, scale float64) int {
	return int((v-center)/scale + float64(size)/2)
}

// Reanchor returns the center that keeps the complex coordinate fixed under
// the pixel coordinate px at the given scale.
func Reanchor(fixed, px float64, size int, scale float64) float64 {
	return fixed - (px-float64(size)/2)*scale
}

// ToComplex returns the complex point under pixel (px, py) of a w×h screen.
func (v View) ToComplex(px, py float64, w, h int) (re, im float64) {
	return ScreenToComplex(px, v.CenterX, w, v.Scale), ScreenToComplex(py, v.CenterY, h, v.Scale)
}

// ToScreen returns the pixel of a w×h screen showing the complex point (re, im).
func (v View) ToScreen(re, im float64, w, h int) (x, y int) {
	return ComplexToScreen(re, v.CenterX, w, v.Scale), ComplexToScreen(im, v.CenterY, h, v.Scale)
}

// ZoomAt multiplies the scale by factor while keeping the complex point
// under pixel (px, py) fixed.
func (v View) ZoomAt(px, py float64, w, h int, factor float64) View {
	re, im := v.ToComplex(px, py, w, h)
	v.Scale *= factor
	v.CenterX = Reanchor(re, px, w, v.Scale)
	v.CenterY = Reanchor(im, py, h, v.Scale)
	return v
}
