package kernel

// EscapeRadiusSq is the squared magnitude past which an orbit diverges.
const EscapeRadiusSq = 4.0

// Escape returns the number of iterations of z = z² + c, starting at z = 0,
// after which |z|² exceeds 4. Points that stay bounded return maxIter.
func Escape(cRe, cIm float64, maxIter int) int {
	return EscapeFrom(0, 0, cRe, cIm, maxIter)
}

// EscapeFrom is Escape starting from an arbitrary z. It is the Julia set
// kernel when c is held fixed and z varies per pixel.
//
// The loop body runs two iterations, each followed by the escape test. The
// second one is skipped when it would exceed maxIter, so the result is the
// same as a one-iteration loop for every bound.
func EscapeFrom(zRe, zIm, cRe, cIm float64, maxIter int) int {
	iter := 0
	for iter < maxIter {
		zRe, zIm = zRe*zRe-zIm*zIm+cRe, 2*zRe*zIm+cIm
		iter++
		if zRe*zRe+zIm*zIm > EscapeRadiusSq || iter == maxIter {
			break
		}

		zRe, zIm = zRe*zRe-zIm*zIm+cRe, 2*zRe*zIm+cIm
		iter++
		if zRe*zRe+zIm*zIm > EscapeRadiusSq {
			break
		}
	}
	return iter
}

// Orbit returns the first iterates of z = z² + c starting at z = 0, at most
// n+1 points including the start. The orbit stops at the first point that
// left the escape radius; escaped reports whether that happened.
func Orbit(c complex128, n int) (points []complex128, escaped bool) {
	if n < 0 {
		n = 0
	}
	points = make([]complex128, 1, n+1)

	var z complex128
	for range n {
		z = z*z + c
		points = append(points, z)
		if re, im := real(z), imag(z); re*re+im*im > EscapeRadiusSq {
			return points, true
		}
	}
	return points, false
}
