// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package geom

import (
	"fmt"
	"math"
)

// Homography is a 3x3 projective transform in row-major order with H[8] == 1.
type Homography [9]float64

// IdentityHomography returns the identity transform.
func IdentityHomography() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Apply transforms p. Points on the line at infinity map to +Inf.
func (h Homography) Apply(p Vec2) Vec2 {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if w == 0 {
		return Vec2{X: math.Inf(1), Y: math.Inf(1)}
	}
	return Vec2{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}

// SolveHomography returns the transform that maps each src corner onto the
// matching dst corner. Collinear or repeated points yield ErrDegenerate.
func SolveHomography(src, dst [4]Vec2) (Homography, error) {
	if hasCollinearTriple(src) || hasCollinearTriple(dst) {
		return Homography{}, ErrDegenerate
	}

	var a [8][9]float64
	for i := 0; i < 4; i++ {
		s, d := src[i], dst[i]
		if !s.IsFinite() || !d.IsFinite() {
			return Homography{}, fmt.Errorf("%w: corner %d is not finite", ErrDegenerate, i)
		}
		a[2*i] = [9]float64{s.X, s.Y, 1, 0, 0, 0, -s.X * d.X, -s.Y * d.X, d.X}
		a[2*i+1] = [9]float64{0, 0, 0, s.X, s.Y, 1, -s.X * d.Y, -s.Y * d.Y, d.Y}
	}

	// Gaussian elimination with partial pivoting on the augmented matrix.
	for col := 0; col < 8; col++ {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return Homography{}, ErrDegenerate
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < 8; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for k := col; k < 9; k++ {
				a[r][k] -= f * a[col][k]
			}
		}
	}

	var x [8]float64
	for r := 7; r >= 0; r-- {
		sum := a[r][8]
		for k := r + 1; k < 8; k++ {
			sum -= a[r][k] * x[k]
		}
		x[r] = sum / a[r][r]
	}

	h := Homography{x[0], x[1], x[2], x[3], x[4], x[5], x[6], x[7], 1}
	for _, v := range h {
		if !isFinite(v) {
			return Homography{}, ErrDegenerate
		}
	}
	return h, nil
}

// hasCollinearTriple reports whether any three of the four points are
// collinear or coincident.
func hasCollinearTriple(q [4]Vec2) bool {
	for skip := 0; skip < 4; skip++ {
		var t [3]Vec2
		n := 0
		for i := 0; i < 4; i++ {
			if i != skip {
				t[n] = q[i]
				n++
			}
		}
		if math.Abs(t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))) < 1e-12 {
			return true
		}
	}
	return false
}
