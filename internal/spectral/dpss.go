package spectral

import (
	"fmt"
	"math"
)

// dpss computes the first k discrete prolate spheroidal sequences of length
// n with half-bandwidth w = nw/n, via the symmetric tridiagonal formulation
// (Percival & Walden, ch. 8): the sequences are the eigenvectors belonging
// to the k largest eigenvalues of the matrix with
//
//	diag[i] = ((n-1)/2 - i)^2 * cos(2*pi*w)
//	off[i]  = (i+1) * (n-1-i) / 2
//
// Each returned taper is normalized to unit energy.
func dpss(n int, nw float64, k int) ([][]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("dpss: series length %d too short", n)
	}
	if k < 1 || k > n {
		return nil, fmt.Errorf("dpss: taper count %d out of range for n=%d", k, n)
	}
	if nw <= 0 || nw >= float64(n)/2 {
		return nil, fmt.Errorf("dpss: time-bandwidth %g out of range for n=%d", nw, n)
	}

	w := nw / float64(n)
	cosw := math.Cos(2 * math.Pi * w)
	half := float64(n-1) / 2

	diag := make([]float64, n)
	off := make([]float64, n-1)
	for i := 0; i < n; i++ {
		c := half - float64(i)
		diag[i] = c * c * cosw
	}
	for i := 0; i < n-1; i++ {
		off[i] = float64(i+1) * float64(n-1-i) / 2
	}

	// Gershgorin bounds for the eigenvalue search.
	lo, hi := diag[0], diag[0]
	for i := 0; i < n; i++ {
		r := 0.0
		if i > 0 {
			r += math.Abs(off[i-1])
		}
		if i < n-1 {
			r += math.Abs(off[i])
		}
		if diag[i]-r < lo {
			lo = diag[i] - r
		}
		if diag[i]+r > hi {
			hi = diag[i] + r
		}
	}

	tapers := make([][]float64, k)
	for j := 0; j < k; j++ {
		// Taper j belongs to the (j+1)-th largest eigenvalue.
		lambda := bisectEigenvalue(diag, off, lo, hi, n-1-j)
		v := inverseIteration(diag, off, lambda, tapers[:j])
		fixPolarity(v, j)
		tapers[j] = v
	}
	return tapers, nil
}

// sturmCount returns the number of eigenvalues of the tridiagonal matrix
// strictly below x.
func sturmCount(diag, off []float64, x float64) int {
	count := 0
	q := diag[0] - x
	if q < 0 {
		count++
	}
	for i := 1; i < len(diag); i++ {
		if q == 0 {
			q = 1e-30
		}
		q = diag[i] - x - off[i-1]*off[i-1]/q
		if q < 0 {
			count++
		}
	}
	return count
}

// bisectEigenvalue isolates the eigenvalue with ascending index idx.
func bisectEigenvalue(diag, off []float64, lo, hi float64, idx int) float64 {
	for iter := 0; iter < 100 && hi-lo > 1e-12*math.Max(1, math.Abs(hi)); iter++ {
		mid := (lo + hi) / 2
		if sturmCount(diag, off, mid) > idx {
			hi = mid
		} else {
			lo = mid
		}
	}
	return (lo + hi) / 2
}

// inverseIteration refines the eigenvector for lambda, keeping it
// orthogonal to the previously extracted tapers.
func inverseIteration(diag, off []float64, lambda float64, prev [][]float64) []float64 {
	n := len(diag)
	v := make([]float64, n)
	// Deterministic non-degenerate start vector.
	for i := range v {
		v[i] = math.Sin(float64(i+1) * 0.7390851332151607)
	}

	for iter := 0; iter < 5; iter++ {
		orthogonalize(v, prev)
		v = solveShiftedTridiag(diag, off, lambda, v)
		normalize(v)
	}
	orthogonalize(v, prev)
	normalize(v)
	return v
}

// solveShiftedTridiag solves (T - lambda*I) x = b for a symmetric
// tridiagonal T using Gaussian elimination with partial pivoting. Pivoting
// introduces one extra superdiagonal of fill-in.
func solveShiftedTridiag(diag, off []float64, lambda float64, b []float64) []float64 {
	const tiny = 1e-30
	n := len(diag)

	d := make([]float64, n)
	sup := make([]float64, n)
	sup2 := make([]float64, n)
	sub := make([]float64, n)
	for i := 0; i < n; i++ {
		d[i] = diag[i] - lambda
	}
	for i := 0; i < n-1; i++ {
		sup[i] = off[i]
		sub[i] = off[i] // entry (i+1, i)
	}

	x := append([]float64(nil), b...)
	for i := 0; i < n-1; i++ {
		if math.Abs(d[i]) >= math.Abs(sub[i]) {
			if d[i] == 0 {
				d[i] = tiny
			}
			m := sub[i] / d[i]
			d[i+1] -= m * sup[i]
			x[i+1] -= m * x[i]
			sup2[i] = 0
		} else {
			m := d[i] / sub[i]
			oldSup := sup[i]
			oldDiagNext := d[i+1]
			oldSupNext := 0.0
			if i < n-2 {
				oldSupNext = sup[i+1]
			}

			d[i] = sub[i]
			sup[i] = oldDiagNext
			sup2[i] = oldSupNext
			d[i+1] = oldSup - m*oldDiagNext
			if i < n-2 {
				sup[i+1] = -m * oldSupNext
			}
			x[i], x[i+1] = x[i+1], x[i]
			x[i+1] -= m * x[i]
		}
	}
	if d[n-1] == 0 {
		d[n-1] = tiny
	}

	x[n-1] /= d[n-1]
	if n > 1 {
		x[n-2] = (x[n-2] - sup[n-2]*x[n-1]) / d[n-2]
	}
	for i := n - 3; i >= 0; i-- {
		x[i] = (x[i] - sup[i]*x[i+1] - sup2[i]*x[i+2]) / d[i]
	}
	return x
}

func orthogonalize(v []float64, prev [][]float64) {
	for _, p := range prev {
		dot := 0.0
		for i := range v {
			dot += v[i] * p[i]
		}
		for i := range v {
			v[i] -= dot * p[i]
		}
	}
}

func normalize(v []float64) {
	ss := 0.0
	for _, x := range v {
		ss += x * x
	}
	norm := math.Sqrt(ss)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}

// fixPolarity applies the usual sign convention: even-order tapers have a
// positive mean, odd-order tapers start with a positive upslope. The
// spectrum is insensitive to taper sign; this only makes output stable.
func fixPolarity(v []float64, order int) {
	var s float64
	if order%2 == 0 {
		for _, x := range v {
			s += x
		}
	} else {
		n := len(v)
		for i, x := range v {
			s += float64(n-1-2*i) * x
		}
	}
	if s < 0 {
		for i := range v {
			v[i] = -v[i]
		}
	}
}
