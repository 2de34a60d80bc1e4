package linalg

import "math"

// Eigen2x2 computes the eigenvalues and eigenvectors of a symmetric 2x2
// matrix in closed form: for [[a,b],[b,d]], the eigenvalues are
// (a+d)/2 ± sqrt(((a-d)/2)^2 + b^2), and each eigenvector follows
// directly from the quadratic's definition. There is no iterative sweep
// to converge and nothing to cap, since a 2x2 symmetric matrix always
// has a closed-form solution.
//
// Returns eigenvalues[0] paired with eigenvectors column 0, and
// eigenvalues[1] paired with column 1. Eigenvectors are unit-length;
// their sign is otherwise arbitrary (flipping a column by -1 yields an
// equally valid eigenvector).
func Eigen2x2(m *Dense) ([2]float64, *Dense, error) {
	if m.Rows() != 2 || m.Cols() != 2 {
		return [2]float64{}, nil, ErrInvalidDimensions
	}

	a, _ := m.At(0, 0)
	b, _ := m.At(0, 1)
	bT, _ := m.At(1, 0)
	d, _ := m.At(1, 1)
	if math.Abs(b-bT) > 1e-9 {
		return [2]float64{}, nil, ErrNotSymmetric
	}

	mid := (a + d) / 2
	diff := (a - d) / 2
	radius := math.Hypot(diff, b)

	values := [2]float64{mid + radius, mid - radius}

	vectors, err := NewDense(2, 2)
	if err != nil {
		return [2]float64{}, nil, err
	}
	for col, lambda := range values {
		vx, vy := eigenvector2x2(a, b, d, lambda)
		_ = vectors.Set(0, col, vx)
		_ = vectors.Set(1, col, vy)
	}

	return values, vectors, nil
}

// eigenvector2x2 returns the unit eigenvector of [[a,b],[b,d]] for
// eigenvalue lambda. When b is (near) zero the matrix is already
// diagonal, so the axes themselves are the eigenvectors.
func eigenvector2x2(a, b, d, lambda float64) (float64, float64) {
	if math.Abs(b) < 1e-12 {
		if math.Abs(lambda-a) <= math.Abs(lambda-d) {
			return 1, 0
		}

		return 0, 1
	}

	vx, vy := lambda-d, b
	norm := math.Hypot(vx, vy)

	return vx / norm, vy / norm
}
