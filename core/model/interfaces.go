package model

import "gonum.org/v1/gonum/mat"

// Fitter learns statistics from X.
type Fitter interface {
	Fit(X mat.Matrix) error
}

// Transformer is a fitted-once, apply-many matrix transform.
type Transformer interface {
	Fitter
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}

// InverseTransformer can undo its own Transform.
type InverseTransformer interface {
	InverseTransform(X mat.Matrix) (mat.Matrix, error)
}

// Fittable is anything that tracks a fitted state.
type Fittable interface {
	IsFitted() bool
}
