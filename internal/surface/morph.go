package surface

import (
	"math/rand/v2"

	"morphgrid/internal/core"
)

// SmoothStep eases p in [0, 1] with 3p² - 2p³. Values outside the range are
// clamped.
func SmoothStep(p float32) float32 {
	if p <= 0 {
		return 0
	}
	if p >= 1 {
		return 1
	}
	return p * p * (3 - 2*p)
}

// Morph blends from into to at (u, v, t). progress is eased with SmoothStep
// before blending, so progress 0 and 1 reproduce the endpoints exactly.
func Morph(from, to FunctionID, u, v, t, progress float32) core.Vec3 {
	a := Evaluate(from, u, v, t)
	if from == to {
		return a
	}
	return core.Lerp(a, Evaluate(to, u, v, t), SmoothStep(progress))
}

// Next returns the cyclic successor of id.
func Next(id FunctionID) FunctionID {
	if id+1 < numFunctions {
		return id + 1
	}
	return 0
}

// RandomOtherThan picks uniformly among the functions that are not id.
func RandomOtherThan(id FunctionID, r *rand.Rand) FunctionID {
	// Draw from [1, N); a hit on id itself is remapped to the free slot 0.
	choice := FunctionID(1 + r.IntN(int(numFunctions)-1))
	if choice == id {
		return 0
	}
	return choice
}
