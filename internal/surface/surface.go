// Package surface is the library of parametric surfaces the graph morphs
// between. Every function is pure and safe to call from any goroutine.
package surface

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chewxy/math32"

	"morphgrid/internal/core"
)

// ErrUnknownFunction is returned when a function name is not in the library.
var ErrUnknownFunction = errors.New("surface: unknown function")

// FunctionID names one of the surface functions in the library.
type FunctionID uint8

const (
	Wave FunctionID = iota
	MultiWave
	Ripple
	Sphere
	Torus

	numFunctions
)

// Func maps normalized grid coordinates u, v in [-1, 1] and time t to a
// position.
type Func func(u, v, t float32) core.Vec3

var functions = [numFunctions]Func{wave, multiWave, ripple, sphere, torus}

var names = [numFunctions]string{"wave", "multiwave", "ripple", "sphere", "torus"}

// Count returns the number of functions in the library.
func Count() int { return int(numFunctions) }

// Functions lists every function in enumeration order.
func Functions() []FunctionID {
	ids := make([]FunctionID, numFunctions)
	for i := range ids {
		ids[i] = FunctionID(i)
	}
	return ids
}

// Valid reports whether id names a function in the library.
func (id FunctionID) Valid() bool { return id < numFunctions }

// String returns the lower-case function name.
func (id FunctionID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("FunctionID(%d)", uint8(id))
	}
	return names[id]
}

// ParseFunctionID resolves a case-insensitive function name.
func ParseFunctionID(name string) (FunctionID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == key {
			return FunctionID(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

// Sanitize maps ids outside the library back to Wave.
func Sanitize(id FunctionID) FunctionID {
	if !id.Valid() {
		return Wave
	}
	return id
}

// Get returns the function for id. It panics when id is out of range.
func Get(id FunctionID) Func {
	if !id.Valid() {
		panic(fmt.Sprintf("surface: function id %d out of range", uint8(id)))
	}
	return functions[id]
}

// Evaluate returns the position of function id at (u, v) and time t.
func Evaluate(id FunctionID, u, v, t float32) core.Vec3 {
	return Get(id)(u, v, t)
}

func wave(u, v, t float32) core.Vec3 {
	return core.Vec3{
		X: u,
		Y: math32.Sin(math32.Pi * (u + v + t)),
		Z: v,
	}
}

func multiWave(u, v, t float32) core.Vec3 {
	y := math32.Sin(math32.Pi * (u + 0.5*t))
	y += 0.5 * math32.Sin(2*math32.Pi*(v+t))
	y += math32.Sin(math32.Pi * (u + v + 0.25*t))
	return core.Vec3{X: u, Y: y * (1 / 2.5), Z: v}
}

func ripple(u, v, t float32) core.Vec3 {
	d := math32.Sqrt(u*u + v*v)
	y := math32.Sin(math32.Pi * (4*d - t))
	return core.Vec3{X: u, Y: y / (1 + 10*d), Z: v}
}

func sphere(u, v, t float32) core.Vec3 {
	r := 0.9 + 0.1*math32.Sin(math32.Pi*(6*u+4*v+t))
	s := r * math32.Cos(0.5*math32.Pi*v)
	return core.Vec3{
		X: s * math32.Sin(math32.Pi*u),
		Y: r * math32.Sin(0.5*math32.Pi*v),
		Z: s * math32.Cos(math32.Pi*u),
	}
}

func torus(u, v, t float32) core.Vec3 {
	r1 := 0.7 + 0.1*math32.Sin(math32.Pi*(6*u+0.5*t))
	r2 := 0.15 + 0.05*math32.Sin(math32.Pi*(8*u+4*v+2*t))
	s := r1 + r2*math32.Cos(math32.Pi*v)
	return core.Vec3{
		X: s * math32.Sin(math32.Pi*u),
		Y: r2 * math32.Sin(math32.Pi*v),
		Z: s * math32.Cos(math32.Pi*u),
	}
}
