// Package gpu builds the compute kernels that evaluate the grid on a GPU and
// describes their dispatch. Submitting work to a device is left to a
// Dispatcher supplied by the integration layer.
package gpu

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/gogpu/naga"

	"morphgrid/internal/grid"
	"morphgrid/internal/surface"
)

//go:embed shaders/kernel.wgsl.tmpl
var kernelTemplateSource string

var kernelTemplate = template.Must(template.New("kernel").Parse(kernelTemplateSource))

// EntryPoint is the compute entry point of every generated kernel.
const EntryPoint = "main"

// wgslBodies holds the WGSL body of each surface function. They mirror the Go
// implementations in package surface.
var wgslBodies = map[surface.FunctionID]string{
	surface.Wave: `    return vec3<f32>(u, sin(PI * (u + v + t)), v);`,
	surface.MultiWave: `    var y = sin(PI * (u + 0.5 * t));
    y += 0.5 * sin(2.0 * PI * (v + t));
    y += sin(PI * (u + v + 0.25 * t));
    return vec3<f32>(u, y * (1.0 / 2.5), v);`,
	surface.Ripple: `    let d = sqrt(u * u + v * v);
    let y = sin(PI * (4.0 * d - t));
    return vec3<f32>(u, y / (1.0 + 10.0 * d), v);`,
	surface.Sphere: `    let r = 0.9 + 0.1 * sin(PI * (6.0 * u + 4.0 * v + t));
    let s = r * cos(0.5 * PI * v);
    return vec3<f32>(s * sin(PI * u), r * sin(0.5 * PI * v), s * cos(PI * u));`,
	surface.Torus: `    let r1 = 0.7 + 0.1 * sin(PI * (6.0 * u + 0.5 * t));
    let r2 = 0.15 + 0.05 * sin(PI * (8.0 * u + 4.0 * v + 2.0 * t));
    let s = r1 + r2 * cos(PI * v);
    return vec3<f32>(s * sin(PI * u), r2 * sin(PI * v), s * cos(PI * u));`,
}

// KernelKey selects a kernel by the function pair it evaluates. Steady frames
// use a key whose From and To are equal.
type KernelKey struct {
	From surface.FunctionID
	To   surface.FunctionID
}

// SteadyKey returns the key for showing f alone.
func SteadyKey(f surface.FunctionID) KernelKey { return KernelKey{From: f, To: f} }

// Morph reports whether the kernel blends two different functions.
func (k KernelKey) Morph() bool { return k.From != k.To }

// Valid reports whether both functions are in the library.
func (k KernelKey) Valid() bool { return k.From.Valid() && k.To.Valid() }

func (k KernelKey) String() string {
	if !k.Morph() {
		return k.To.String()
	}
	return k.From.String() + "->" + k.To.String()
}

// Keys lists every kernel key, steady and morphing, in a stable order.
func Keys() []KernelKey {
	fns := surface.Functions()
	keys := make([]KernelKey, 0, surface.Count()*surface.Count())
	for _, from := range fns {
		for _, to := range fns {
			keys = append(keys, KernelKey{From: from, To: to})
		}
	}
	return keys
}

// Kernel is a compiled compute kernel.
type Kernel struct {
	Key    KernelKey
	Source string
	// SPIRV holds the little-endian SPIR-V words.
	SPIRV []uint32
}

type wgslFunc struct {
	Name string
	Body string
}

func wgslName(f surface.FunctionID) string { return "fn_" + f.String() }

// Source returns the WGSL source of the kernel for key.
func Source(key KernelKey) (string, error) {
	if !key.Valid() {
		return "", fmt.Errorf("%w: %d->%d", ErrInvalidKernelKey, uint8(key.From), uint8(key.To))
	}
	data := struct {
		Key      KernelKey
		Funcs    []wgslFunc
		Morph    bool
		From, To string
		Tile     int
	}{
		Key:   key,
		Morph: key.Morph(),
		From:  wgslName(key.From),
		To:    wgslName(key.To),
		Tile:  grid.TileSize,
	}
	data.Funcs = append(data.Funcs, wgslFunc{Name: wgslName(key.To), Body: wgslBodies[key.To]})
	if key.Morph() {
		data.Funcs = append(data.Funcs, wgslFunc{Name: wgslName(key.From), Body: wgslBodies[key.From]})
	}
	var sb strings.Builder
	if err := kernelTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("gpu: render kernel %s: %w", key, err)
	}
	return sb.String(), nil
}

// Compile generates and compiles the kernel for key.
func Compile(key KernelKey) (*Kernel, error) {
	src, err := Source(key)
	if err != nil {
		return nil, err
	}
	spirv, err := CompileToSPIRV(src)
	if err != nil {
		return nil, fmt.Errorf("gpu: kernel %s: %w", key, err)
	}
	return &Kernel{Key: key, Source: src, SPIRV: spirv}, nil
}

// CompileToSPIRV compiles WGSL source to SPIR-V words.
func CompileToSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V length %d is not word aligned", ErrCompile, len(spirvBytes))
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
