package gpu

import "errors"

var (
	// ErrInvalidKernelKey is returned when a key names a function outside the library.
	ErrInvalidKernelKey = errors.New("gpu: kernel key out of range")

	// ErrCompile is returned when WGSL fails to compile to SPIR-V.
	ErrCompile = errors.New("gpu: shader compilation failed")

	// ErrWorkgroupCountZero is returned when any workgroup dimension is zero.
	ErrWorkgroupCountZero = errors.New("gpu: workgroup count must be greater than zero")

	// ErrWorkgroupCountExceedsLimit is returned when a dimension exceeds MaxWorkgroupsPerDimension.
	ErrWorkgroupCountExceedsLimit = errors.New("gpu: workgroup count exceeds device limit")

	// ErrBufferTooSmall is returned when a dispatch would write past the position buffer.
	ErrBufferTooSmall = errors.New("gpu: position buffer too small for dispatch")

	// ErrNilKernel is returned when Dispatch is called without a kernel.
	ErrNilKernel = errors.New("gpu: kernel is nil")
)
