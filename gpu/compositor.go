// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	_ "embed"
	"errors"
)

//go:embed shaders/composite.wgsl
var compositeShaderWGSL string

// ErrNoDevice is returned when a compositor is requested from a handle
// with no device behind it.
var ErrNoDevice = errors.New("gpu: device handle provides no device")

// Compositor prepares GPU resources for scene compositing: an acquired
// (or host-shared) device and the precompiled composite shader.
//
// Frame readback is not wired into the compute pipeline yet, so content
// backends keep compositing frames on the CPU; the compositor currently
// establishes the device and validates the shader so the GPU path can
// be switched on without touching backend code.
type Compositor struct {
	device *Device
	shared bool
	spirv  []uint32
}

// NewCompositor acquires a dedicated GPU device and precompiles the
// composite shader. Returns an error when no GPU is usable.
func NewCompositor() (*Compositor, error) {
	spirv, err := CompileShader(compositeShaderWGSL)
	if err != nil {
		return nil, err
	}
	device, err := Acquire()
	if err != nil {
		return nil, err
	}
	if _, err := device.Limits(); err != nil {
		device.Close()
		return nil, err
	}
	return &Compositor{device: device, spirv: spirv}, nil
}

// NewCompositorFrom builds a compositor on the host application's
// device instead of acquiring one. The host retains ownership of the
// device; Close releases only compositor-local resources.
func NewCompositorFrom(handle DeviceHandle) (*Compositor, error) {
	if handle == nil || handle.Device() == nil {
		return nil, ErrNoDevice
	}
	spirv, err := CompileShader(compositeShaderWGSL)
	if err != nil {
		return nil, err
	}
	return &Compositor{shared: true, spirv: spirv}, nil
}

// ShaderWords returns the compiled composite shader as SPIR-V words.
func (c *Compositor) ShaderWords() []uint32 {
	return c.spirv
}

// Close releases the compositor's owned device, if any.
func (c *Compositor) Close() {
	if c.device != nil && !c.shared {
		c.device.Close()
	}
	c.device = nil
	c.spirv = nil
}
