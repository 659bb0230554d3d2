// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

// Package gpu provides optional GPU acceleration plumbing for content
// backends: device acquisition via gogpu/wgpu and WGSL shader
// compilation via gogpu/naga. Nothing in this package is required for
// correctness; backends fall back to CPU compositing when no GPU is
// available.
package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	wgputypes "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/mcanthony/webvfx"
)

// Info describes the selected GPU.
type Info struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType wgputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend wgputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (i *Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.DeviceType, i.Backend)
}

// Device owns an acquired GPU instance, adapter, device and queue.
type Device struct {
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID
	info     *Info
}

// Acquire creates a GPU instance, requests a high-performance adapter,
// and creates a logical device with its queue. Returns an error when no
// usable GPU is present; callers treat that as "use the CPU path".
func Acquire() (*Device, error) {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
		Flags:    0,
	})

	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: no adapter available: %w", err)
	}

	info := adapterInfo(adapterID)
	if info != nil {
		webvfx.Logger().Info("gpu: adapter selected", "gpu", info.String(), "driver", info.Driver)
	}

	deviceID, err := core.RequestDevice(adapterID, &wgputypes.DeviceDescriptor{
		Label:            "webvfx-device",
		RequiredFeatures: nil,
		RequiredLimits:   wgputypes.DefaultLimits(),
	})
	if err != nil {
		releaseAdapter(adapterID)
		return nil, fmt.Errorf("gpu: device creation failed: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		releaseDevice(deviceID)
		releaseAdapter(adapterID)
		return nil, fmt.Errorf("gpu: queue retrieval failed: %w", err)
	}

	return &Device{
		instance: instance,
		adapter:  adapterID,
		device:   deviceID,
		queue:    queueID,
		info:     info,
	}, nil
}

// Info returns information about the acquired GPU, or nil if it could
// not be queried.
func (d *Device) Info() *Info {
	return d.info
}

// Limits logs the device limits relevant to frame compositing and
// returns the maximum 2D texture dimension.
func (d *Device) Limits() (maxTextureDim uint32, err error) {
	limits, err := core.GetDeviceLimits(d.device)
	if err != nil {
		return 0, fmt.Errorf("gpu: failed to get device limits: %w", err)
	}
	webvfx.Logger().Debug("gpu: device limits",
		"maxTextureDimension2D", limits.MaxTextureDimension2D,
		"maxBufferSize", limits.MaxBufferSize)
	return limits.MaxTextureDimension2D, nil
}

// Close releases the device and adapter. The Device must not be used
// afterwards.
func (d *Device) Close() {
	releaseDevice(d.device)
	d.device = core.DeviceID{}
	releaseAdapter(d.adapter)
	d.adapter = core.AdapterID{}
	d.instance = nil
	d.queue = core.QueueID{}
}

// adapterInfo queries adapter information, returning nil on failure.
func adapterInfo(adapterID core.AdapterID) *Info {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		webvfx.Logger().Warn("gpu: failed to get adapter info", "err", err)
		return nil
	}
	return &Info{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

func releaseDevice(deviceID core.DeviceID) {
	if deviceID.IsZero() {
		return
	}
	if err := core.DeviceDrop(deviceID); err != nil {
		webvfx.Logger().Warn("gpu: failed to release device", "err", err)
	}
}

func releaseAdapter(adapterID core.AdapterID) {
	if adapterID.IsZero() {
		return
	}
	if err := core.AdapterDrop(adapterID); err != nil {
		webvfx.Logger().Warn("gpu: failed to release adapter", "err", err)
	}
}
