// Copyright 2026 The webvfx Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// Embedders that already own a GPU device (e.g. a gogpu application
// hosting webvfx output in its own surface) implement DeviceHandle and
// pass it to the scene compositor, which then shares the host's device
// instead of acquiring its own. webvfx receives the device from the
// host; it does not take ownership.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, keeping the
// compositor compatible with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle with no device behind it. Used for
// CPU-only compositing where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
