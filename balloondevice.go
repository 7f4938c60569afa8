/*
// Copyright contributors to the Virtual Machine Manager for Go project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
*/

// Package qemu provides methods and types for launching and managing QEMU
// instances.  Instances can be launched with the LaunchQemu function and
// managed thereafter via QMPStart and the QMP object that this function
// returns.  To manage a qemu instance after it has been launched you need
// to pass the -qmp option during launch requesting the qemu instance to create
// a QMP unix domain manageent socket, e.g.,
// -qmp unix:/tmp/qmp-socket,server,nowait.  For more information see the
// example below.

package qcli

import (
	"fmt"
)

// BalloonDevice represents a memory balloon device.
type BalloonDevice struct {
	DeviceInfo

	DeflateOnOOM  bool   `yaml:"deflate-on-oom"`
	DisableModern bool   `yaml:"disable-modern"`
	ID            string `yaml:"id"`

	// ROMFile specifies the ROM file being used for this device.
	ROMFile string `yaml:"rom-file"`

	// DevNo identifies the ccw devices for s390x architecture
	DevNo string `yaml:"ccw-dev-no"`

	// Transport is the virtio transport for this device.
	Transport VirtioTransport `yaml:"transport"`
}

// BalloonDeviceTransport is a map of the virtio-balloon device name that
// corresponds to each transport.
var BalloonDeviceTransport = map[VirtioTransport]string{
	TransportPCI:  "virtio-balloon-pci",
	TransportCCW:  "virtio-balloon-ccw",
	TransportMMIO: "virtio-balloon-device",
}

// id is the -device line's id=, preferring the alias allocator's output
// over the caller-supplied ID.
func (b BalloonDevice) id() string {
	if b.Alias != "" {
		return b.Alias
	}
	return b.ID
}

// QemuParams returns the qemu parameters built out of the BalloonDevice.
func (b BalloonDevice) QemuParams(config *Config) []string {
	device := NewArgBuilder(b.deviceName(config))
	device.AddLiteral("id", b.id())

	if b.Transport.isVirtioPCI(config) && b.ROMFile != "" {
		device.AddLiteral("romfile", b.ROMFile)
	}

	if b.Transport.isVirtioCCW(config) {
		device.AddLiteral("devno", b.DevNo)
	}

	if b.DeflateOnOOM {
		device.AddKeyword("deflate-on-oom=on")
	} else {
		device.AddKeyword("deflate-on-oom=off")
	}
	if s := b.Transport.disableModern(config, b.DisableModern); s != "" {
		device.AddKeyword(s)
	}

	return []string{"-device", device.String()}
}

// Kind identifies this device for the alias and address allocator passes.
func (b *BalloonDevice) Kind() DeviceKind { return KindMemballoon }

// Valid returns true if the balloonDevice structure is valid and complete.
func (b BalloonDevice) Valid() error {
	if b.ID == "" {
		return fmt.Errorf("Invalid BalloonDevice, ID field is unset")
	}
	return nil
}

// deviceName returns the QEMU device name for the current combination of
// driver and transport.
func (b BalloonDevice) deviceName(config *Config) string {
	if b.Transport == "" {
		b.Transport = b.Transport.defaultTransport(config)
	}

	return BalloonDeviceTransport[b.Transport]
}
