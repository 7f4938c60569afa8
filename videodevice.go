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

package qcli

import "fmt"

// VideoDriver names the emulated graphics adapter.
type VideoDriver string

const (
	VideoVGA        VideoDriver = "VGA"
	VideoCirrus     VideoDriver = "cirrus-vga"
	VideoQXL        VideoDriver = "qxl-vga"
	VideoQXLSecondary VideoDriver = "qxl"
	VideoVirtioGPU  VideoDriver = "virtio-gpu-pci"
	VideoVirtioVGA  VideoDriver = "virtio-vga"
)

// VideoDevice represents a graphics adapter.
type VideoDevice struct {
	DeviceInfo

	Driver VideoDriver `yaml:"driver"`
	Addr   string      `yaml:"address"`

	// VRAMSizeMB sets the video memory size, when the driver supports it.
	VRAMSizeMB uint `yaml:"vram-size-mb"`
}

// Kind identifies this device for the alias and address allocator passes.
func (v *VideoDevice) Kind() DeviceKind { return KindVideo }

// Valid returns an error if the VideoDevice structure is invalid or
// incomplete.
func (v VideoDevice) Valid() error {
	if v.Driver == "" {
		return newErr(XmlInvalid, v.Alias, "video device has empty driver")
	}
	return nil
}

// QemuParams returns the qemu parameters built out of the VideoDevice.
func (v VideoDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder(string(v.Driver))
	b.AddLiteral("id", v.Alias)
	if v.VRAMSizeMB > 0 {
		b.AddLiteral("vram_size_mb", fmt.Sprintf("%d", v.VRAMSizeMB))
	}
	if v.Addr != "" {
		addr := config.legacyPCISlot(v.Addr)
		if addr > 0 {
			b.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
		}
	}
	return []string{"-device", b.String()}
}
