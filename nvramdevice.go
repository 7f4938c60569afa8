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

// NVRAMDevice represents the pseries spapr-nvram device, the only NVRAM
// backing this module generates QemuParams for.
type NVRAMDevice struct {
	DeviceInfo

	File string `yaml:"file,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (n *NVRAMDevice) Kind() DeviceKind { return KindNVRAM }

// Valid always succeeds: spapr-nvram has no required fields beyond its
// allocator-assigned reg, and an unset File simply means an empty NVRAM.
func (n NVRAMDevice) Valid() error { return nil }

// QemuParams returns the qemu parameters built out of the NVRAMDevice.
func (n NVRAMDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder("spapr-nvram")
	b.AddLiteral("id", n.Alias)
	if n.Address.Type == AddressSPAPRVIO && n.Address.SPAPRVIO.HasReg {
		b.AddLiteral("reg", fmt.Sprintf("0x%x", n.Address.SPAPRVIO.Reg))
	}
	b.AddEscaped("file", n.File)
	return []string{"-device", b.String()}
}
