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

// HubDevice represents a USB hub, letting several USB devices share one
// USB bus port.
type HubDevice struct {
	DeviceInfo

	Bus string `yaml:"bus,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (h *HubDevice) Kind() DeviceKind { return KindHub }

// Valid always succeeds: a hub has no required fields of its own.
func (h HubDevice) Valid() error { return nil }

// QemuParams returns the qemu parameters built out of the HubDevice.
func (h HubDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder("usb-hub")
	b.AddLiteral("id", h.Alias)
	b.AddLiteral("bus", h.Bus)
	return []string{"-device", b.String()}
}
