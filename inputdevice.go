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

// InputDriver names the emulated human-interface device.
type InputDriver string

const (
	InputVirtioMouse    InputDriver = "virtio-mouse-pci"
	InputVirtioKeyboard InputDriver = "virtio-keyboard-pci"
	InputVirtioTablet   InputDriver = "virtio-tablet-pci"
	InputUSBTablet      InputDriver = "usb-tablet"
	InputUSBMouse       InputDriver = "usb-mouse"
	InputUSBKeyboard    InputDriver = "usb-kbd"
)

// InputDevice represents a pointer or keyboard device.
type InputDevice struct {
	DeviceInfo

	Driver InputDriver `yaml:"driver"`
	Bus    string      `yaml:"bus,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (in *InputDevice) Kind() DeviceKind { return KindInput }

// Valid returns an error if the InputDevice structure is invalid or
// incomplete.
func (in InputDevice) Valid() error {
	if in.Driver == "" {
		return newErr(XmlInvalid, in.Alias, "input device has empty driver")
	}
	return nil
}

// QemuParams returns the qemu parameters built out of the InputDevice.
func (in InputDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder(string(in.Driver))
	b.AddLiteral("id", in.Alias)
	b.AddLiteral("bus", in.Bus)
	return []string{"-device", b.String()}
}
