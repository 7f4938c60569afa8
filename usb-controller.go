/*
Copyright © 2023 Ryan Harper <rharper@woxford.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package qcli

import (
	"fmt"
)

// USBController represents an USB controller device.
type USBControllerDevice struct {
	DeviceInfo

	ID                   string       `yaml:"id"`
	Driver               DeviceDriver `yaml:"driver"`
	Addr                 string       `yaml:"addr,omitempty"`
	FailoverPairID       string       `yaml:"failover-pair-id,omitempty"`
	ROMFile              string       `yaml:"romfile,omitempty"`
	ROMBar               string       `yaml:"rombar,omitempty"`
	Multifunction        bool         `yaml:"multifunction,omitempty"`
	XPCIELinkStateDLLLA  bool         `yaml:"x-pcie-lnksta-dllla,omitempty"`
	XPCIeExternalCapInit bool         `yaml:"x-pcie-extcap-init,omitempty"`
	CommandSerrEnable    bool         `yaml:"command-seer-enable,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (usbCon *USBControllerDevice) Kind() DeviceKind { return KindController }

// PCIClass names this controller's auto-assignment class: an ICH9 USB2
// companion (UHCI1/2/3 + EHCI) shares a slot's functions 0/1/2/7, everything
// else falls into the generic controller class.
func (usbCon *USBControllerDevice) PCIClass() string {
	switch usbCon.Driver {
	case ICH9UHCI1Controller, ICH9UHCI2Controller, ICH9UHCI3Controller, ICH9EHCI1Controller:
		return "usb2-companion"
	default:
		return ""
	}
}

// Valid returns true if the USBController structure is valid and complete.
func (usbCon USBControllerDevice) Valid() error {
	if usbCon.ID == "" {
		return fmt.Errorf("USBController has empty ID field")
	}

	if usbCon.Driver == "" {
		return fmt.Errorf("USBController has empty Driver field")
	}
	return nil
}

// id is the -device line's id=, preferring the alias allocator's output
// over the caller-supplied ID.
func (usbCon USBControllerDevice) id() string {
	if usbCon.Alias != "" {
		return usbCon.Alias
	}
	return usbCon.ID
}

// QemuParams returns the qemu parameters built out of this USBController device.
func (usbCon USBControllerDevice) QemuParams(config *Config) []string {
	device := NewArgBuilder(usbCon.deviceName(config))
	device.AddLiteral("id", usbCon.id())
	addr := config.legacyPCISlot(usbCon.Addr)
	if addr > 0 {
		device.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
	}
	device.AddLiteral("romfile", usbCon.ROMFile)
	device.AddLiteral("rombar", usbCon.ROMBar)
	if usbCon.Multifunction {
		device.AddKeyword("multifunction=on")
	}

	return []string{"-device", device.String()}
}

// deviceName returns the QEMU device name for the current combination of
// driver and transport.
func (usbCon USBControllerDevice) deviceName(config *Config) string {
	return string(usbCon.Driver)
}
