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

// IDEController represents an IDE controller device.
type IDEControllerDevice struct {
	DeviceInfo

	ID                   string       `yaml:"id"`
	Driver               DeviceDriver `yaml:"driver"`
	Bus                  string       `yaml:"bus,omitempty"`
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
func (ideCon *IDEControllerDevice) Kind() DeviceKind { return KindController }

// PCIClass names this controller's auto-assignment class: IDE controllers
// are placed ahead of the generic controller class, alongside FDC and CCID.
func (ideCon *IDEControllerDevice) PCIClass() string { return "ide" }

// Valid returns true if the IDEController structure is valid and complete.
func (ideCon IDEControllerDevice) Valid() error {
	if ideCon.ID == "" {
		return fmt.Errorf("IDEController has empty ID field")
	}

	if ideCon.Driver == "" {
		return fmt.Errorf("IDEController has empty Driver field")
	}
	return nil
}

// id is the -device line's id=, preferring the alias allocator's output
// over the caller-supplied ID.
func (ideCon IDEControllerDevice) id() string {
	if ideCon.Alias != "" {
		return ideCon.Alias
	}
	return ideCon.ID
}

// QemuParams returns the qemu parameters built out of this IDEController device.
func (ideCon IDEControllerDevice) QemuParams(config *Config) []string {
	device := NewArgBuilder(ideCon.deviceName(config))
	device.AddLiteral("id", ideCon.id())
	addr := config.legacyPCISlot(ideCon.Addr)
	if addr > 0 {
		device.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
		bus := "pcie.0"
		if ideCon.Bus != "" {
			bus = ideCon.Bus
		}
		device.AddLiteral("bus", bus)
	}
	device.AddLiteral("romfile", ideCon.ROMFile)
	device.AddLiteral("rombar", ideCon.ROMBar)
	if ideCon.Multifunction {
		device.AddKeyword("multifunction=on")
	}

	return []string{"-device", device.String()}
}

// deviceName returns the QEMU device name for the current combination of
// driver and transport.
func (ideCon IDEControllerDevice) deviceName(config *Config) string {
	return string(ideCon.Driver)
}
