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

// WatchdogModel names the emulated watchdog hardware.
type WatchdogModel string

const (
	WatchdogI6300ESB WatchdogModel = "i6300esb"
	WatchdogIB700    WatchdogModel = "ib700"
	WatchdogDiag288  WatchdogModel = "diag288"
)

// WatchdogAction names what happens when the watchdog fires.
type WatchdogAction string

const (
	WatchdogReset    WatchdogAction = "reset"
	WatchdogShutdown WatchdogAction = "shutdown"
	WatchdogPoweroff WatchdogAction = "poweroff"
	WatchdogPause    WatchdogAction = "pause"
	WatchdogNone     WatchdogAction = "none"
)

// WatchdogDevice represents the guest's virtual hardware watchdog.
type WatchdogDevice struct {
	DeviceInfo

	Model  WatchdogModel  `yaml:"model"`
	Action WatchdogAction `yaml:"action"`
	Addr   string         `yaml:"address,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (w *WatchdogDevice) Kind() DeviceKind { return KindWatchdog }

// PCIClass reports ib700, the ISA-only legacy watchdog the PCI auto-assign
// pass's "watchdog" class excludes.
func (w *WatchdogDevice) PCIClass() string {
	if w.Model == WatchdogIB700 {
		return "ib700"
	}
	return ""
}

// Valid returns an error if the WatchdogDevice structure is invalid or
// incomplete.
func (w WatchdogDevice) Valid() error {
	if w.Model == "" {
		return newErr(XmlInvalid, w.Alias, "watchdog device has empty model")
	}
	return nil
}

// QemuParams returns the qemu parameters built out of the WatchdogDevice.
func (w WatchdogDevice) QemuParams(config *Config) []string {
	var params []string

	b := NewArgBuilder(string(w.Model))
	b.AddLiteral("id", w.Alias)
	if w.Addr != "" {
		addr := config.legacyPCISlot(w.Addr)
		if addr > 0 {
			b.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
		}
	}
	params = append(params, "-device", b.String())

	if w.Action != "" {
		params = append(params, "-watchdog-action", string(w.Action))
	}
	return params
}
