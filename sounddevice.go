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

// SoundModel names the emulated sound card hardware.
type SoundModel string

const (
	SoundAC97     SoundModel = "AC97"
	SoundES1370   SoundModel = "ES1370"
	SoundSB16     SoundModel = "sb16"
	SoundPCSPK    SoundModel = "pcspk"
	SoundICH9HDA  SoundModel = "ich9-intel-hda"
	SoundHDADuplex SoundModel = "hda-duplex"
)

// SoundDevice represents an emulated sound card.
type SoundDevice struct {
	DeviceInfo

	Model SoundModel `yaml:"model"`

	// Addr is the PCI address offset, for PCI-attached sound cards.
	Addr string `yaml:"address"`
}

// Kind identifies this device for the alias and address allocator passes.
func (s *SoundDevice) Kind() DeviceKind { return KindSound }

// PCIClass reports the legacy ISA-only sound models the PCI auto-assign
// pass's "sound" class excludes: SB16 and the PC speaker never sit on PCI.
func (s *SoundDevice) PCIClass() string {
	switch s.Model {
	case SoundSB16, SoundPCSPK:
		return "sb16"
	default:
		return ""
	}
}

// Valid returns an error if the SoundDevice structure is invalid or
// incomplete.
func (s SoundDevice) Valid() error {
	if s.Model == "" {
		return newErr(XmlInvalid, s.Alias, "sound device has empty model")
	}
	return nil
}

// QemuParams returns the qemu parameters built out of the SoundDevice.
func (s SoundDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder(string(s.Model))
	b.AddLiteral("id", s.Alias)
	if s.Addr != "" {
		addr := config.legacyPCISlot(s.Addr)
		if addr > 0 {
			b.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
		}
	}
	return []string{"-device", b.String()}
}
