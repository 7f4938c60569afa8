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

// SmartcardBackend names the CCID card backend.
type SmartcardBackend string

const (
	SmartcardEmulated  SmartcardBackend = "ccid-card-emulated"
	SmartcardPassthru  SmartcardBackend = "ccid-card-passthru"
)

// SmartcardDevice represents a CCID smartcard reader and its backing card.
type SmartcardDevice struct {
	DeviceInfo

	Backend  SmartcardBackend `yaml:"backend"`
	DBPath   string           `yaml:"db-path,omitempty"`
	Chardev  string           `yaml:"chardev,omitempty"`
}

// Kind identifies this device for the alias and address allocator passes.
func (sc *SmartcardDevice) Kind() DeviceKind { return KindSmartcard }

// Valid returns an error if the SmartcardDevice structure is invalid or
// incomplete.
func (sc SmartcardDevice) Valid() error {
	if sc.Backend == "" {
		return newErr(XmlInvalid, sc.Alias, "smartcard device has empty backend")
	}
	if sc.Backend == SmartcardPassthru && sc.Chardev == "" {
		return newErr(XmlInvalid, sc.Alias, "passthru smartcard requires a chardev")
	}
	return nil
}

// QemuParams returns the qemu parameters built out of the SmartcardDevice.
func (sc SmartcardDevice) QemuParams(config *Config) []string {
	b := NewArgBuilder(string(sc.Backend))
	b.AddLiteral("id", sc.Alias)
	b.AddEscaped("db", sc.DBPath)
	b.AddLiteral("chardev", sc.Chardev)
	return []string{"-device", b.String()}
}
