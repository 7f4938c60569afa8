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

import (
	"fmt"
	"strconv"
)

// MaterializeConfig runs alias assignment and address allocation against d,
// then projects the resulting devices into a Config's per-kind slices so
// ConfigureParams can turn the domain into a qemu argv. It is the forward
// half of the round-trip ParseCommandLine inverts.
func MaterializeConfig(d *Domain, caps *CapabilitySet) (*Config, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := NewAliasAllocator().AssignAll(d); err != nil {
		return nil, err
	}
	if err := AssignAddresses(d, caps); err != nil {
		return nil, err
	}

	config := &Config{
		Name: d.Name,
		UUID: d.UUID,
		Caps: caps,
		Machine: Machine{
			Type:         d.MachineType,
			Acceleration: string(d.VirtMode),
		},
		SMP: SMP{
			CPUs: d.VCPUs,
		},
	}
	if d.Memory.MaxMemory != 0 {
		config.Memory.MaxMem = fmt.Sprintf("%dB", d.Memory.MaxMemory)
	}
	if d.Topology != nil {
		config.SMP.Sockets = d.Topology.Sockets
		config.SMP.Cores = d.Topology.Cores
		config.SMP.Threads = d.Topology.Threads
	}
	if d.MaxVCPUs != 0 {
		config.SMP.MaxCPUs = d.MaxVCPUs
	}

	netIndex := 0
	for _, dev := range d.Devices {
		switch v := dev.(type) {
		case *BlockDevice:
			v.BusAddr = legacyPCISlotString(v.DeviceInfo)
			config.BlkDevices = append(config.BlkDevices, *v)
		case *NetDevice:
			if v.Address.Type == AddressPCI {
				v.Addr = strconv.Itoa(v.Address.PCI.Slot)
			}
			if v.MACAddress == "" {
				v.MACAddress = DeterministicMAC(d.UUID, netIndex)
			}
			netIndex++
			config.NetDevices = append(config.NetDevices, *v)
		case *RngDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.RngDevices = append(config.RngDevices, *v)
		case *CharDevice:
			config.CharDevices = append(config.CharDevices, *v)
		case *SerialDevice:
			config.SerialDevices = append(config.SerialDevices, *v)
		case *IDEControllerDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.IDEControllerDevices = append(config.IDEControllerDevices, *v)
		case *SCSIControllerDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.SCSIControllerDevices = append(config.SCSIControllerDevices, *v)
		case *USBControllerDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.USBControllerDevices = append(config.USBControllerDevices, *v)
		case *BridgeDevice:
			config.BridgeDevices = append(config.BridgeDevices, *v)
		case *PCIeRootPortDevice:
			config.PCIeRootPortDevices = append(config.PCIeRootPortDevices, *v)
		case *BalloonDevice:
			config.BalloonDevices = append(config.BalloonDevices, *v)
		case *VFIODevice:
			config.VFIODevices = append(config.VFIODevices, *v)
		case *FSDevice:
			config.FSDevices = append(config.FSDevices, *v)
		case *SoundDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.SoundDevices = append(config.SoundDevices, *v)
		case *InputDevice:
			config.InputDevices = append(config.InputDevices, *v)
		case *VideoDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.VideoDevices = append(config.VideoDevices, *v)
		case *HubDevice:
			config.HubDevices = append(config.HubDevices, *v)
		case *SmartcardDevice:
			config.SmartcardDevices = append(config.SmartcardDevices, *v)
		case *WatchdogDevice:
			v.Addr = legacyPCISlotString(v.DeviceInfo)
			config.WatchdogDevices = append(config.WatchdogDevices, *v)
		case *NVRAMDevice:
			config.NVRAMDevices = append(config.NVRAMDevices, *v)
		case *TPMDevice:
			// TPM is a domain singleton, mirroring Config's single TPM field
			// rather than one of the per-kind device slices.
			config.TPM = *v
		case *genericDevice:
			// No dedicated Go type claimed this option string on the way in;
			// device.go's appendDevices only walks the named per-kind slices,
			// so generic devices go straight onto the backing device list.
			config.devices = append(config.devices, v)
		}
	}

	config.GlobalParams = append(config.GlobalParams, d.NamespaceCmdline...)

	return config, nil
}

// legacyPCISlotString renders an allocated PCI address back into the bare
// "0x12"-style slot string the pre-AddressSet device serializers still read
// through legacyPCISlot, so the address allocator's choice actually reaches
// the emitted argv instead of being silently dropped on the floor.
func legacyPCISlotString(info DeviceInfo) string {
	if info.Address.Type != AddressPCI {
		return ""
	}
	return fmt.Sprintf("0x%x", info.Address.PCI.Slot)
}
