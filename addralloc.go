package qcli

import log "github.com/sirupsen/logrus"

// AssignAddresses runs the machine-dependent address allocation passes over
// every device in d, in the order §4.4 names: SPAPR-VIO, then S390 CCW, then
// PCI. The SPAPR-VIO and S390 passes run only on pseries and s390-ccw
// machines; the PCI pass runs on every machine.
// Devices that already carry an explicit address of the right type are
// validated and recorded; devices with AddressNone are auto-assigned.
func AssignAddresses(d *Domain, caps *CapabilitySet) error {
	if d.IsPseries() {
		if err := assignSPAPRVIO(d); err != nil {
			return err
		}
	}
	if d.IsS390CCW() {
		if err := assignS390(d); err != nil {
			return err
		}
	}
	// The PCI pass always runs, even on pseries/s390 machines: those buses
	// host their own SPAPR-VIO/CCW devices, but a domain can still attach
	// PCI hostdevs or other PCI-addressed devices that need slots assigned.
	return assignPCI(d, caps)
}

func assignSPAPRVIO(d *Domain) error {
	set := NewSPAPRVIOAddressSet()

	// First pass: reserve every explicit reg so later auto-assignment never
	// collides with one a device already pinned.
	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Address.Type == AddressSPAPRVIO && info.Address.SPAPRVIO.HasReg {
			if err := set.Reserve(info.Address.SPAPRVIO.Reg); err != nil {
				return err
			}
		}
	}

	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Address.Type == AddressSPAPRVIO && info.Address.SPAPRVIO.HasReg {
			continue
		}
		if !spaprVIOEligible(dev.Kind()) {
			continue
		}
		reg, err := set.AutoAssign(dev.Kind())
		if err != nil {
			return err
		}
		info.Address = Address{Type: AddressSPAPRVIO, SPAPRVIO: SPAPRVIOAddr{Reg: reg, HasReg: true}}
	}
	return nil
}

func spaprVIOEligible(k DeviceKind) bool {
	switch k {
	case KindNet, KindDisk, KindController, KindConsole, KindSerial, KindNVRAM:
		return true
	default:
		return false
	}
}

func assignS390(d *Domain) error {
	set := NewCCWAddressSet()

	// First pass: reserve every explicit CCW address, so the auto-assignment
	// below never hands out a devno a device already pinned.
	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Address.Type == AddressCCW {
			if err := set.Reserve(info.Address.CCW); err != nil {
				return err
			}
		}
	}

	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Address.Type == AddressCCW {
			continue
		}
		if !ccwEligible(dev.Kind()) {
			continue
		}
		addr, err := set.AutoAssign()
		if err != nil {
			return err
		}
		info.Address = Address{Type: AddressCCW, CCW: addr}
	}
	return nil
}

func ccwEligible(k DeviceKind) bool {
	switch k {
	case KindNet, KindDisk, KindController, KindRNG, KindMemballoon, KindConsole, KindChannel:
		return true
	default:
		return false
	}
}

// assignPCI implements the PCI pass's three stages from §4.4: bus discovery,
// validate-and-record of explicit addresses, then auto-assign in the exact
// device-class order the spec names.
func assignPCI(d *Domain, caps *CapabilitySet) error {
	set := NewAddressSet(true)

	// Stage 1: bus discovery. Grow buses for every explicit PCI bridge
	// controller so later stages see the full bus topology up front.
	for _, dev := range d.Devices {
		if dev.Kind() != KindController {
			continue
		}
		if ctrl, ok := dev.(pciBridgeController); ok && ctrl.isPCIBridge() {
			if _, err := set.GrowBus(); err != nil {
				return err
			}
		}
	}
	set.DryRun = false

	// PIIX3 pre-reservations: slot 1 is the PIIX3 composite device (IDE/USB1/
	// ACPI functions), slot 2 is the Cirrus/std VGA, per §4.4.
	if d.IsPIIX3() {
		if err := set.Reserve(PCIAddr{Slot: 1, Function: 0}, TristateOn); err != nil {
			return err
		}
		if err := set.Reserve(PCIAddr{Slot: 2, Function: 0}, TristateUnset); err != nil {
			return err
		}
	}

	// Stage 2: validate and record every explicit address.
	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Address.Type == AddressPCI {
			if err := set.Reserve(info.Address.PCI, info.Address.PCI.Multifunction); err != nil {
				return err
			}
		}
	}

	// Stage 3: auto-assign remaining devices in the class order §4.4 names.
	for _, class := range pciAutoAssignOrder {
		for _, dev := range d.Devices {
			info := dev.Info()
			if info.Address.Type != AddressNone {
				continue
			}
			if !class.match(dev) {
				continue
			}
			if class.usb2Companion {
				addr, err := set.reserveUSB2Companion()
				if err != nil {
					return err
				}
				info.Address = Address{Type: AddressPCI, PCI: addr}
				continue
			}
			addr, err := set.AutoAssign()
			if err != nil {
				return err
			}
			info.Address = Address{Type: AddressPCI, PCI: addr}
		}
	}

	log.Debugf("PCI address allocation complete across %d bus(es)", len(set.Buses))
	return nil
}

// pciBridgeController is implemented by controller devices that introduce a
// new PCI bus (pci-bridge, pcie-root-port, etc).
type pciBridgeController interface {
	isPCIBridge() bool
}

type pciClassRule struct {
	name          string
	match         func(DomainDevice) bool
	usb2Companion bool
}

// pciAutoAssignOrder is the exact device-class ordering §4.4 specifies for
// PCI auto-assignment: controllers first (except pci-root), then
// filesystems, networks, sound (except the ISA-only SB16/PC speaker),
// non-IDE/FDC/CCID controllers (with the ICH9 USB2 companion quartet sharing
// one slot), virtio disks, PCI hostdevs, virtio balloon, virtio RNG,
// watchdogs (except IB700), and finally secondary QXL video.
var pciAutoAssignOrder = []pciClassRule{
	{name: "pci-controllers", match: func(dev DomainDevice) bool {
		return dev.Kind() == KindController && !isPCIRootController(dev)
	}},
	{name: "filesystems", match: func(dev DomainDevice) bool { return dev.Kind() == KindFS }},
	{name: "networks", match: func(dev DomainDevice) bool { return dev.Kind() == KindNet }},
	{name: "sound", match: func(dev DomainDevice) bool {
		return dev.Kind() == KindSound && !isLegacySound(dev)
	}},
	{name: "usb2-companions", match: isUSB2CompanionController, usb2Companion: true},
	{name: "other-controllers", match: func(dev DomainDevice) bool {
		return dev.Kind() == KindController && !isUSB2CompanionController(dev) && !isLegacyController(dev)
	}},
	{name: "virtio-disks", match: func(dev DomainDevice) bool {
		return dev.Kind() == KindDisk && isVirtioDisk(dev)
	}},
	{name: "hostdevs", match: func(dev DomainDevice) bool { return dev.Kind() == KindHostdev }},
	{name: "balloon", match: func(dev DomainDevice) bool { return dev.Kind() == KindMemballoon }},
	{name: "rng", match: func(dev DomainDevice) bool { return dev.Kind() == KindRNG }},
	{name: "watchdog", match: func(dev DomainDevice) bool {
		return dev.Kind() == KindWatchdog && !isIB700(dev)
	}},
	{name: "secondary-video", match: func(dev DomainDevice) bool { return dev.Kind() == KindVideo }},
}

// The isXxx predicates below inspect a concrete device's driver/model tag.
// They are implemented against the PCIClassifier interface so each
// device-serializer file opts in by implementing one method, rather than
// this file reaching into every concrete device type's private fields.

// PCIClassifier lets a device describe its own auto-assignment class
// details without this file importing every concrete device type.
type PCIClassifier interface {
	PCIClass() string
}

func classOf(dev DomainDevice) string {
	if c, ok := dev.(PCIClassifier); ok {
		return c.PCIClass()
	}
	return ""
}

func isPCIRootController(dev DomainDevice) bool  { return classOf(dev) == "pci-root" }
func isLegacyController(dev DomainDevice) bool {
	switch classOf(dev) {
	case "ide", "fdc", "ccid":
		return true
	default:
		return false
	}
}
func isUSB2CompanionController(dev DomainDevice) bool { return classOf(dev) == "usb2-companion" }
func isLegacySound(dev DomainDevice) bool {
	switch classOf(dev) {
	case "sb16", "pcspk":
		return true
	default:
		return false
	}
}
func isVirtioDisk(dev DomainDevice) bool { return classOf(dev) == "virtio-disk" }
func isIB700(dev DomainDevice) bool      { return classOf(dev) == "ib700" }
