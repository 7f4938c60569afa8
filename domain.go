package qcli

import (
	"crypto/sha256"
	"fmt"
)

// DeviceKind tags the variant of a domain device. The set is closed and
// matches the Device polymorphism named in the domain model: every kind
// here must have a serializer in the device-serializer files.
type DeviceKind int

const (
	KindDisk DeviceKind = iota
	KindNet
	KindController
	KindFS
	KindSound
	KindInput
	KindVideo
	KindHostdev
	KindRedirdev
	KindChannel
	KindSerial
	KindParallel
	KindConsole
	KindHub
	KindSmartcard
	KindWatchdog
	KindMemballoon
	KindRNG
	KindTPM
	KindNVRAM
)

func (k DeviceKind) String() string {
	switch k {
	case KindDisk:
		return "disk"
	case KindNet:
		return "net"
	case KindController:
		return "controller"
	case KindFS:
		return "filesystem"
	case KindSound:
		return "sound"
	case KindInput:
		return "input"
	case KindVideo:
		return "video"
	case KindHostdev:
		return "hostdev"
	case KindRedirdev:
		return "redirdev"
	case KindChannel:
		return "channel"
	case KindSerial:
		return "serial"
	case KindParallel:
		return "parallel"
	case KindConsole:
		return "console"
	case KindHub:
		return "hub"
	case KindSmartcard:
		return "smartcard"
	case KindWatchdog:
		return "watchdog"
	case KindMemballoon:
		return "memballoon"
	case KindRNG:
		return "rng"
	case KindTPM:
		return "tpm"
	case KindNVRAM:
		return "nvram"
	default:
		return "unknown"
	}
}

// AddressType tags the variant of a device's bus-address. AddressNone is the
// initial state every device carries before the address allocator runs.
type AddressType int

const (
	AddressNone AddressType = iota
	AddressPCI
	AddressDrive
	AddressUSB
	AddressCCW
	AddressSPAPRVIO
	AddressVirtioSerial
	AddressVioS390
)

// Tristate models an unset/on/off flag, used for PCI multifunction where
// "not yet decided" is distinct from both "on" and "off".
type Tristate int

const (
	TristateUnset Tristate = iota
	TristateOn
	TristateOff
)

// PCIAddr is a PCI domain:bus:slot.function address.
type PCIAddr struct {
	Domain        int
	Bus           int
	Slot          int
	Function      int
	Multifunction Tristate
}

func (a PCIAddr) String() string {
	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Slot, a.Function)
}

// DriveAddr addresses a disk on a legacy IDE/SCSI/SATA/FDC bus.
type DriveAddr struct {
	Controller int
	Bus        int
	Target     int
	Unit       int
}

// USBAddr addresses a device on a USB bus by hub/port path.
type USBAddr struct {
	Bus      int
	PortPath string
}

// CCWAddr is an s390 channel command word address.
type CCWAddr struct {
	Cssid uint8
	Ssid  uint8
	Devno uint16
}

func (a CCWAddr) String() string {
	return fmt.Sprintf("%x.%x.%04x", a.Cssid, a.Ssid, a.Devno)
}

// SPAPRVIOAddr is a pseries paravirtual device bus address.
type SPAPRVIOAddr struct {
	Reg    uint64
	HasReg bool
}

// VirtioSerialAddr addresses a channel on a virtio-serial controller.
type VirtioSerialAddr struct {
	Controller int
	Bus        int
	Port       int
}

// Address is the bus-address sum type. Exactly one embedded field is valid,
// selected by Type; the others are zero. AddressNone means "unassigned,
// replaced by the allocator".
type Address struct {
	Type         AddressType
	PCI          PCIAddr
	Drive        DriveAddr
	USB          USBAddr
	CCW          CCWAddr
	SPAPRVIO     SPAPRVIOAddr
	VirtioSerial VirtioSerialAddr
}

// String renders the address the way allocator error messages require.
func (a Address) String() string {
	switch a.Type {
	case AddressPCI:
		return a.PCI.String()
	case AddressCCW:
		return a.CCW.String()
	case AddressSPAPRVIO:
		return fmt.Sprintf("0x%x", a.SPAPRVIO.Reg)
	case AddressDrive:
		return fmt.Sprintf("bus=%d,unit=%d", a.Drive.Bus, a.Drive.Unit)
	case AddressUSB:
		return fmt.Sprintf("bus=%d,port=%s", a.USB.Bus, a.USB.PortPath)
	default:
		return "none"
	}
}

// DeviceInfo is the bookkeeping every domain device carries: its stable
// alias, its allocated bus address, and the optional boot/ROM attributes the
// serializers append as a standard suffix.
type DeviceInfo struct {
	Alias     string
	Address   Address
	BootIndex *int
	ROMFile   string
}

// Info returns the device's bookkeeping record; embedding DeviceInfo gives
// every concrete device type this method for free.
func (info *DeviceInfo) Info() *DeviceInfo { return info }

// DomainDevice is the polymorphic device interface the domain model's
// collections hold. It extends the existing serializer contract (Valid,
// QemuParams) with the alias/address bookkeeping the allocator phases need.
type DomainDevice interface {
	Device
	Kind() DeviceKind
	Info() *DeviceInfo
}

// CPUTopology is the optional sockets/cores/threads breakdown of the guest's
// vCPUs.
type CPUTopology struct {
	Sockets uint32 `yaml:"sockets"`
	Cores   uint32 `yaml:"cores"`
	Threads uint32 `yaml:"threads"`
}

// MemoryTargets describes the guest's memory configuration beyond its
// current size: the balloon target, the hard ceiling hot-plug may reach, and
// the locking/hugepage/dump flags that change how that memory is backed.
type MemoryTargets struct {
	BalloonTarget uint64 `yaml:"balloon-target-bytes"`
	MaxMemory     uint64 `yaml:"max-memory-bytes"`
	Locked        bool   `yaml:"locked"`
	HugePages     bool   `yaml:"hugepages"`
	DumpGuestCore bool   `yaml:"dump-guest-core"`
}

// ClockDef is the guest real-time-clock definition.
type ClockDef struct {
	Base     RTCBaseType `yaml:"base"`
	Clock    RTCClock    `yaml:"clock"`
	DriftFix RTCDriftFix `yaml:"drift-fix"`
}

// VirtMode is the virtualization backend the domain requests.
type VirtMode string

const (
	VirtTCG   VirtMode = "tcg"
	VirtKVM   VirtMode = "kvm"
	VirtKQEMU VirtMode = "kqemu"
	VirtXen   VirtMode = "xen"
)

// Domain is the root aggregate of the declarative VM description: the input
// to the alias/address allocators and the output of the inverse parser.
type Domain struct {
	Name         string        `yaml:"name"`
	UUID         string        `yaml:"uuid"`
	Architecture string        `yaml:"architecture"`
	MachineType  string        `yaml:"machine-type"`
	VirtMode     VirtMode      `yaml:"virt-mode"`
	VCPUs        uint32        `yaml:"vcpus"`
	MaxVCPUs     uint32        `yaml:"max-vcpus"`
	Topology     *CPUTopology  `yaml:"topology,omitempty"`
	Memory       MemoryTargets `yaml:"memory"`
	Clock        ClockDef      `yaml:"clock"`
	Features     *CapabilitySet

	Devices []DomainDevice `yaml:"-"`

	// NamespaceCmdline retains argv fragments the inverse parser did not
	// recognize, attached verbatim rather than dropped.
	NamespaceCmdline []string `yaml:"namespace-cmdline,omitempty"`
}

// Validate checks the domain-wide invariants named in §3 of the spec.
func (d *Domain) Validate() error {
	if d.MachineType == "" {
		return newErr(XmlInvalid, d.Name, "machine type must be set")
	}
	if d.MaxVCPUs > 0 && d.VCPUs > d.MaxVCPUs {
		return newErr(XmlInvalid, d.Name, "vcpus %d exceeds maxvcpus %d", d.VCPUs, d.MaxVCPUs)
	}
	if d.Memory.MaxMemory > 0 && d.Memory.BalloonTarget > d.Memory.MaxMemory {
		return newErr(XmlInvalid, d.Name, "balloon target exceeds max memory")
	}
	return nil
}

// IsPseries reports whether this domain's machine type is the pseries
// platform, gating the SPAPR-VIO address allocator pass.
func (d *Domain) IsPseries() bool {
	return d.Architecture == "ppc64" && len(d.MachineType) >= 7 && d.MachineType[:7] == "pseries"
}

// IsS390CCW reports whether this domain's machine type is an s390-ccw
// platform, gating the S390 address allocator pass.
func (d *Domain) IsS390CCW() bool {
	return len(d.MachineType) >= 8 && d.MachineType[:8] == "s390-ccw"
}

// IsPIIX3 reports whether this domain's machine type uses the PIIX3
// southbridge, pinning the implicit IDE/USB/video PCI addresses.
func (d *Domain) IsPIIX3() bool {
	return d.MachineType == MachineTypePC || len(d.MachineType) >= 3 && d.MachineType[:3] == "pc-"
}

// DevicesOfKind returns the devices matching kind, in collection order.
func (d *Domain) DevicesOfKind(kind DeviceKind) []DomainDevice {
	var out []DomainDevice
	for _, dev := range d.Devices {
		if dev.Kind() == kind {
			out = append(out, dev)
		}
	}
	return out
}

// DeterministicMAC derives a locally-administered MAC address from the
// domain UUID and a net device's position in the net collection. The result
// is stable across rebuilds of the same domain and changes only if the net
// device list is reordered; it never reads from a random source, matching
// the rest of this module's avoidance of non-reproducible build output.
func DeterministicMAC(uuid string, netIndex int) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s/net%d", uuid, netIndex)))
	// Set the locally-administered bit and clear the multicast bit on the
	// first octet, per the standard MAC addressing convention.
	b0 := (h[0] &^ 0x01) | 0x02
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", b0, h[1], h[2], h[3], h[4], h[5])
}
