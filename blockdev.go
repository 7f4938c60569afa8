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
	"regexp"
	"strconv"
	"strings"
)

type CacheMode string

const (
	CacheModeWriteThrough CacheMode = "writethrough"
	CacheModeWriteBack    CacheMode = "writeback"
	CacheModeNone         CacheMode = "none"
	CacheModeDirectSync   CacheMode = "directsync"
	CacheModeUnsafe       CacheMode = "unsafe"
)

type DetectZeroesMode string

const (
	DetectZeroesOn    DetectZeroesMode = "on"
	DetectZeroesOff   DetectZeroesMode = "off"
	DetectZeroesUnmap DetectZeroesMode = "unmap"
)

type DiscardMode string

const (
	DiscardIgnore DiscardMode = "ignore"
	DiscardUnmap  DiscardMode = "unmap"
)

// BlockDeviceInterface defines the type of interface the device is connected to.
type BlockDeviceInterface string

// BlockDeviceAIO defines the type of asynchronous I/O the block device should use.
type BlockDeviceAIO string

// BlockDeviceFormat defines the image format used on a block device.
type BlockDeviceFormat string

const (
	// NoInterface for block devices with no interfaces.
	NoInterface BlockDeviceInterface = "none"

	// SCSI represents a SCSI block device interface.
	SCSI BlockDeviceInterface = "scsi"

	PFlashInterface BlockDeviceInterface = "pflash"
)

const (
	// Threads is the pthread asynchronous I/O implementation.
	Threads BlockDeviceAIO = "threads"

	// Native is the Linux native asynchronous I/O implementation.
	Native BlockDeviceAIO = "native"
)

const (
	// QCOW2 is the Qemu Copy On Write v2 image format.
	QCOW2 BlockDeviceFormat = "qcow2"
	// RAW is the direct indexing image format
	RAW BlockDeviceFormat = "raw"
)

// SourceProtocol names a network block storage protocol a disk's source can
// address instead of a local file.
type SourceProtocol string

const (
	// SourceProtocolFile is the zero value: a local file or block device.
	SourceProtocolFile   SourceProtocol = ""
	SourceProtocolNBD    SourceProtocol = "nbd"
	SourceProtocolRBD    SourceProtocol = "rbd"
	SourceProtocolGluster SourceProtocol = "gluster"
	SourceProtocolISCSI  SourceProtocol = "iscsi"
	SourceProtocolSheepdog SourceProtocol = "sheepdog"
)

// NetworkSource is a disk's network-protocol source. Host/Port/Path are
// protocol-specific: nbd and rbd use their own bare legacy spellings, the
// rest build a full URI.
type NetworkSource struct {
	Protocol  SourceProtocol
	Transport string
	User      string
	Host      string
	Port      string
	Path      string
}

// uri renders the network source as the file=<...> value qemu expects: the
// bare legacy forms for nbd/rbd, a full "scheme[+transport]://" URI for
// everything else.
func (n NetworkSource) uri() string {
	switch n.Protocol {
	case SourceProtocolNBD:
		if n.Transport == "unix" {
			return fmt.Sprintf("nbd:unix:%s", n.Path)
		}
		return fmt.Sprintf("nbd:%s:%s", n.Host, n.Port)
	case SourceProtocolRBD:
		return fmt.Sprintf("rbd:%s", n.Path)
	default:
		scheme := string(n.Protocol)
		if n.Transport != "" {
			scheme += "+" + n.Transport
		}
		userinfo := ""
		if n.User != "" {
			userinfo = n.User + "@"
		}
		return fmt.Sprintf("%s://%s%s:%s/%s", scheme, userinfo, n.Host, n.Port, n.Path)
	}
}

// BlockDeviceGeometry is the CHS geometry a disk can advertise to the guest.
type BlockDeviceGeometry struct {
	Cyls  uint
	Heads uint
	Secs  uint
	Trans string
}

// BlockDeviceIOThrottle is the bps/iops throttling knobs for a disk.
type BlockDeviceIOThrottle struct {
	BPS    uint64
	BPSRd  uint64
	BPSWr  uint64
	IOPS   uint64
	IOPSRd uint64
	IOPSWr uint64
}

// serialPattern is the character set a disk serial is allowed to use.
var serialPattern = regexp.MustCompile(`^[A-Za-z0-9_-]*$`)

// BlockDevice represents a qemu block device.
type BlockDevice struct {
	DeviceInfo

	Driver    DeviceDriver         `yaml:"driver"`
	ID        string               `yaml:"id"`
	File      string               `yaml:"file"`
	Interface BlockDeviceInterface `yaml:"interface"`
	AIO       BlockDeviceAIO       `yaml:"aio"`
	Format    BlockDeviceFormat    `yaml:"format"`
	SCSI      bool                 `yaml:"scsi"`
	WCE       bool                 `yaml:"write-cache"`
	BootIndex *int                 `yaml:"bootindex"`

	// Network, when set, makes this disk's source a network-protocol URI
	// instead of File.
	Network *NetworkSource `yaml:"network,omitempty"`

	// VFATDir wraps a host directory as a read-only virtual FAT block
	// device (file=fat:<dir>). Mutually exclusive with File and Network.
	VFATDir string `yaml:"vfat-dir,omitempty"`

	// Media is a hint about the what type of content on the disk, e.g media=cdrom
	Media string `yaml:"media"`

	// BlockSize is the linux kernel block {physical,logical}_block_size value
	BlockSize int `yaml:"blocksize-bytes"`

	// RotationRate is the linux kernel block rotation_rate value
	RotationRate int `yaml:"rotation-rate"`

	// BusAddr is the bus address for some block devices (virtio-blk-pci)
	BusAddr string `yaml:"busaddr"`

	Bus string `yaml:"bus"`

	// Serial is the disk serial value. Only [A-Za-z0-9_-] is accepted.
	Serial string `yaml:"serial"`

	// WWN is the World Wide Name identifier; a bare hex value is prefixed
	// with 0x.
	WWN string `yaml:"wwn,omitempty"`

	// Vendor and Product set the SCSI INQUIRY vendor/product strings.
	Vendor  string `yaml:"vendor,omitempty"`
	Product string `yaml:"product,omitempty"`

	// Geometry is the disk's advertised CHS geometry.
	Geometry BlockDeviceGeometry `yaml:"geometry,omitempty"`

	// Cache mode for the disk
	Cache CacheMode `yaml:"cache-mode"`

	// CopyOnRead enables copy-on-read semantics for the drive.
	CopyOnRead bool `yaml:"copy-on-read,omitempty"`

	// WError and RError set the on-write/on-read error policy
	// (report/ignore/enospc/stop/auto). WError="enospc" collapses RError
	// into it rather than emitting a separate rerror=.
	WError string `yaml:"werror,omitempty"`
	RError string `yaml:"rerror,omitempty"`

	// IOThrottle sets the bps/iops throttling knobs.
	IOThrottle BlockDeviceIOThrottle `yaml:"iotune,omitempty"`

	// BusID/UnitID/Index identify the drive on a legacy bus when no -device
	// line is emitted (DriveOnly); Index takes the "index=" spelling when
	// BusID/UnitID aren't both set.
	BusID  *int `yaml:"bus-id,omitempty"`
	UnitID *int `yaml:"unit-id,omitempty"`
	Index  *int `yaml:"index,omitempty"`

	// SGIO requests the "device=lun" SCSI passthrough knob; only honored
	// when the capability set allows it and the source qualifies.
	SGIO bool `yaml:"sgio,omitempty"`

	// DisableModern prevents qemu from relying on fast MMIO.
	DisableModern bool `yaml:"disable-modern"`

	// ROMFile specifies the ROM file being used for this device.
	ROMFile string `yaml:"rom-file"`

	// DevNo identifies the ccw devices for s390x architecture
	DevNo string `yaml:"ccw-dev-no"`

	// ShareRW enables multiple qemu instances to share the File
	ShareRW bool `yaml:"share-rw"`

	// ReadOnly sets the block device in readonly mode
	ReadOnly bool `yaml:"read-only"`

	// Transport is the virtio transport for this device.
	Transport VirtioTransport `yaml:"transport"`

	Discard DiscardMode `yaml:"discard-mode"`

	DetectZeroes DetectZeroesMode `yaml:"detect-zeros-mode"`

	// DriveOnly is a boolean to skip any -device paramters
	// This is currently used for OVMF/UEFI pflash disk only devices
	DriveOnly bool `yaml:"emit-drive-only"`
}

// VirtioBlockTransport is a map of the virtio-blk device name that corresponds
// to each transport.
var VirtioBlockTransport = map[VirtioTransport]string{
	TransportPCI:  "virtio-blk-pci",
	TransportCCW:  "virtio-blk-ccw",
	TransportMMIO: "virtio-blk-device",
}

// Kind identifies this as a disk device for the alias and address allocator
// passes.
func (blkdev *BlockDevice) Kind() DeviceKind { return KindDisk }

// PCIClass reports whether this disk rides the virtio-blk-pci transport, the
// distinction the PCI auto-assign pass's "virtio disks" class checks for.
func (blkdev *BlockDevice) PCIClass() string {
	if blkdev.Driver == VirtioBlock && blkdev.Transport.isVirtioPCI(nil) {
		return "virtio-disk"
	}
	return ""
}

// driveID is the identifier shared between this disk's -drive and -device
// lines, preferring the alias allocator's output over the caller-supplied ID
// per the "id=drive-<alias>" identity scheme.
func (blkdev BlockDevice) driveID() string {
	if blkdev.Alias != "" {
		return "drive-" + blkdev.Alias
	}
	return blkdev.ID
}

// Valid returns nil if the BlockDevice structure is valid and complete.
func (blkdev BlockDevice) Valid() error {
	if blkdev.ID == "" && blkdev.Alias == "" {
		return fmt.Errorf("BlockDevice missing ID")
	}
	if blkdev.Driver == "" && !blkdev.DriveOnly {
		return fmt.Errorf("BlockDevice ID=%s missing Driver", blkdev.ID)
	}
	if blkdev.File == "" && blkdev.Network == nil && blkdev.VFATDir == "" {
		return fmt.Errorf("BlockDevice ID=%s missing File", blkdev.ID)
	}
	if blkdev.VFATDir != "" && !blkdev.ReadOnly {
		return fmt.Errorf("BlockDevice ID=%s vfat directory source must be read-only", blkdev.ID)
	}
	if blkdev.Interface == "" && blkdev.DriveOnly {
		return fmt.Errorf("BlockDevice ID=%s missing Interface", blkdev.ID)
	}
	if blkdev.Format == "" {
		return fmt.Errorf("BlockDevice ID=%s missing Format", blkdev.ID)
	}
	if blkdev.RotationRate > 0 && strings.HasPrefix(string(blkdev.Driver), "virtio") {
		return fmt.Errorf("BlockDevice ID=%s with RotationRate cannot be Driver=virtio*", blkdev.ID)
	}
	if blkdev.Serial != "" && !serialPattern.MatchString(blkdev.Serial) {
		return fmt.Errorf("BlockDevice ID=%s serial %q contains characters outside [A-Za-z0-9_-]", blkdev.ID, blkdev.Serial)
	}

	return nil
}

// cacheParam maps the disk's logical cache mode to the concrete qemu cache=
// value, consulting the v1/v2 table §4.6 specifies: v1 qemu builds only
// understand on/off, so writethrough/directsync/unsafe downgrade to off
// there, while a v2 build takes the mode name directly.
func (blkdev BlockDevice) cacheParam(caps *CapabilitySet) string {
	v2 := caps.Has(CapDriveCacheV2)
	switch blkdev.Cache {
	case CacheModeNone:
		if v2 {
			return "none"
		}
		return "off"
	case CacheModeWriteThrough:
		if v2 {
			return "writethrough"
		}
		return "off"
	case CacheModeWriteBack:
		if v2 {
			return "writeback"
		}
		return "on"
	case CacheModeDirectSync:
		if v2 {
			return "directsync"
		}
		return "off"
	case CacheModeUnsafe:
		if v2 {
			return "unsafe"
		}
		return "off"
	default:
		return ""
	}
}

// sourceFile resolves the drive's file= value: a network protocol URI, a
// read-only vfat directory wrapper, or the plain local path/block device.
func (blkdev BlockDevice) sourceFile() string {
	switch {
	case blkdev.Network != nil:
		return blkdev.Network.uri()
	case blkdev.VFATDir != "":
		return "fat:" + blkdev.VFATDir
	default:
		return blkdev.File
	}
}

// FIXME: this should use -blockdev, instead of -drive
// QemuParams returns the qemu parameters built out of this block device.
func (blkdev BlockDevice) QemuParams(config *Config) []string {
	drive := NewArgBuilder("")
	drive.AddEscaped("file", blkdev.sourceFile())
	id := blkdev.driveID()

	// Identity: id=drive-<alias> when a -device line follows; otherwise the
	// legacy bus/unit or index addressing, matching §4.6's "else bus=.../
	// index=" fallback.
	iface := blkdev.Interface
	if !blkdev.DriveOnly {
		iface = NoInterface
		drive.AddLiteral("id", id)
	} else if blkdev.BusID != nil && blkdev.UnitID != nil {
		drive.AddLiteral("bus", strconv.Itoa(*blkdev.BusID))
		drive.AddLiteral("unit", strconv.Itoa(*blkdev.UnitID))
	} else if blkdev.Index != nil {
		drive.AddLiteral("index", strconv.Itoa(*blkdev.Index))
	} else {
		drive.AddLiteral("id", id)
	}
	drive.AddLiteral("if", string(iface))
	drive.AddLiteral("format", string(blkdev.Format))
	drive.AddLiteral("media", blkdev.Media)

	if blkdev.BootIndex != nil {
		drive.AddLiteral("bootindex", strconv.Itoa(*blkdev.BootIndex))
	}
	if blkdev.BlockSize > 0 {
		drive.AddLiteral("logical_block_size", strconv.Itoa(blkdev.BlockSize))
		drive.AddLiteral("physical_block_size", strconv.Itoa(blkdev.BlockSize))
	}
	if blkdev.WWN != "" {
		wwn := blkdev.WWN
		if !strings.HasPrefix(wwn, "0x") {
			wwn = "0x" + wwn
		}
		drive.AddLiteral("wwn", wwn)
	}
	drive.AddEscaped("vendor", blkdev.Vendor)
	drive.AddEscaped("product", blkdev.Product)
	if blkdev.Geometry.Cyls > 0 {
		drive.AddLiteral("cyls", strconv.FormatUint(uint64(blkdev.Geometry.Cyls), 10))
	}
	if blkdev.Geometry.Heads > 0 {
		drive.AddLiteral("heads", strconv.FormatUint(uint64(blkdev.Geometry.Heads), 10))
	}
	if blkdev.Geometry.Secs > 0 {
		drive.AddLiteral("secs", strconv.FormatUint(uint64(blkdev.Geometry.Secs), 10))
	}
	drive.AddLiteral("trans", blkdev.Geometry.Trans)
	if blkdev.Serial != "" {
		drive.AddLiteral("serial", blkdev.Serial)
	}
	if cache := blkdev.cacheParam(config.Caps); cache != "" {
		drive.AddLiteral("cache", cache)
	}
	if blkdev.CopyOnRead {
		drive.AddLiteral("copy-on-read", "on")
	}
	drive.AddLiteral("discard", string(blkdev.Discard))
	drive.AddLiteral("detect-zeroes", string(blkdev.DetectZeroes))
	if blkdev.WError != "" {
		drive.AddLiteral("werror", blkdev.WError)
		if blkdev.WError != "enospc" {
			drive.AddLiteral("rerror", blkdev.RError)
		}
	} else {
		drive.AddLiteral("rerror", blkdev.RError)
	}
	drive.AddLiteral("aio", string(blkdev.AIO))
	if blkdev.IOThrottle.BPS > 0 {
		drive.AddLiteral("bps", strconv.FormatUint(blkdev.IOThrottle.BPS, 10))
	}
	if blkdev.IOThrottle.BPSRd > 0 {
		drive.AddLiteral("bps_rd", strconv.FormatUint(blkdev.IOThrottle.BPSRd, 10))
	}
	if blkdev.IOThrottle.BPSWr > 0 {
		drive.AddLiteral("bps_wr", strconv.FormatUint(blkdev.IOThrottle.BPSWr, 10))
	}
	if blkdev.IOThrottle.IOPS > 0 {
		drive.AddLiteral("iops", strconv.FormatUint(blkdev.IOThrottle.IOPS, 10))
	}
	if blkdev.IOThrottle.IOPSRd > 0 {
		drive.AddLiteral("iops_rd", strconv.FormatUint(blkdev.IOThrottle.IOPSRd, 10))
	}
	if blkdev.IOThrottle.IOPSWr > 0 {
		drive.AddLiteral("iops_wr", strconv.FormatUint(blkdev.IOThrottle.IOPSWr, 10))
	}
	if blkdev.ReadOnly {
		drive.AddKeyword("readonly=on")
	}

	qemuParams := []string{"-drive", drive.String()}

	// for DriveOnly blockdev devices, no need for -device params
	if blkdev.DriveOnly {
		return qemuParams
	}

	device := NewArgBuilder(blkdev.deviceName(config))
	device.AddLiteral("id", blkdev.Alias)
	device.AddLiteral("drive", id)

	if blkdev.SGIO && config.Caps.Has(CapSgIO) && (blkdev.Network != nil || blkdev.Driver == SCSIHD) {
		device.AddKeyword("device=lun")
	}

	if blkdev.Driver == VirtioBlock {
		if s := blkdev.Transport.disableModern(config, blkdev.DisableModern); s != "" {
			device.AddKeyword(s)
		}

		// virtio can have a BusAddr since they are pci devices
		addr := config.legacyPCISlot(blkdev.BusAddr)
		if addr > 0 {
			device.AddLiteral("addr", fmt.Sprintf("0x%02x", addr))
			bus := "pcie.0"
			if blkdev.Bus != "" {
				bus = blkdev.Bus
			}
			device.AddLiteral("bus", bus)
		}
	}

	if blkdev.Driver == SCSIHD && blkdev.Bus != "" {
		device.AddLiteral("bus", blkdev.Bus)
	}

	if blkdev.Driver == IDECDROM {
		bus := "ide.0"
		if blkdev.Bus != "" {
			bus = blkdev.Bus
		}
		device.AddLiteral("bus", bus)
	}

	if blkdev.RotationRate > 0 && !strings.HasPrefix(string(blkdev.Driver), "virtio") {
		device.AddLiteral("rotation_rate", strconv.Itoa(blkdev.RotationRate))
	}

	if !blkdev.SCSI && blkdev.Driver != IDECDROM {
		device.AddKeyword("scsi=off")
	}

	if !blkdev.WCE && blkdev.Driver == VirtioBlock {
		device.AddKeyword("config-wce=off")
	}

	if blkdev.Transport.isVirtioPCI(config) && blkdev.ROMFile != "" {
		device.AddLiteral("romfile", blkdev.ROMFile)
	}

	if blkdev.Transport.isVirtioCCW(config) {
		device.AddLiteral("devno", blkdev.DevNo)
	}

	if blkdev.ShareRW {
		device.AddKeyword("share-rw=on")
	}

	qemuParams = append(qemuParams, "-device", device.String())

	return qemuParams
}

// deviceName returns the QEMU device name for the current combination of
// driver and transport.
func (blkdev BlockDevice) deviceName(config *Config) string {
	if blkdev.Transport == "" {
		blkdev.Transport = blkdev.Transport.defaultTransport(config)
	}

	switch blkdev.Driver {
	case VirtioBlock:
		return VirtioBlockTransport[blkdev.Transport]
	}

	return string(blkdev.Driver)
}
