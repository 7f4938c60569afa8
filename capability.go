package qcli

// CapFlag is a named emulator feature flag. The universe is an open
// enumeration: unknown flags default to absent, so callers can probe for
// flags this module has never heard of without special-casing them.
type CapFlag string

const (
	CapDevice           CapFlag = "DEVICE"
	CapDrive            CapFlag = "DRIVE"
	CapNetdev           CapFlag = "NETDEV"
	CapVnetHdr          CapFlag = "VNET_HDR"
	CapVirtioCCW        CapFlag = "VIRTIO_CCW"
	CapPCIMultibus      CapFlag = "PCI_MULTIBUS"
	CapDevicePCIBridge  CapFlag = "DEVICE_PCI_BRIDGE"
	CapVfioPCI          CapFlag = "VFIO_PCI"
	CapBootindex        CapFlag = "BOOTINDEX"
	CapNoShutdown       CapFlag = "NO_SHUTDOWN"
	CapSeccompSandbox   CapFlag = "SECCOMP_SANDBOX"
	CapMlock            CapFlag = "MLOCK"
	CapDumpGuestCore    CapFlag = "DUMP_GUEST_CORE"
	CapSpice            CapFlag = "SPICE"
	CapVncColon         CapFlag = "VNC_COLON"
	CapSgIO             CapFlag = "SG_IO"
	CapDriveCacheV2     CapFlag = "DRIVE_CACHE_V2"
	CapDeviceUSB3       CapFlag = "DEVICE_USB3"
	CapICH9AHCI         CapFlag = "ICH9_AHCI"
	CapDeviceQXL        CapFlag = "DEVICE_QXL"
	CapCPUTopology      CapFlag = "CPU_TOPOLOGY"
)

// CapabilitySet is a read-only bag of named emulator feature flags. It is
// built once by a collaborator that has probed the emulator (outside this
// module's scope) and is safe for concurrent reads thereafter.
type CapabilitySet struct {
	flags map[CapFlag]struct{}
}

// NewCapabilitySet builds a CapabilitySet containing the given flags.
func NewCapabilitySet(flags ...CapFlag) *CapabilitySet {
	cs := &CapabilitySet{flags: make(map[CapFlag]struct{}, len(flags))}
	for _, f := range flags {
		cs.flags[f] = struct{}{}
	}
	return cs
}

// Has reports whether the flag is present. A nil CapabilitySet has no flags.
func (cs *CapabilitySet) Has(flag CapFlag) bool {
	if cs == nil {
		return false
	}
	_, ok := cs.flags[flag]
	return ok
}

// requireCap returns a ConfigUnsupported error naming the knob if the flag is
// absent, nil otherwise.
func requireCap(cs *CapabilitySet, flag CapFlag, knob string) error {
	if cs.Has(flag) {
		return nil
	}
	return newErr(ConfigUnsupported, knob, "requires capability %s", flag)
}
