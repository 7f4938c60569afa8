package qcli

import (
	"fmt"
	"regexp"
	"strconv"
)

// AliasAllocator assigns every device in a domain a stable alias string of
// the form "<prefix><index>", generalizing QemuTypeIndex (qemuindex.go) from
// its three hardcoded classes (bootindex/drive/net) to the full per-class
// prefix table devices require.
type AliasAllocator struct {
	byPrefix QemuTypeIndex
	seen     map[string]bool
}

// NewAliasAllocator returns an allocator with no aliases assigned yet.
func NewAliasAllocator() *AliasAllocator {
	return &AliasAllocator{
		byPrefix: *NewQemuTypeIndex(),
		seen:     make(map[string]bool),
	}
}

var aliasPattern = regexp.MustCompile(`^([A-Za-z_-]+)([0-9]+)$`)

// Seed scans an already-aliased device so that subsequent "next free
// integer" allocations for its prefix start past it, implementing the "scan
// all devices of the same class for aliases matching <prefix><digits>;
// choose max(existing)+1" rule.
func (a *AliasAllocator) Seed(prefix, alias string) error {
	if alias == "" {
		return nil
	}
	if a.seen[alias] {
		return newErr(InternalInconsistency, alias, "alias already in use")
	}
	a.seen[alias] = true

	m := aliasPattern.FindStringSubmatch(alias)
	if m == nil || m[1] != prefix {
		return nil
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	// QemuIndex.Set fails if the index is already present; that is fine,
	// it just means two devices happened to seed the same slot, which Next
	// would have produced anyway.
	_ = a.byPrefix.Set(prefix, idx)
	return nil
}

// Next returns "<prefix><n>" for the next free integer n in that prefix's
// class, and fails if the resulting alias collides with one already seen.
func (a *AliasAllocator) Next(prefix string) (string, error) {
	n := a.byPrefix.Next(prefix)
	alias := fmt.Sprintf("%s%d", prefix, n)
	if a.seen[alias] {
		return "", newErr(InternalInconsistency, alias, "alias conflict while allocating next free index")
	}
	a.seen[alias] = true
	return alias, nil
}

// Assign sets the explicit alias if non-empty and records it as seen,
// otherwise allocates the next free integer for prefix. This is the entry
// point used by the per-class rules in §4.3: singleton classes pass a fixed
// alias ("<prefix>0"), array-position classes pass "<prefix><i>", and
// next-free-integer classes pass "".
func (a *AliasAllocator) Assign(prefix, explicit string) (string, error) {
	if explicit != "" {
		if a.seen[explicit] {
			return "", newErr(InternalInconsistency, explicit, "alias already in use")
		}
		a.seen[explicit] = true
		return explicit, nil
	}
	return a.Next(prefix)
}

// AssignAll walks a domain's devices in collection order and assigns every
// device without an alias one, following the per-class prefix rules of
// §4.3. Devices that already carry an alias are only seeded (so later
// "next free integer" allocations in the same class start past them).
func (a *AliasAllocator) AssignAll(d *Domain) error {
	// First pass: seed from any pre-existing aliases so explicit ones don't
	// get clobbered by a "next free integer" collision.
	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Alias != "" {
			prefix := aliasPrefixForKind(dev.Kind())
			if err := a.Seed(prefix, info.Alias); err != nil {
				return err
			}
		}
	}

	singletonSeen := make(map[DeviceKind]bool)
	arrayPos := make(map[DeviceKind]int)

	for _, dev := range d.Devices {
		info := dev.Info()
		if info.Alias != "" {
			continue
		}
		prefix := aliasPrefixForKind(dev.Kind())

		switch dev.Kind() {
		case KindWatchdog, KindMemballoon, KindRNG, KindTPM, KindNVRAM:
			if singletonSeen[dev.Kind()] {
				return newErr(XmlInvalid, prefix, "at most one %s device is supported", dev.Kind())
			}
			singletonSeen[dev.Kind()] = true
			alias, err := a.Assign(prefix, fmt.Sprintf("%s0", prefix))
			if err != nil {
				return err
			}
			info.Alias = alias
		case KindVideo, KindInput, KindHub, KindSound, KindFS:
			idx := arrayPos[dev.Kind()]
			arrayPos[dev.Kind()]++
			alias, err := a.Assign(prefix, fmt.Sprintf("%s%d", prefix, idx))
			if err != nil {
				return err
			}
			info.Alias = alias
		default:
			alias, err := a.Assign(prefix, "")
			if err != nil {
				return err
			}
			info.Alias = alias
		}
	}
	return nil
}

// aliasPrefixForKind returns the class prefix named in §4.3 for a device
// kind. The prefix is chosen from the kind alone; the device's own
// driver/type name and char role are not consulted.
func aliasPrefixForKind(k DeviceKind) string {
	switch k {
	case KindNet:
		return "net"
	case KindHostdev:
		return "hostdev"
	case KindRedirdev:
		return "redir"
	case KindVideo:
		return "video"
	case KindInput:
		return "input"
	case KindHub:
		return "hub"
	case KindSound:
		return "sound"
	case KindFS:
		return "fs"
	case KindWatchdog:
		return "watchdog"
	case KindMemballoon:
		return "balloon"
	case KindRNG:
		return "rng"
	case KindTPM:
		return "tpm"
	case KindNVRAM:
		return "nvram"
	case KindSerial:
		return "serial"
	case KindParallel:
		return "parallel"
	case KindConsole:
		return "console"
	case KindChannel:
		return "channel"
	case KindSmartcard:
		return "smartcard"
	case KindController:
		return "controller"
	case KindDisk:
		return "disk"
	default:
		return "dev"
	}
}
