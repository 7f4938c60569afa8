package qcli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ParsePCIAddr parses a "[domain:]bus:slot.function" string as produced by
// PCIAddr.String, for use by the inverse parser.
func ParsePCIAddr(s string) (PCIAddr, error) {
	var domain, bus, slot, fn uint64
	n, err := fmt.Sscanf(s, "%x:%x:%x.%x", &domain, &bus, &slot, &fn)
	if err != nil || n != 4 {
		return PCIAddr{}, newErr(ProtocolParse, s, "malformed PCI address")
	}
	return PCIAddr{Domain: int(domain), Bus: int(bus), Slot: int(slot), Function: int(fn)}, nil
}

// PCI slot/function geometry. Every bus has 32 slots of 8 functions each;
// an AddressSet holds an array of buses, each carrying a full occupancy
// byte per slot, so that a slot can record "function k occupied" for every k in
// [0,7] plus the "0xFF: whole slot reserved" sentinel.
const (
	PCISlotCount     = 32
	PCIFunctionCount = 8
	// PCISlotReserved is the occupancy sentinel meaning "whole slot
	// reserved, multifunction forbidden".
	PCISlotReserved byte = 0xFF
)

// PCIBusModel names the controller model backing a bus, which determines
// its slot range and its PCI vs PCIe connection type.
type PCIBusModel string

const (
	PCIBusModelRoot   PCIBusModel = "pci-root"
	PCIBusModelBridge PCIBusModel = "pci-bridge"
	PCIBusModelPCIeRoot PCIBusModel = "pcie-root"
)

// Bus is one PCI bus's occupancy map: 32 slots, each a byte whose low 8 bits
// record which function numbers are in use, or PCISlotReserved if the whole
// slot is reserved against multifunction use.
type Bus struct {
	Model    PCIBusModel
	occupied [PCISlotCount]byte
	MinSlot  int
	MaxSlot  int
}

// NewBus returns a bus with the standard [1, PCISlotCount-1] slot range;
// slot 0 is reserved for the host bridge on every bus.
func NewBus(model PCIBusModel) *Bus {
	return &Bus{Model: model, MinSlot: 1, MaxSlot: PCISlotCount - 1}
}

func (b *Bus) functionFree(slot, fn int) bool {
	o := b.occupied[slot]
	if o == PCISlotReserved {
		return false
	}
	return o&(1<<uint(fn)) == 0
}

func (b *Bus) markFunction(slot, fn int) {
	b.occupied[slot] |= 1 << uint(fn)
}

// reserveWholeSlot marks the slot with the 0xFF sentinel: no function may
// ever be placed there, matching "mark all eight functions" from §4.4.
func (b *Bus) reserveWholeSlot(slot int) {
	b.occupied[slot] = PCISlotReserved
}

func (b *Bus) slotIsReserved(slot int) bool {
	return b.occupied[slot] == PCISlotReserved
}

// AddressSet is the multi-bus PCI address space an address allocation pass
// works against: an ordered list of Buses plus a round-robin cursor.
type AddressSet struct {
	Buses    []*Bus
	lastAddr PCIAddr
	DryRun   bool
}

// NewAddressSet returns a set with a single pci-root bus (bus 0), the
// starting point for every PCI machine type.
func NewAddressSet(dryRun bool) *AddressSet {
	return &AddressSet{
		Buses:  []*Bus{NewBus(PCIBusModelRoot)},
		DryRun: dryRun,
	}
}

// GrowBus appends a new bus (an implicit pci-bridge, per §4.4 stage 1) and
// returns its index. Only permitted in dry-run mode.
func (s *AddressSet) GrowBus() (int, error) {
	if !s.DryRun {
		return 0, newErr(InternalInconsistency, "", "PCI bus growth is only permitted in dry-run mode")
	}
	s.Buses = append(s.Buses, NewBus(PCIBusModelBridge))
	return len(s.Buses) - 1, nil
}

// Reserve validates and records an explicit PCI address, implementing the
// "validate and record" stage of §4.4. multifunction is the device's
// explicit multifunction='on'/'off' request (TristateUnset if not given).
func (s *AddressSet) Reserve(addr PCIAddr, multifunction Tristate) error {
	if addr.Domain != 0 {
		return newErr(AddressConflict, addr.String(), "PCI domain must be 0")
	}
	if addr.Bus < 0 || addr.Bus >= len(s.Buses) {
		return newErr(AddressConflict, addr.String(), "bus %d does not exist", addr.Bus)
	}
	bus := s.Buses[addr.Bus]
	if addr.Slot < bus.MinSlot || addr.Slot > bus.MaxSlot {
		return newErr(AddressConflict, addr.String(), "slot %d outside range [%d,%d]", addr.Slot, bus.MinSlot, bus.MaxSlot)
	}
	if addr.Function > 7 || addr.Function < 0 {
		return newErr(AddressConflict, addr.String(), "function %d out of range", addr.Function)
	}
	if bus.slotIsReserved(addr.Slot) {
		return newErr(AddressConflict, addr.String(), "slot already reserved")
	}

	slotInUse := bus.occupied[addr.Slot] != 0
	if addr.Function == 0 && multifunction != TristateOn && slotInUse {
		return newErr(AddressConflict, addr.String(),
			"function 0 requires multifunction='on' because other functions of this slot are already in use")
	}

	if !bus.functionFree(addr.Slot, addr.Function) {
		return newErr(AddressConflict, addr.String(), "function already in use")
	}

	if addr.Function == 0 && multifunction != TristateOn {
		bus.reserveWholeSlot(addr.Slot)
	} else {
		bus.markFunction(addr.Slot, addr.Function)
	}
	s.lastAddr = addr
	log.Debugf("PCI AddressSet: reserved %s", addr.String())
	return nil
}

// Release clears the function bit for addr. If no function on the slot
// remains occupied afterward, the slot is freed entirely.
func (s *AddressSet) Release(addr PCIAddr) error {
	if addr.Bus < 0 || addr.Bus >= len(s.Buses) {
		return newErr(InternalInconsistency, addr.String(), "bus %d does not exist", addr.Bus)
	}
	bus := s.Buses[addr.Bus]
	if bus.occupied[addr.Slot] == PCISlotReserved {
		bus.occupied[addr.Slot] = 0
		return nil
	}
	bus.occupied[addr.Slot] &^= 1 << uint(addr.Function)
	return nil
}

// AutoAssign finds the next free (slot, function=0) address starting just
// past the cursor, sweeping to the last bus and wrapping from bus 0 slot 1
// back to the original cursor on a full sweep miss. In dry-run mode a full
// sweep miss grows a new bus instead of failing.
func (s *AddressSet) AutoAssign() (PCIAddr, error) {
	start := s.lastAddr
	startBus := start.Bus
	startSlot := start.Slot + 1

	for {
		for busIdx := startBus; busIdx < len(s.Buses); busIdx++ {
			bus := s.Buses[busIdx]
			from := bus.MinSlot
			if busIdx == startBus && startSlot > from {
				from = startSlot
			}
			for slot := from; slot <= bus.MaxSlot; slot++ {
				if bus.functionFree(slot, 0) && !bus.slotIsReserved(slot) {
					addr := PCIAddr{Domain: 0, Bus: busIdx, Slot: slot, Function: 0}
					if err := s.Reserve(addr, TristateUnset); err != nil {
						return PCIAddr{}, err
					}
					return addr, nil
				}
			}
			startSlot = bus.MinSlot
		}

		if s.DryRun {
			if _, err := s.GrowBus(); err != nil {
				return PCIAddr{}, err
			}
			startBus = len(s.Buses) - 1
			startSlot = s.Buses[startBus].MinSlot
			continue
		}

		// Non-dry-run miss: wrap from bus 0 slot 1 back around to the
		// original cursor before giving up, so a released lower slot (e.g.
		// from a hot-unplug) is picked up again rather than only ever
		// growing forward from lastAddr.
		for busIdx := 0; busIdx <= start.Bus; busIdx++ {
			bus := s.Buses[busIdx]
			to := bus.MaxSlot
			if busIdx == start.Bus {
				to = start.Slot
			}
			for slot := bus.MinSlot; slot <= to; slot++ {
				if bus.functionFree(slot, 0) && !bus.slotIsReserved(slot) {
					addr := PCIAddr{Domain: 0, Bus: busIdx, Slot: slot, Function: 0}
					if err := s.Reserve(addr, TristateUnset); err != nil {
						return PCIAddr{}, err
					}
					return addr, nil
				}
			}
		}

		return PCIAddr{}, newErr(AddressExhausted, "", "no free PCI slot on any bus")
	}
}

// reserveUSB2Companion finds one free slot via the cursor and reserves
// functions 7/0/1/2 on it, multifunction=on on function 0, implementing the
// ICH9 EHCI/UHCI companion quartet placement from §4.4 stage 3.
//
// Open question resolution (DESIGN.md #1): a failed reservation anywhere in
// the quartet is treated as fatal rather than silently skipped, which is the
// conservative reading of the ambiguous predicate named in the distilled
// spec's design notes.
func (s *AddressSet) reserveUSB2Companion() (PCIAddr, error) {
	probe, err := s.AutoAssign()
	if err != nil {
		return PCIAddr{}, err
	}
	if err := s.Release(probe); err != nil {
		return PCIAddr{}, err
	}

	order := []int{0, 1, 2, 7}
	for _, fn := range order {
		addr := PCIAddr{Domain: 0, Bus: probe.Bus, Slot: probe.Slot, Function: fn}
		mf := TristateUnset
		if fn == 0 {
			mf = TristateOn
		}
		if err := s.Reserve(addr, mf); err != nil {
			return PCIAddr{}, fmt.Errorf("USB2 companion quartet at slot %d: %w", probe.Slot, err)
		}
	}
	base := PCIAddr{Domain: 0, Bus: probe.Bus, Slot: probe.Slot, Function: 0}
	return base, nil
}
