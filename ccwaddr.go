package qcli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ccwCssid is the fixed channel subsystem id every CCW address in this
// module uses; s390 guests only ever see one css under QEMU.
const ccwCssid uint8 = 0xfe

// CCWAddressSet is the s390 CCW allocator: a set of "cssid.ssid.devno"
// strings plus a round-robin cursor, generalizing qemuindex.go's
// cursor-advance-and-wrap idiom from a bitset of small integers to the
// 16-bit devno space.
type CCWAddressSet struct {
	used map[CCWAddr]bool
	next uint32
}

// NewCCWAddressSet returns an empty allocator starting at devno 0.
func NewCCWAddressSet() *CCWAddressSet {
	return &CCWAddressSet{used: make(map[CCWAddr]bool)}
}

// Reserve validates and records an explicit CCW address.
func (s *CCWAddressSet) Reserve(addr CCWAddr) error {
	if addr.Cssid != ccwCssid {
		return newErr(AddressConflict, addr.String(), "cssid must be 0x%x", ccwCssid)
	}
	if s.used[addr] {
		return newErr(AddressConflict, addr.String(), "devno already in use")
	}
	s.used[addr] = true
	log.Debugf("CCW AddressSet: reserved %s", addr.String())
	return nil
}

// Release frees addr and rewinds the cursor to it if it precedes the
// current cursor, so a freed low devno is reused before advancing further.
func (s *CCWAddressSet) Release(addr CCWAddr) {
	delete(s.used, addr)
	if uint32(addr.Devno) < s.next {
		s.next = uint32(addr.Devno)
	}
}

// AutoAssign returns the next free devno starting at the cursor and wrapping
// at 0xFFFF back to 0, failing with AddressExhausted if the full 16-bit
// space is occupied.
func (s *CCWAddressSet) AutoAssign() (CCWAddr, error) {
	for i := uint32(0); i <= 0xFFFF; i++ {
		devno := (s.next + i) % 0x10000
		addr := CCWAddr{Cssid: ccwCssid, Ssid: 0, Devno: uint16(devno)}
		if !s.used[addr] {
			if err := s.Reserve(addr); err != nil {
				return CCWAddr{}, err
			}
			s.next = (devno + 1) % 0x10000
			return addr, nil
		}
	}
	return CCWAddr{}, newErr(AddressExhausted, "", "no free CCW devno in cssid 0x%x", ccwCssid)
}

// ParseCCWAddr parses a "cssid.ssid.devno" string as produced by
// CCWAddr.String, for use by the inverse parser.
func ParseCCWAddr(s string) (CCWAddr, error) {
	var cssid, ssid, devno uint64
	n, err := fmt.Sscanf(s, "%x.%x.%x", &cssid, &ssid, &devno)
	if err != nil || n != 3 {
		return CCWAddr{}, newErr(ProtocolParse, s, "malformed CCW address")
	}
	return CCWAddr{Cssid: uint8(cssid), Ssid: uint8(ssid), Devno: uint16(devno)}, nil
}
