package qcli

import "testing"

func TestAppendNVRAMDevice(t *testing.T) {
	n := NVRAMDevice{File: "/var/lib/guest0/nvram"}
	n.Alias = "nvram0"
	testAppend(n, "-device spapr-nvram,id=nvram0,file=/var/lib/guest0/nvram", t)
}

func TestNVRAMDeviceEmitsReg(t *testing.T) {
	n := NVRAMDevice{}
	n.Alias = "nvram0"
	n.Address = Address{Type: AddressSPAPRVIO, SPAPRVIO: SPAPRVIOAddr{Reg: 0x3000, HasReg: true}}
	testAppend(n, "-device spapr-nvram,id=nvram0,reg=0x3000", t)
}
