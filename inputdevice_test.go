package qcli

import "testing"

func TestAppendInputDevice(t *testing.T) {
	in := InputDevice{Driver: InputVirtioTablet, Bus: "usb.0"}
	in.Alias = "input0"
	testAppend(in, "-device virtio-tablet-pci,id=input0,bus=usb.0", t)
}

func TestInputDeviceValidRequiresDriver(t *testing.T) {
	in := InputDevice{}
	if err := in.Valid(); err == nil {
		t.Fatalf("expected empty driver to be invalid")
	}
}
