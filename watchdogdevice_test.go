package qcli

import "testing"

func TestAppendWatchdogDevice(t *testing.T) {
	w := WatchdogDevice{Model: WatchdogI6300ESB, Action: WatchdogPause}
	w.Alias = "watchdog0"
	testAppend(w, "-device i6300esb,id=watchdog0 -watchdog-action pause", t)
}

func TestWatchdogDevicePCIClassExcludesIB700(t *testing.T) {
	ib700 := WatchdogDevice{Model: WatchdogIB700}
	if ib700.PCIClass() != "ib700" {
		t.Fatalf("expected ib700 PCIClass, got %q", ib700.PCIClass())
	}
}
