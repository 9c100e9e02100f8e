package bleref

import (
	"testing"

	"github.com/paypal/gatt"
)

func TestUUIDLabelUsesKnownNames(t *testing.T) {
	if got := UUIDLabel(0x180F); got != "0x180F - Battery Service" {
		t.Fatalf("unexpected battery label: %q", got)
	}
	if got := UUIDLabel(0x2A19); got != "0x2A19 - Battery Level" {
		t.Fatalf("unexpected battery level label: %q", got)
	}
	if got := UUIDLabel(0xFFF1); got != "0xFFF1" {
		t.Fatalf("unknown uuid should only be formatted, got %q", got)
	}
}

func TestPropertyLabelsMatchFlagValues(t *testing.T) {
	want := []string{"Read (0x02)", "Write (0x08)", "Notify (0x10)", "Indicate (0x20)"}
	got := PropertyLabels()
	if len(got) != len(want) {
		t.Fatalf("unexpected labels: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("label[%d]=%q want %q", i, got[i], want[i])
		}
	}
	if got := PropertyLabel(gatt.CharWriteNR); got != "Write Without Response (0x04)" {
		t.Fatalf("unexpected write-nr label: %q", got)
	}
}

func TestOpcodeAndChannelLabels(t *testing.T) {
	if got := ATTOpLabel(ATTReadReq); got != "0x0A - Read Request" {
		t.Fatalf("unexpected att label: %q", got)
	}
	if got := ATTOpLabel(0x7F); got != "0x7F" {
		t.Fatalf("unexpected unknown att label: %q", got)
	}
	if got := HCIPacketLabel(HCIACLDataPkt); got != "0x02 - ACL Data" {
		t.Fatalf("unexpected hci label: %q", got)
	}
	if got := CIDLabel(CIDLESMP); got != "0x0006 - Security Manager" {
		t.Fatalf("unexpected cid label: %q", got)
	}
}
