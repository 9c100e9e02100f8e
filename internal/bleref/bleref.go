// Package bleref produces human readable example values for catalog fields
// from BLE assigned numbers.
package bleref

import (
	"fmt"

	"github.com/go-ble/ble"
	"github.com/paypal/gatt"
)

// HCI packet indicators [Vol 4, Part A, 2].
const (
	HCICommandPkt uint8 = 0x01
	HCIACLDataPkt uint8 = 0x02
	HCISCODataPkt uint8 = 0x03
	HCIEventPkt   uint8 = 0x04
)

// L2CAP channel identifiers for the LE-U logical link [Vol 3, Part A, 2.1].
const (
	CIDLEAtt    uint16 = 0x0004
	CIDLESignal uint16 = 0x0005
	CIDLESMP    uint16 = 0x0006
)

// Advertising access address shared by all advertising channel packets.
const AdvertisingAccessAddress uint32 = 0x8E89BED6

// ATT opcodes shown in the catalog.
const (
	ATTErrorRsp         uint8 = 0x01
	ATTExchangeMTUReq   uint8 = 0x02
	ATTFindInfoReq      uint8 = 0x04
	ATTReadByTypeReq    uint8 = 0x08
	ATTReadReq          uint8 = 0x0A
	ATTReadByGroupReq   uint8 = 0x10
	ATTWriteReq         uint8 = 0x12
	ATTHandleValueNtf   uint8 = 0x1B
	ATTHandleValueInd   uint8 = 0x1D
	ATTWriteCmd         uint8 = 0x52
	ATTSignedWriteCmd   uint8 = 0xD2
	ATTHandleValueConfm uint8 = 0x1E
)

var attOpNames = map[uint8]string{
	ATTErrorRsp:         "Error Response",
	ATTExchangeMTUReq:   "Exchange MTU Request",
	ATTFindInfoReq:      "Find Information Request",
	ATTReadByTypeReq:    "Read By Type Request",
	ATTReadReq:          "Read Request",
	ATTReadByGroupReq:   "Read By Group Type Request",
	ATTWriteReq:         "Write Request",
	ATTHandleValueNtf:   "Handle Value Notification",
	ATTHandleValueInd:   "Handle Value Indication",
	ATTHandleValueConfm: "Handle Value Confirmation",
	ATTWriteCmd:         "Write Command",
	ATTSignedWriteCmd:   "Signed Write Command",
}

var hciPktNames = map[uint8]string{
	HCICommandPkt: "Command",
	HCIACLDataPkt: "ACL Data",
	HCISCODataPkt: "SCO Data",
	HCIEventPkt:   "Event",
}

var cidNames = map[uint16]string{
	CIDLEAtt:    "Attribute Protocol",
	CIDLESignal: "LE Signaling",
	CIDLESMP:    "Security Manager",
}

var propertyNames = []struct {
	prop gatt.Property
	name string
}{
	{gatt.CharBroadcast, "Broadcast"},
	{gatt.CharRead, "Read"},
	{gatt.CharWriteNR, "Write Without Response"},
	{gatt.CharWrite, "Write"},
	{gatt.CharNotify, "Notify"},
	{gatt.CharIndicate, "Indicate"},
	{gatt.CharSignedWrite, "Authenticated Signed Writes"},
	{gatt.CharExtended, "Extended Properties"},
}

// UUIDName returns the SIG name of a 16-bit UUID, or "" when unknown.
func UUIDName(u uint16) string {
	return ble.Name(ble.UUID16(u))
}

// UUIDLabel formats a 16-bit UUID as "0x180F - Battery Service".
func UUIDLabel(u uint16) string {
	if name := UUIDName(u); name != "" {
		return fmt.Sprintf("0x%04X - %s", u, name)
	}
	return fmt.Sprintf("0x%04X", u)
}

// UUIDLabels formats several UUIDs with UUIDLabel.
func UUIDLabels(us ...uint16) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, UUIDLabel(u))
	}
	return out
}

// PropertyLabel formats one characteristic property flag as "Read (0x02)".
func PropertyLabel(p gatt.Property) string {
	for _, entry := range propertyNames {
		if entry.prop == p {
			return fmt.Sprintf("%s (0x%02X)", entry.name, int(p))
		}
	}
	return fmt.Sprintf("0x%02X", int(p))
}

// PropertyLabels formats the commonly used property flags.
func PropertyLabels() []string {
	return []string{
		PropertyLabel(gatt.CharRead),
		PropertyLabel(gatt.CharWrite),
		PropertyLabel(gatt.CharNotify),
		PropertyLabel(gatt.CharIndicate),
	}
}

// ATTOpLabel formats an ATT opcode as "0x0A - Read Request".
func ATTOpLabel(op uint8) string {
	if name, ok := attOpNames[op]; ok {
		return fmt.Sprintf("0x%02X - %s", op, name)
	}
	return fmt.Sprintf("0x%02X", op)
}

// HCIPacketLabel formats an HCI packet indicator as "0x02 - ACL Data".
func HCIPacketLabel(pkt uint8) string {
	if name, ok := hciPktNames[pkt]; ok {
		return fmt.Sprintf("0x%02X - %s", pkt, name)
	}
	return fmt.Sprintf("0x%02X", pkt)
}

// CIDLabel formats an L2CAP channel id as "0x0004 - Attribute Protocol".
func CIDLabel(cid uint16) string {
	if name, ok := cidNames[cid]; ok {
		return fmt.Sprintf("0x%04X - %s", cid, name)
	}
	return fmt.Sprintf("0x%04X", cid)
}
