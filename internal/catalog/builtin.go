package catalog

import (
	"fmt"
	"sync"

	"github.com/danmuck/blestack/internal/bleref"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in BLE catalog rooted at the Link Layer. GATT is
// modeled as a byte-level PDU whose characteristic value is the final payload.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = MustNew(DefaultRoot, DefaultLayers()...)
	})
	return defaultCatalog
}

func fixed(name, desc, color string, bits int, values ...string) Field {
	return Field{
		Name:        name,
		Description: desc,
		Color:       color,
		BitWidth:    bits,
		ByteWidth:   float64(bits) / 8,
		Values:      values,
	}
}

func variable(name, desc, color string, values ...string) Field {
	return Field{Name: name, Description: desc, Color: color, Values: values}
}

func payload(target LayerID, name, desc string) Field {
	return Field{
		Name:          name,
		Description:   desc,
		Color:         "gray",
		Encapsulating: true,
		Target:        target,
	}
}

// DefaultLayers returns fresh copies of the built-in layer descriptors, top
// of stack first.
func DefaultLayers() []Layer {
	return []Layer{
		{
			ID:          LayerApplication,
			Name:        "Application",
			FullName:    "Application Layer",
			Description: "User defined applications and business logic built on top of GATT and GAP.",
			Color:       "indigo",
			Position:    7,
			Functions: []string{
				"Business logic",
				"Application data processing",
				"User interface interaction",
				"Device feature definition",
			},
			Commands: []Command{
				{Name: "Custom_Service_Read", Description: "Read a custom service value"},
				{Name: "Custom_Service_Write", Description: "Write a custom service value"},
				{Name: "Application_Event", Description: "Handle an application event"},
				{Name: "User_Interface_Update", Description: "Refresh the user interface"},
			},
			Fields: []Field{
				variable("App Header", "Application defined header", "indigo"),
				variable("App Data", "Application payload", "indigo"),
				variable("App Footer", "Application defined trailer", "indigo"),
			},
		},
		{
			ID:          LayerGATT,
			Name:        "GATT",
			FullName:    "Generic Attribute Profile",
			Title:       "GATT (Generic Attribute Profile)",
			Description: "Framework for exchanging data between BLE devices as services and characteristics over ATT; the topmost protocol layer.",
			Color:       "blue",
			Position:    6,
			Functions: []string{
				"Service and characteristic discovery",
				"Attribute read and write procedures",
				"Notifications and indications",
				"Client and server role management",
			},
			Commands: []Command{
				{Name: "Discover_All_Primary_Services", Description: "Discover all primary services"},
				{Name: "Read_Characteristic_Value", Description: "Read a characteristic value"},
				{Name: "Write_Characteristic_Value", Description: "Write a characteristic value"},
				{Name: "Handle_Value_Notification", Description: "Push a value to a subscribed client"},
			},
			Fields: []Field{
				fixed("Service UUID", "Identifies the service and the feature set it exposes", "blue", 16,
					bleref.UUIDLabels(0x1800, 0x1801, 0x180F)...),
				fixed("Characteristic UUID", "Identifies the characteristic data type", "green", 16,
					bleref.UUIDLabels(0x2A00, 0x2A01, 0x2A19)...),
				fixed("Properties", "Characteristic property bit field", "yellow", 8,
					bleref.PropertyLabels()...),
				fixed("Value Handle", "Attribute handle of the characteristic value", "purple", 16,
					"0x0001-0xFFFF - Handle range"),
				variable("Characteristic Value", "The characteristic data itself; the final user payload", "red",
					"Variable length application data"),
			},
		},
		{
			ID:          LayerATT,
			Name:        "ATT",
			FullName:    "Attribute Protocol",
			Title:       "ATT (Attribute Protocol)",
			Description: "Defines attribute PDUs and operations; carried in the L2CAP payload on CID 0x0004.",
			Color:       "green",
			Position:    5,
			Functions: []string{
				"Attribute discovery",
				"Attribute read and write",
				"Error reporting",
				"Permission checks",
			},
			Commands: []Command{
				{Name: "Find_Information_Request", Description: "Find attribute handles and types"},
				{Name: "Read_By_Type_Request", Description: "Read attributes of a given type", Parameters: []string{"Starting Handle", "Ending Handle", "Attribute Type"}},
				{Name: "Write_Request", Description: "Write an attribute and expect a response", Parameters: []string{"Attribute Handle", "Attribute Value"}},
				{Name: "Error_Response", Description: "Report a failed request", Parameters: []string{"Request Opcode", "Attribute Handle", "Error Code"}},
			},
			Fields: []Field{
				fixed("Opcode", "Selects the ATT operation", "blue", 8,
					bleref.ATTOpLabel(bleref.ATTErrorRsp),
					bleref.ATTOpLabel(bleref.ATTReadReq),
					bleref.ATTOpLabel(bleref.ATTWriteReq),
					bleref.ATTOpLabel(bleref.ATTHandleValueNtf)),
				fixed("Attribute Handle", "Identifies one attribute on the server", "green", 16,
					"0x0001-0xFFFF - Valid handles"),
				payload(LayerGATT, "GATT Payload", "Open the GATT (Generic Attribute Profile) layer"),
			},
		},
		{
			ID:          LayerSMP,
			Name:        "SMP",
			FullName:    "Security Manager Protocol",
			Description: "Runs beside ATT over L2CAP (CID 0x0006) and handles pairing, key distribution and encryption setup.",
			Color:       "red",
			Position:    4,
			Functions: []string{
				"Pairing and bonding",
				"Key generation and distribution",
				"Encryption and authentication",
				"Privacy",
			},
			Commands: []Command{
				{Name: "Pairing_Request", Description: "Start pairing"},
				{Name: "Pairing_Response", Description: "Answer a pairing request"},
				{Name: "Pairing_Confirm", Description: "Exchange confirm values"},
				{Name: "Pairing_Random", Description: "Exchange random values"},
				{Name: "Encryption_Information", Description: "Distribute the long term key"},
			},
			Fields: []Field{
				fixed("Code", "SMP command code", "red", 8, "0x01 - Pairing Request", "0x02 - Pairing Response"),
				fixed("IO Capability", "Input and output capabilities of the device", "red", 8,
					"0x00 - DisplayOnly", "0x03 - NoInputNoOutput", "0x04 - KeyboardDisplay"),
				fixed("OOB Flag", "Out of band data present", "red", 8),
				fixed("Auth Req", "Bonding, MITM and Secure Connections flags", "red", 8),
				fixed("Key Distribution", "Keys each side will distribute", "red", 8),
			},
		},
		{
			ID:          LayerGAP,
			Name:        "GAP",
			FullName:    "Generic Access Profile",
			Description: "Talks to HCI directly and owns device discovery, advertising and connection management.",
			Color:       "purple",
			Position:    3,
			Functions: []string{
				"Discovery and advertising",
				"Connection establishment and management",
				"Security policy",
				"Role management (Central/Peripheral)",
			},
			Commands: []Command{
				{Name: "LE_Set_Advertising_Enable", Description: "Enable or disable advertising"},
				{Name: "LE_Create_Connection", Description: "Create a connection"},
				{Name: "LE_Connection_Update", Description: "Update connection parameters"},
				{Name: "LE_Disconnect", Description: "Disconnect"},
			},
			Fields: []Field{
				fixed("AD Length", "Length of the AD structure", "purple", 8),
				fixed("AD Type", "Advertising data type", "purple", 8, "0x01 - Flags", "0x09 - Complete Local Name"),
				variable("AD Data", "Advertising data", "purple"),
				variable("Device Name", "Advertised device name", "purple"),
			},
		},
		{
			ID:          LayerL2CAP,
			Name:        "L2CAP",
			FullName:    "Logical Link Control and Adaptation Protocol",
			Title:       "L2CAP (Logical Link Control and Adaptation Protocol)",
			Description: "Segmentation, reassembly and multiplexing of upper layer data; carried in the HCI data payload.",
			Color:       "yellow",
			Position:    2,
			Functions: []string{
				"Segmentation and reassembly",
				"Protocol multiplexing",
				"Flow control",
				"Error detection and retransmission",
			},
			Commands: []Command{
				{Name: "Connection_Request", Description: "Open a channel"},
				{Name: "Configuration_Request", Description: "Negotiate channel configuration"},
				{Name: "Disconnection_Request", Description: "Close a channel"},
				{Name: "Information_Request", Description: "Query supported features"},
			},
			Fields: []Field{
				fixed("Length", "Length of the L2CAP information payload", "blue", 16,
					"0x0000-0xFFFF - Length in bytes"),
				fixed("Channel ID (CID)", "Identifies the destination protocol or channel", "green", 16,
					bleref.CIDLabel(bleref.CIDLEAtt),
					bleref.CIDLabel(bleref.CIDLESignal),
					bleref.CIDLabel(bleref.CIDLESMP)),
				payload(LayerATT, "ATT Payload", "Open the ATT (Attribute Protocol) layer"),
			},
		},
		{
			ID:          LayerHCI,
			Name:        "HCI",
			FullName:    "Host Controller Interface",
			Title:       "HCI (Host Controller Interface)",
			Description: "Standard interface between host and controller; carried in the Link Layer payload.",
			Color:       "orange",
			Position:    1,
			Functions: []string{
				"Command and event transport",
				"Data routing",
				"Flow control",
				"Error reporting",
			},
			Commands: []Command{
				{Name: "LE_Set_Advertising_Parameters", Description: "Configure advertising"},
				{Name: "LE_Set_Scan_Parameters", Description: "Configure scanning"},
				{Name: "LE_Read_Buffer_Size", Description: "Read controller buffer sizes"},
				{Name: "Reset", Description: "Reset the controller"},
			},
			Fields: []Field{
				fixed("Packet Type", "HCI packet indicator", "blue", 4,
					bleref.HCIPacketLabel(bleref.HCICommandPkt),
					bleref.HCIPacketLabel(bleref.HCIACLDataPkt),
					bleref.HCIPacketLabel(bleref.HCIEventPkt)),
				fixed("Handle", "Connection handle of a specific BLE link", "green", 12,
					"0x0000-0x0EFF - Valid handles"),
				fixed("PB Flag", "Packet boundary flag", "yellow", 2,
					"00 - First packet", "01 - Continuing packet"),
				fixed("BC Flag", "Broadcast flag", "purple", 2,
					"00 - Point-to-point", "01 - Active broadcast"),
				fixed("Data Total Length", "Total data length of the ACL packet", "red", 16,
					"0x0000-0xFFFF - Length in bytes"),
				payload(LayerL2CAP, "L2CAP Payload", "Open the L2CAP (Logical Link Control) layer"),
			},
		},
		{
			ID:          LayerLink,
			Name:        "Link Layer",
			FullName:    "Link Layer",
			Description: "RF packet format and link management; the bottom of the BLE stack.",
			Color:       "cyan",
			Position:    0,
			Functions: []string{
				"Connection state management",
				"Packet transmission",
				"Channel hopping",
				"Power management",
			},
			Commands: []Command{
				{Name: "LL_CONNECTION_REQ", Description: "Request a connection"},
				{Name: "LL_DATA_PDU", Description: "Carry upper layer data"},
				{Name: "LL_TERMINATE_IND", Description: "Terminate the connection"},
				{Name: "LL_CHANNEL_MAP_REQ", Description: "Update the channel map"},
			},
			Fields: []Field{
				fixed("Preamble", "Receiver synchronization pattern", "blue", 8,
					"0xAA or 0x55 - Alternating pattern"),
				fixed("Access Address", "Identifies the logical link", "green", 32,
					fmt.Sprintf("0x%08X - Advertising", bleref.AdvertisingAccessAddress),
					"Connection specific - Data"),
				fixed("PDU Header", "Protocol data unit header", "yellow", 16,
					"PDU Type, TxAdd, RxAdd, Length"),
				payload(LayerHCI, "HCI Payload", "Open the HCI (Host Controller Interface) layer"),
				fixed("CRC", "Cyclic redundancy check", "red", 24,
					"24-bit CRC for error detection"),
			},
		},
	}
}
