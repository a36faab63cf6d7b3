package circuit

import "github.com/fyerfyer/druid-atpg/pkg/tvec"

// GateType represents the type of a primitive logic gate
type GateType int

const (
	C0   GateType = iota // Constant 0
	C1                   // Constant 1
	Buff                 // Buffer gate
	Not
	And
	Nand
	Or
	Nor
	Xor
	Xnor
)

// String returns a string representation of the gate type
func (gt GateType) String() string {
	switch gt {
	case C0:
		return "C0"
	case C1:
		return "C1"
	case Buff:
		return "BUF"
	case Not:
		return "NOT"
	case And:
		return "AND"
	case Nand:
		return "NAND"
	case Or:
		return "OR"
	case Nor:
		return "NOR"
	case Xor:
		return "XOR"
	case Xnor:
		return "XNOR"
	default:
		return "UNKNOWN"
	}
}

// CVal returns the controlling input value for the gate type
// (0 for AND/NAND, 1 for OR/NOR); ok is false for gates without one
func (gt GateType) CVal() (tvec.Val3, bool) {
	switch gt {
	case And, Nand:
		return tvec.Val0, true
	case Or, Nor:
		return tvec.Val1, true
	default:
		return tvec.ValX, false
	}
}

// COVal returns the output value produced by a controlling input
func (gt GateType) COVal() (tvec.Val3, bool) {
	switch gt {
	case And, Nor:
		return tvec.Val0, true
	case Nand, Or:
		return tvec.Val1, true
	default:
		return tvec.ValX, false
	}
}

// NVal returns the non-controlling input value for the gate type
func (gt GateType) NVal() (tvec.Val3, bool) {
	switch gt {
	case And, Nand:
		return tvec.Val1, true
	case Or, Nor:
		return tvec.Val0, true
	default:
		return tvec.ValX, false
	}
}

// Inverting returns true if the gate inverts the controlled/folded value
func (gt GateType) Inverting() bool {
	switch gt {
	case Not, Nand, Nor, Xnor:
		return true
	default:
		return false
	}
}

// ParseGateType maps a netlist type name to a gate type
func ParseGateType(name string) (GateType, bool) {
	switch name {
	case "C0", "GND":
		return C0, true
	case "C1", "VDD":
		return C1, true
	case "BUF", "BUFF":
		return Buff, true
	case "NOT", "INV":
		return Not, true
	case "AND":
		return And, true
	case "NAND":
		return Nand, true
	case "OR":
		return Or, true
	case "NOR":
		return Nor, true
	case "XOR":
		return Xor, true
	case "XNOR":
		return Xnor, true
	default:
		return C0, false
	}
}
