package core

// disasm.go renders an instruction word as a mnemonic listing line, grounded
// in the teacher's Instruction.String() convention of formatting the raw
// word alongside a decoded field. It never executes anything; it only
// describes.

import "fmt"

// Disassemble renders inst as a single mnemonic line. Unknown encodings
// render as a raw word with ".word" rather than failing, since a listing
// should never abort on data embedded in a code segment.
func Disassemble(inst Instruction) string {
	switch inst.Opcode() {
	case opLoad:
		return fmt.Sprintf("%-7s %s, %d(%s)", loadMnemonic(inst.Funct3()), inst.RD(), int32(inst.ImmI()), inst.RS1())
	case opStore:
		return fmt.Sprintf("%-7s %s, %d(%s)", storeMnemonic(inst.Funct3()), inst.RS2(), int32(inst.ImmS()), inst.RS1())
	case opImm:
		return fmt.Sprintf("%-7s %s, %s, %d", opImmMnemonic(inst.Funct3(), inst.Funct7()), inst.RD(), inst.RS1(), int32(inst.ImmI()))
	case opImm32:
		return fmt.Sprintf("%-7s %s, %s, %d", "addiw", inst.RD(), inst.RS1(), int32(inst.ImmI()))
	case opOp:
		return fmt.Sprintf("%-7s %s, %s, %s", opMnemonic(inst.Funct3(), inst.Funct7()), inst.RD(), inst.RS1(), inst.RS2())
	case opLUI:
		return fmt.Sprintf("%-7s %s, %#x", "lui", inst.RD(), uint32(inst.ImmU())>>12)
	case opAUIPC:
		return fmt.Sprintf("%-7s %s, %#x", "auipc", inst.RD(), uint32(inst.ImmU())>>12)
	case opBranch:
		return fmt.Sprintf("%-7s %s, %s, %d", branchMnemonic(inst.Funct3()), inst.RS1(), inst.RS2(), int32(inst.ImmB()))
	case opJAL:
		return fmt.Sprintf("%-7s %s, %d", "jal", inst.RD(), int32(inst.ImmJ()))
	case opJALR:
		return fmt.Sprintf("%-7s %s, %d(%s)", "jalr", inst.RD(), int32(inst.ImmI()), inst.RS1())
	case opAMO:
		return fmt.Sprintf("%-7s %s, %s, (%s)", amoMnemonic(inst.Funct5()), inst.RD(), inst.RS2(), inst.RS1())
	case opFence:
		return "fence"
	case opSystem:
		return systemMnemonic(inst)
	default:
		return fmt.Sprintf(".word   %#08x", uint32(inst))
	}
}

func loadMnemonic(funct3 uint32) string {
	switch funct3 {
	case 0b000:
		return "lb"
	case 0b001:
		return "lh"
	case 0b010:
		return "lw"
	case 0b100:
		return "lbu"
	case 0b101:
		return "lhu"
	default:
		return "l?"
	}
}

func storeMnemonic(funct3 uint32) string {
	switch funct3 {
	case 0b000:
		return "sb"
	case 0b001:
		return "sh"
	case 0b010:
		return "sw"
	default:
		return "s?"
	}
}

func opImmMnemonic(funct3, funct7 uint32) string {
	switch funct3 {
	case 0b000:
		return "addi"
	case 0b010:
		return "slti"
	case 0b011:
		return "sltiu"
	case 0b100:
		return "xori"
	case 0b110:
		return "ori"
	case 0b111:
		return "andi"
	case 0b001:
		return "slli"
	case 0b101:
		if funct7 == 0b0100000 {
			return "srai"
		}

		return "srli"
	default:
		return "op?"
	}
}

func opMnemonic(funct3, funct7 uint32) string {
	if funct7 == 0b0000001 {
		switch funct3 {
		case 0b000:
			return "mul"
		case 0b001:
			return "mulh"
		case 0b010:
			return "mulhsu"
		case 0b011:
			return "mulhu"
		case 0b100:
			return "div"
		case 0b101:
			return "divu"
		case 0b110:
			return "rem"
		case 0b111:
			return "remu"
		}
	}

	switch funct3 {
	case 0b000:
		if funct7 == 0b0100000 {
			return "sub"
		}

		return "add"
	case 0b001:
		return "sll"
	case 0b010:
		return "slt"
	case 0b011:
		return "sltu"
	case 0b100:
		return "xor"
	case 0b101:
		if funct7 == 0b0100000 {
			return "sra"
		}

		return "srl"
	case 0b110:
		return "or"
	case 0b111:
		return "and"
	default:
		return "op?"
	}
}

func branchMnemonic(funct3 uint32) string {
	switch funct3 {
	case 0b000:
		return "beq"
	case 0b001:
		return "bne"
	case 0b100:
		return "blt"
	case 0b101:
		return "bge"
	case 0b110:
		return "bltu"
	case 0b111:
		return "bgeu"
	default:
		return "b?"
	}
}

func amoMnemonic(funct5 uint32) string {
	switch funct5 {
	case 0x00:
		return "amoadd.w"
	case 0x01:
		return "amoswap.w"
	case 0x04:
		return "amoxor.w"
	case 0x0c:
		return "amoand.w"
	case 0x08:
		return "amoor.w"
	case 0x10:
		return "amomin.w"
	case 0x14:
		return "amomax.w"
	case 0x18:
		return "amominu.w"
	case 0x1c:
		return "amomaxu.w"
	default:
		return "amo?"
	}
}

func systemMnemonic(inst Instruction) string {
	if inst.Funct3() != 0 {
		name := "csrrw"

		switch inst.Funct3() {
		case 0b001:
			name = "csrrw"
		case 0b010:
			name = "csrrs"
		case 0b011:
			name = "csrrc"
		case 0b101:
			name = "csrrwi"
		case 0b110:
			name = "csrrsi"
		case 0b111:
			name = "csrrci"
		}

		return fmt.Sprintf("%-7s %s, %#x, %s", name, inst.RD(), inst.CSRAddr(), inst.RS1())
	}

	switch uint32(inst) >> 20 {
	case funct12ECALL:
		return "ecall"
	case funct12EBREAK:
		return "ebreak"
	case funct12SRET:
		return "sret"
	case funct12MRET:
		return "mret"
	case funct12WFI:
		return "wfi"
	default:
		return "system?"
	}
}
