package tx

import "fmt"

// Result represents a transition result code.
//
// Codes are organized by class, following the tes/tec/tem/tef scheme:
// tes is success, tec is a precondition or funding failure against
// current state, tem is a malformed transition, tef is an internal
// failure. Every failure discards the whole transition; no code leaves
// partial state behind.
type Result int

const (
	// TesSUCCESS (0)
	TesSUCCESS Result = 0

	// tec: state preconditions and funding (100-199)
	TecNO_ENTRY           Result = 100
	TecNO_PERMISSION      Result = 101
	TecFROZEN             Result = 102
	TecNOT_FROZEN         Result = 103
	TecON_SALE            Result = 104
	TecNOT_ON_SALE        Result = 105
	TecDUPLICATE          Result = 106
	TecWRONG_ASSET        Result = 107
	TecUNFUNDED           Result = 108
	TecINSUFFICIENT_FUNDS Result = 109
	TecOVERFLOW           Result = 110

	// tem: malformed (-299 to -200)
	TemINVALID      Result = -299
	TemINVALID_RATE Result = -298
	TemBAD_NAME     Result = -297
	TemBAD_AMOUNT   Result = -296

	// tef: internal failure (-199 to -100)
	TefINTERNAL Result = -199
)

// String returns the canonical name of the result code.
func (r Result) String() string {
	switch r {
	case TesSUCCESS:
		return "tesSUCCESS"
	case TecNO_ENTRY:
		return "tecNO_ENTRY"
	case TecNO_PERMISSION:
		return "tecNO_PERMISSION"
	case TecFROZEN:
		return "tecFROZEN"
	case TecNOT_FROZEN:
		return "tecNOT_FROZEN"
	case TecON_SALE:
		return "tecON_SALE"
	case TecNOT_ON_SALE:
		return "tecNOT_ON_SALE"
	case TecDUPLICATE:
		return "tecDUPLICATE"
	case TecWRONG_ASSET:
		return "tecWRONG_ASSET"
	case TecUNFUNDED:
		return "tecUNFUNDED"
	case TecINSUFFICIENT_FUNDS:
		return "tecINSUFFICIENT_FUNDS"
	case TecOVERFLOW:
		return "tecOVERFLOW"
	case TemINVALID:
		return "temINVALID"
	case TemINVALID_RATE:
		return "temINVALID_RATE"
	case TemBAD_NAME:
		return "temBAD_NAME"
	case TemBAD_AMOUNT:
		return "temBAD_AMOUNT"
	case TefINTERNAL:
		return "tefINTERNAL"
	default:
		return fmt.Sprintf("Unknown(%d)", int(r))
	}
}

// IsSuccess returns true if the result indicates success.
func (r Result) IsSuccess() bool {
	return r == TesSUCCESS
}

// IsTec returns true if this is a tec (state precondition) code.
func (r Result) IsTec() bool {
	return r >= 100 && r < 200
}

// IsTem returns true if this is a tem (malformed) code.
func (r Result) IsTem() bool {
	return r >= -299 && r <= -200
}

// IsTef returns true if this is a tef (internal failure) code.
func (r Result) IsTef() bool {
	return r >= -199 && r <= -100
}

// Message returns a human-readable message for the result.
func (r Result) Message() string {
	switch r {
	case TesSUCCESS:
		return "The transition was applied."
	case TecNO_ENTRY:
		return "A referenced ledger entry does not exist."
	case TecNO_PERMISSION:
		return "The caller is not authorized for this operation."
	case TecFROZEN:
		return "The store is frozen."
	case TecNOT_FROZEN:
		return "The store is not frozen."
	case TecON_SALE:
		return "The record is already on sale."
	case TecNOT_ON_SALE:
		return "The record is not on sale."
	case TecDUPLICATE:
		return "An entry already exists at the derived address."
	case TecWRONG_ASSET:
		return "The asset is not a unique, non-divisible asset."
	case TecUNFUNDED:
		return "Insufficient balance to fund the required transfer."
	case TecINSUFFICIENT_FUNDS:
		return "Insufficient escrowed funds to pay the fee."
	case TecOVERFLOW:
		return "Arithmetic overflow; the transition was discarded."
	case TemINVALID:
		return "The transition is ill-formed."
	case TemINVALID_RATE:
		return "Invalid rate; must be at least 1 basis point."
	case TemBAD_NAME:
		return "Invalid store name."
	case TemBAD_AMOUNT:
		return "Invalid amount."
	case TefINTERNAL:
		return "Internal error while applying the transition."
	default:
		return r.String()
	}
}
