package tx

import (
	"errors"
	"time"

	"github.com/nftstore/nftstored/internal/core/ledger/entry"
)

// EngineConfig holds configuration for the transition engine.
type EngineConfig struct {
	// Now supplies the trusted timestamp for each transition. Defaults
	// to wall-clock time.
	Now func() int64
}

// Engine applies transitions against a ledger view. Each Apply is one
// atomic unit: every read, precondition check, mutation and transfer
// either all take effect or none do. The engine itself holds no locks;
// the caller serializes conflicting transitions, and preconditions are
// re-validated against current stored state at the instant Apply runs.
type Engine struct {
	view   LedgerView
	config EngineConfig
}

// ApplyResult contains the result of applying a transition.
type ApplyResult struct {
	// Result is the transition result code.
	Result Result

	// Applied indicates if the transition reached the ledger.
	Applied bool

	// Events are the observable events of an applied transition.
	Events []Event

	// Message is a human-readable result message.
	Message string
}

// NewEngine creates an engine over the given base view.
func NewEngine(view LedgerView, config EngineConfig) *Engine {
	if config.Now == nil {
		config.Now = func() int64 { return time.Now().Unix() }
	}
	return &Engine{view: view, config: config}
}

// Apply runs one transition to completion. On any non-success result
// the staged state is discarded and the base view is untouched.
func (e *Engine) Apply(txn Transaction) ApplyResult {
	if err := txn.Validate(); err != nil {
		res := resultFromValidationError(err)
		return ApplyResult{Result: res, Message: err.Error()}
	}

	table := NewApplyStateTable(e.view)
	ctx := &ApplyContext{
		View:      table,
		AccountID: txn.GetCommon().Account,
		Timestamp: e.config.Now(),
	}

	res := txn.Apply(ctx)
	if !res.IsSuccess() {
		return ApplyResult{Result: res, Message: res.Message()}
	}

	if err := table.Commit(); err != nil {
		return ApplyResult{Result: TefINTERNAL, Message: err.Error()}
	}

	return ApplyResult{
		Result:  TesSUCCESS,
		Applied: true,
		Events:  ctx.Events,
		Message: TesSUCCESS.Message(),
	}
}

// resultFromValidationError maps stateless validation errors to tem
// codes.
func resultFromValidationError(err error) Result {
	switch {
	case errors.Is(err, ErrInvalidRate):
		return TemINVALID_RATE
	case errors.Is(err, entry.ErrNameTooLong):
		return TemBAD_NAME
	default:
		return TemINVALID
	}
}
