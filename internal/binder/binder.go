// Package binder models the transaction-dispatch driver collaborator:
// the transaction record it owns, the status codes it reports, and the
// explicit completion-hook registration the monitoring core uses instead
// of a raw callback-slot write.
package binder

import (
	"sync"
	"time"
)

// Status codes carried in Transaction.ReturnError. Zero means success.
const (
	StatusOK             int32 = 0
	StatusAccessDenied   int32 = -13 // EACCES
	StatusTargetMismatch int32 = -99
)

// Transaction is one completed request/response exchange as seen by the
// driver. SenderUID is the authenticated identity of the caller.
type Transaction struct {
	SenderUID   uint32
	Code        uint32
	Data        []byte
	DataSize    uint32
	ReturnError int32
	// Duration is the dispatch-to-completion latency, zero when the
	// driver did not measure it.
	Duration time.Duration
}

// CompletionHook observes a completed transaction. It must not fail and
// must not retain the transaction past the call.
type CompletionHook func(txn *Transaction)

// Driver owns transaction dispatch. Only the completion-hook surface is
// modeled here; dispatch itself belongs to the embedding kernel.
type Driver struct {
	mu   sync.RWMutex
	hook CompletionHook
}

// NewDriver creates a driver with no hook armed.
func NewDriver() *Driver {
	return &Driver{}
}

// SetCompletionHook arms the hook invoked once per completed transaction.
// It must be called before traffic flows; a later call replaces the hook,
// which supports monitor re-initialization.
func (d *Driver) SetCompletionHook(hook CompletionHook) {
	d.mu.Lock()
	d.hook = hook
	d.mu.Unlock()
}

// Complete marks a transaction finished and synchronously invokes the
// armed hook, if any.
func (d *Driver) Complete(txn *Transaction) {
	d.mu.RLock()
	hook := d.hook
	d.mu.RUnlock()

	if hook != nil {
		hook(txn)
	}
}
