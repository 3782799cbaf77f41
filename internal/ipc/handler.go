package ipc

import (
	"github.com/lumen-os/ipcmond/internal/binder"
)

// InfoHandler is the binder request adapter for the get-ipc-info
// operation. It rejects unauthorized senders before consulting the
// aggregator and attaches the packed snapshot as the response payload.
type InfoHandler struct {
	svc *Service
}

// NewInfoHandler creates the adapter over the aggregator service.
func NewInfoHandler(svc *Service) *InfoHandler {
	return &InfoHandler{svc: svc}
}

// Handle services one transaction. The returned status is also stored in
// txn.ReturnError so the completion hook classifies denials.
func (h *InfoHandler) Handle(txn *binder.Transaction) int32 {
	if !h.svc.Allows(txn.SenderUID) {
		txn.ReturnError = binder.StatusAccessDenied
		return binder.StatusAccessDenied
	}

	info := h.svc.GetCombinedInfo(txn.SenderUID)
	txn.Data = EncodeInfo(info)
	txn.DataSize = uint32(len(txn.Data))
	txn.ReturnError = binder.StatusOK
	return binder.StatusOK
}
