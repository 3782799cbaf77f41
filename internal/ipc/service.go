package ipc

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lumen-os/ipcmond/internal/logging"
)

// Config holds the static targeting and paging configuration the service
// resolves against.
type Config struct {
	TargetDevice string
	AllowedUIDs  []uint32
	PageSize     uint32
	PagesMapped  uint32
	Enforced     bool
}

// Service is the info aggregator: it validates the requester, merges the
// resolver outputs, and caches the last valid snapshot. A single instance
// is constructed at startup and shared by every entry point.
type Service struct {
	targeting *TargetingResolver
	paging    *PagingResolver
	log       *logging.Logger

	// mu guards cache with exclusive writes and shared reads, so
	// concurrent readers see either the old or the new snapshot whole,
	// never a torn mixture.
	mu    sync.RWMutex
	cache Info
}

// NewService creates the aggregator. validator may be nil until the OS
// server comes up.
func NewService(cfg Config, stats *Stats, validator TargetValidator, log *logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		targeting: NewTargetingResolver(cfg.TargetDevice, cfg.AllowedUIDs, cfg.Enforced, validator),
		paging:    NewPagingResolver(cfg.PageSize, cfg.PagesMapped, stats),
		log:       log,
	}
}

// Allows reports whether uid may read privileged configuration data.
func (s *Service) Allows(uid uint32) bool {
	return s.targeting.Allows(uid)
}

// GetCombinedInfo validates the requester and returns the merged
// targeting + paging snapshot. Unauthorized requesters receive the
// invalid sentinel; neither resolver runs and the cache is untouched.
func (s *Service) GetCombinedInfo(uid uint32) Info {
	if !s.Allows(uid) {
		s.log.Debug("ipc info request denied", zap.Uint32("uid", uid))
		return InvalidInfo()
	}

	paging := s.paging.Resolve()
	targeting := s.targeting.Resolve()

	info := Info{
		Magic:        MagicValid,
		Version:      Version,
		MemPageSize:  paging.PageSize,
		UIDEnforced:  uid,
		PagesMapped:  paging.PagesMapped,
		BinderHandle: BinderHandle,
		ServerPort:   ServerPort,
		Valid:        true,
	}
	info.TargetDevice = targeting.TargetDevice
	encodeFixed(info.LockType[:], LockLabelGlobal)

	s.mu.Lock()
	s.cache = info
	s.mu.Unlock()

	return info
}

// GetTargetingInfo returns the targeting snapshot. No access check: the
// data is static configuration.
func (s *Service) GetTargetingInfo() TargetingInfo {
	return s.targeting.Resolve()
}

// GetPagingInfo returns the paging snapshot. No access check: the data is
// static geometry plus a diagnostic counter.
func (s *Service) GetPagingInfo() PagingInfo {
	return s.paging.Resolve()
}

// CachedInfo returns the last snapshot produced by a successful
// GetCombinedInfo, or the zero Info if none succeeded yet.
func (s *Service) CachedInfo() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache
}

// DumpSnapshotReport writes the formatted snapshot report for the cached
// snapshot to the log sink.
func (s *Service) DumpSnapshotReport() {
	for _, line := range FormatSnapshotReport(s.CachedInfo()) {
		s.log.Info(line)
	}
}
