package ipc

// PagingResolver describes the fixed geometry of the IPC shared-memory
// region. Geometry is static, so resolution never fails.
type PagingResolver struct {
	pageSize    uint32
	pagesMapped uint32
	l1TableBase uint32
	stats       *Stats
}

// NewPagingResolver creates a resolver for the given geometry. stats
// supplies the live TLB-flush counter and may be nil.
func NewPagingResolver(pageSize, pagesMapped uint32, stats *Stats) *PagingResolver {
	return &PagingResolver{
		pageSize:    pageSize,
		pagesMapped: pagesMapped,
		l1TableBase: KernelBase + L1TableOffset,
		stats:       stats,
	}
}

// Resolve builds the current PagingInfo. TotalIPCRegion is always derived
// from the page size and page count.
func (r *PagingResolver) Resolve() PagingInfo {
	var tlbFlushes uint32
	if r.stats != nil {
		tlbFlushes = r.stats.TLBFlushes.Load()
	}

	return PagingInfo{
		PageSize:       r.pageSize,
		PagesMapped:    r.pagesMapped,
		L1TableBase:    r.l1TableBase,
		TotalIPCRegion: r.pageSize * r.pagesMapped,
		CacheFlags:     CacheWBWA,
		TLBFlushes:     tlbFlushes,
		Valid:          true,
	}
}
