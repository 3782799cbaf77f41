package ipc

import (
	"unicode/utf8"
)

// Record identity constants. MagicValid marks a populated snapshot,
// MagicInvalid the access-denied sentinel.
const (
	MagicValid   uint32 = 0x4C554D4E // "LUMN"
	MagicInvalid uint32 = 0xDEADBEEF
	Version      uint32 = 0x10001
)

// Fixed buffer capacities shared with existing callers.
const (
	DeviceNameLen  = 64
	LockLabelLen   = 16
	MaxAllowedUIDs = 8
)

// Paging geometry and routing constants.
const (
	KernelBase    uint32 = 0xC0000000
	L1TableOffset uint32 = 0x4000

	// CacheWBWA is the write-back / write-allocate cache policy.
	CacheWBWA uint32 = 0x5

	BinderHandle uint32 = 0xDEADBEEF
	ServerPort   uint32 = 0x4C495043 // "LIPC"
)

// LockLabelGlobal is the lock-type label reported in valid snapshots.
const LockLabelGlobal = "Global"

// TargetingInfo describes the targeting subsystem: which device identity
// and which caller UIDs may participate in the IPC channel. Entries of
// AllowedUIDs beyond UIDCount are unspecified and must not be treated as
// allowed.
type TargetingInfo struct {
	TargetDevice [DeviceNameLen]byte
	AllowedUIDs  [MaxAllowedUIDs]uint32
	UIDCount     uint32
	TargetValid  bool
	Enforced     bool
	LockActive   bool
}

// Device returns the decoded device identity string.
func (t *TargetingInfo) Device() string {
	return decodeFixed(t.TargetDevice[:])
}

// Allowed returns the populated portion of the allow-list.
func (t *TargetingInfo) Allowed() []uint32 {
	n := t.UIDCount
	if n > MaxAllowedUIDs {
		n = MaxAllowedUIDs
	}
	return t.AllowedUIDs[:n]
}

// PagingInfo describes the shared-memory region backing the IPC buffer.
// TotalIPCRegion is derived from PageSize and PagesMapped, never set
// independently.
type PagingInfo struct {
	PageSize       uint32
	PagesMapped    uint32
	L1TableBase    uint32
	TotalIPCRegion uint32
	CacheFlags     uint32
	TLBFlushes     uint32
	Valid          bool
}

// Info is the composite snapshot returned to authorized callers. When
// Valid is false every other field holds its sentinel value: Magic is
// MagicInvalid and all remaining fields are zero.
type Info struct {
	Magic              uint32
	Version            uint32
	MemPageSize        uint32
	UIDEnforced        uint32
	TargetDevice       [DeviceNameLen]byte
	PagesMapped        uint32
	ActiveTransactions uint32
	LockType           [LockLabelLen]byte
	BinderHandle       uint32
	ServerPort         uint32
	Valid              bool
}

// Device returns the decoded device identity string.
func (i *Info) Device() string {
	return decodeFixed(i.TargetDevice[:])
}

// Lock returns the decoded lock-type label.
func (i *Info) Lock() string {
	return decodeFixed(i.LockType[:])
}

// InvalidInfo returns the sentinel snapshot handed out on access denial.
func InvalidInfo() Info {
	return Info{Magic: MagicInvalid}
}

// decodeFixed decodes a null/space-padded fixed buffer. Empty or
// malformed content is replaced with a placeholder, never an error.
func decodeFixed(buf []byte) string {
	end := len(buf)
	for end > 0 && (buf[end-1] == 0 || buf[end-1] == ' ') {
		end--
	}
	s := buf[:end]
	if len(s) == 0 || !utf8.Valid(s) {
		return "unknown"
	}
	return string(s)
}

// encodeFixed copies s into a fixed buffer, truncating if needed and
// leaving the remainder zero-padded.
func encodeFixed(dst []byte, s string) {
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
}
