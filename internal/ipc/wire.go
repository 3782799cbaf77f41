package ipc

import (
	"encoding/binary"
	"fmt"
)

// The four records below cross a privilege boundary by raw byte copy, so
// their layout is a compatibility contract: little-endian, 32-bit fields,
// 4-byte alignment (the legacy ARMv7 C layout), booleans encoded as one
// byte followed by explicit zero padding. Field order is exactly the
// declaration order of the corresponding struct. Changing any of this
// requires bumping Version and gating on it.
const (
	InfoWireSize      = 116
	TargetingWireSize = 104
	PagingWireSize    = 28
	StatsWireSize     = 40
)

// EncodeInfo packs a snapshot into its 116-byte wire form.
func EncodeInfo(info Info) []byte {
	b := make([]byte, InfoWireSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:], info.Magic)
	le.PutUint32(b[4:], info.Version)
	le.PutUint32(b[8:], info.MemPageSize)
	le.PutUint32(b[12:], info.UIDEnforced)
	copy(b[16:80], info.TargetDevice[:])
	le.PutUint32(b[80:], info.PagesMapped)
	le.PutUint32(b[84:], info.ActiveTransactions)
	copy(b[88:104], info.LockType[:])
	le.PutUint32(b[104:], info.BinderHandle)
	le.PutUint32(b[108:], info.ServerPort)
	b[112] = encodeBool(info.Valid)
	// b[113:116] zero padding

	return b
}

// DecodeInfo unpacks a 116-byte wire record.
func DecodeInfo(b []byte) (Info, error) {
	if len(b) != InfoWireSize {
		return Info{}, fmt.Errorf("ipc info record must be %d bytes, got %d", InfoWireSize, len(b))
	}
	le := binary.LittleEndian

	var info Info
	info.Magic = le.Uint32(b[0:])
	info.Version = le.Uint32(b[4:])
	info.MemPageSize = le.Uint32(b[8:])
	info.UIDEnforced = le.Uint32(b[12:])
	copy(info.TargetDevice[:], b[16:80])
	info.PagesMapped = le.Uint32(b[80:])
	info.ActiveTransactions = le.Uint32(b[84:])
	copy(info.LockType[:], b[88:104])
	info.BinderHandle = le.Uint32(b[104:])
	info.ServerPort = le.Uint32(b[108:])
	info.Valid = b[112] != 0

	return info, nil
}

// EncodeTargeting packs a TargetingInfo into its 104-byte wire form.
func EncodeTargeting(info TargetingInfo) []byte {
	b := make([]byte, TargetingWireSize)
	le := binary.LittleEndian

	copy(b[0:64], info.TargetDevice[:])
	for i, uid := range info.AllowedUIDs {
		le.PutUint32(b[64+4*i:], uid)
	}
	le.PutUint32(b[96:], info.UIDCount)
	b[100] = encodeBool(info.TargetValid)
	b[101] = encodeBool(info.Enforced)
	b[102] = encodeBool(info.LockActive)
	// b[103] zero padding

	return b
}

// DecodeTargeting unpacks a 104-byte wire record.
func DecodeTargeting(b []byte) (TargetingInfo, error) {
	if len(b) != TargetingWireSize {
		return TargetingInfo{}, fmt.Errorf("targeting record must be %d bytes, got %d", TargetingWireSize, len(b))
	}
	le := binary.LittleEndian

	var info TargetingInfo
	copy(info.TargetDevice[:], b[0:64])
	for i := range info.AllowedUIDs {
		info.AllowedUIDs[i] = le.Uint32(b[64+4*i:])
	}
	info.UIDCount = le.Uint32(b[96:])
	info.TargetValid = b[100] != 0
	info.Enforced = b[101] != 0
	info.LockActive = b[102] != 0

	return info, nil
}

// EncodePaging packs a PagingInfo into its 28-byte wire form.
func EncodePaging(info PagingInfo) []byte {
	b := make([]byte, PagingWireSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:], info.PageSize)
	le.PutUint32(b[4:], info.PagesMapped)
	le.PutUint32(b[8:], info.L1TableBase)
	le.PutUint32(b[12:], info.TotalIPCRegion)
	le.PutUint32(b[16:], info.CacheFlags)
	le.PutUint32(b[20:], info.TLBFlushes)
	b[24] = encodeBool(info.Valid)
	// b[25:28] zero padding

	return b
}

// DecodePaging unpacks a 28-byte wire record.
func DecodePaging(b []byte) (PagingInfo, error) {
	if len(b) != PagingWireSize {
		return PagingInfo{}, fmt.Errorf("paging record must be %d bytes, got %d", PagingWireSize, len(b))
	}
	le := binary.LittleEndian

	var info PagingInfo
	info.PageSize = le.Uint32(b[0:])
	info.PagesMapped = le.Uint32(b[4:])
	info.L1TableBase = le.Uint32(b[8:])
	info.TotalIPCRegion = le.Uint32(b[12:])
	info.CacheFlags = le.Uint32(b[16:])
	info.TLBFlushes = le.Uint32(b[20:])
	info.Valid = b[24] != 0

	return info, nil
}

// EncodeStats packs a StatsSnapshot into its 40-byte wire form.
func EncodeStats(snap StatsSnapshot) []byte {
	b := make([]byte, StatsWireSize)
	le := binary.LittleEndian

	le.PutUint32(b[0:], snap.Transactions)
	le.PutUint32(b[4:], snap.PagesMappedTotal)
	le.PutUint32(b[8:], snap.LockContention)
	le.PutUint32(b[12:], snap.UIDViolations)
	le.PutUint32(b[16:], snap.TargetMismatches)
	le.PutUint32(b[20:], snap.TLBFlushes)
	le.PutUint32(b[24:], snap.MaxTransactionSize)
	le.PutUint32(b[28:], snap.AvgLatencyNS)
	le.PutUint32(b[32:], snap.UptimeSeconds)
	le.PutUint32(b[36:], snap.ErrorsTotal)

	return b
}

// DecodeStats unpacks a 40-byte wire record.
func DecodeStats(b []byte) (StatsSnapshot, error) {
	if len(b) != StatsWireSize {
		return StatsSnapshot{}, fmt.Errorf("stats record must be %d bytes, got %d", StatsWireSize, len(b))
	}
	le := binary.LittleEndian

	return StatsSnapshot{
		Transactions:       le.Uint32(b[0:]),
		PagesMappedTotal:   le.Uint32(b[4:]),
		LockContention:     le.Uint32(b[8:]),
		UIDViolations:      le.Uint32(b[12:]),
		TargetMismatches:   le.Uint32(b[16:]),
		TLBFlushes:         le.Uint32(b[20:]),
		MaxTransactionSize: le.Uint32(b[24:]),
		AvgLatencyNS:       le.Uint32(b[28:]),
		UptimeSeconds:      le.Uint32(b[32:]),
		ErrorsTotal:        le.Uint32(b[36:]),
	}, nil
}

func encodeBool(v bool) byte {
	if v {
		return 1
	}
	return 0
}
