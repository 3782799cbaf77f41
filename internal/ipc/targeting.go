package ipc

// TargetValidator is the identity-validation capability offered by the
// OS-wide server object.
type TargetValidator interface {
	ValidateTarget(device string) bool
}

// TargetingResolver produces the targeting configuration snapshot from
// the statically configured device identity and allow-list.
type TargetingResolver struct {
	device    string
	allowed   []uint32
	enforced  bool
	validator TargetValidator
}

// NewTargetingResolver creates a resolver for the given configuration.
// validator may be nil when the OS server is not yet initialized; the
// resolver then keeps TargetValid at its default-true value.
func NewTargetingResolver(device string, allowed []uint32, enforced bool, validator TargetValidator) *TargetingResolver {
	uids := allowed
	if len(uids) > MaxAllowedUIDs {
		uids = uids[:MaxAllowedUIDs]
	}
	return &TargetingResolver{
		device:    device,
		allowed:   uids,
		enforced:  enforced,
		validator: validator,
	}
}

// Resolve builds the current TargetingInfo. Pure read of configuration
// plus one query to the validator when present.
func (r *TargetingResolver) Resolve() TargetingInfo {
	info := TargetingInfo{
		UIDCount:    uint32(len(r.allowed)),
		TargetValid: true,
		Enforced:    r.enforced,
		LockActive:  false,
	}
	encodeFixed(info.TargetDevice[:], r.device)
	copy(info.AllowedUIDs[:], r.allowed)

	if r.validator != nil {
		info.TargetValid = r.validator.ValidateTarget(r.device)
	}

	return info
}

// Allows reports whether uid is one of the configured principals.
func (r *TargetingResolver) Allows(uid uint32) bool {
	for _, allowed := range r.allowed {
		if uid == allowed {
			return true
		}
	}
	return false
}
