package world

// Rules decides who may attack or help whom.
type Rules struct {
	state *State
}

func NewRules(s *State) Rules { return Rules{state: s} }

// realmOf resolves a pet to its owner's realm while the owner exists.
func (r Rules) realmOf(l *Living) Realm {
	if l.IsPet() && !l.OwnerID.IsZero() {
		if owner, ok := r.state.Living(l.OwnerID); ok {
			return owner.Realm
		}
	}
	return l.Realm
}

// IsFriendly reports whether a and b fight on the same side.
func (r Rules) IsFriendly(a, b *Living) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID == b.ID {
		return true
	}
	return r.realmOf(a) == r.realmOf(b)
}

// IsAllowedToAttack reports whether attacker may harm defender: both alive,
// not the same living, on different sides.
func (r Rules) IsAllowedToAttack(attacker, defender *Living) bool {
	if attacker == nil || defender == nil {
		return false
	}
	if attacker.Dead || defender.Dead || attacker.ID == defender.ID {
		return false
	}
	if defender.IsPet() && defender.OwnerID == attacker.ID {
		return false
	}
	return !r.IsFriendly(attacker, defender)
}
