package skill

// FailReason tells why a skill could not be used or was interrupted.
// NoReason means success.
type FailReason uint8

const (
	NoReason FailReason = iota
	TargetTooFar
	InvalidTarget
	CasterDead
	AlreadyUsingAnotherSkill
	InterruptedByMoving
	InterruptedByAttack
)

var reasonText = [...]struct{ name, message string }{
	NoReason:                 {"no_reason", ""},
	TargetTooFar:             {"target_too_far", "Your target is too far away."},
	InvalidTarget:            {"invalid_target", "You don't have a valid target."},
	CasterDead:               {"caster_dead", "You can't do that while dead."},
	AlreadyUsingAnotherSkill: {"already_using_another_skill", "You are already using another skill."},
	InterruptedByMoving:      {"interrupted_by_moving", "You move and interrupt your skill."},
	InterruptedByAttack:      {"interrupted_by_attack", "You are attacked and your skill is interrupted."},
}

func (r FailReason) String() string {
	if int(r) >= len(reasonText) {
		return "unknown"
	}
	return reasonText[r].name
}

// Message is the short text shown to the player.
func (r FailReason) Message() string {
	if int(r) >= len(reasonText) {
		return ""
	}
	return reasonText[r].message
}
