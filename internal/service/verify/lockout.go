package verify

// DefaultLockoutThreshold is the consecutive-failure count that triggers
// the throttle message.
const DefaultLockoutThreshold = 3

// Lockout is the per-session soft throttle. It has no time component and
// no persistent ban: reaching the threshold emits the lockout signal and
// immediately re-arms by resetting the counter.
type Lockout struct {
	Threshold int
}

// NewLockout returns a Lockout with the default threshold.
func NewLockout() Lockout {
	return Lockout{Threshold: DefaultLockoutThreshold}
}

// Bump registers one more failure on top of the given counter value.
// When the new count reaches the threshold, locked is true and the
// returned counter is already reset to zero, so the next attempt behaves
// as attempt one again.
func (l Lockout) Bump(failures int) (newCount int, locked bool) {
	newCount = failures + 1
	if newCount >= l.Threshold {
		return 0, true
	}
	return newCount, false
}
