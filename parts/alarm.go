package parts

// AlarmStatus classifies a tank fill level.
type AlarmStatus uint8

const (
	AlarmGreat AlarmStatus = iota
	AlarmOK
	AlarmWarning
	AlarmCritical
)

// Criticality orders statuses from GREAT (0) to CRITICAL (3).
func (a AlarmStatus) Criticality() int {
	return int(a)
}

// AtLeast reports whether a is as critical as other or more.
func (a AlarmStatus) AtLeast(other AlarmStatus) bool {
	return a.Criticality() >= other.Criticality()
}

func (a AlarmStatus) String() string {
	switch a {
	case AlarmGreat:
		return "GREAT"
	case AlarmOK:
		return "OK"
	case AlarmWarning:
		return "WARNING"
	case AlarmCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}
