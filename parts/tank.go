package parts

// Fill-level thresholds used for alarm classification.
const (
	TankFullPos    = 0.8
	TankWarningPos = 0.3
	TankAlarmPos   = 0.15
)

// Levels within this distance of empty or full count as empty or full.
const (
	tankEmptyEpsilon = 1e-7
	tankFullEpsilon  = 1e-6
)

// TankSpec describes a tank in configuration.
type TankSpec struct {
	Name            string  `yaml:"name"`
	Capacity        float64 `yaml:"capacity"`
	Level           float64 `yaml:"level"`             // initial fill fraction, 0..1
	ChangePerSecond float64 `yaml:"change_per_second"` // passive fill (+) or drain (-)
}

// Tank is a bounded reservoir. The amount is the canonical state; the
// relative level is always derived from it.
type Tank struct {
	name            string
	capacity        float64
	amount          float64
	changePerSecond float64
}

// NewTank creates a tank filled to the given relative level (clamped to 0..1).
func NewTank(name string, capacity, level, changePerSecond float64) (*Tank, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := checkNonNegative("capacity", capacity); err != nil {
		return nil, err
	}
	if err := checkFinite("level", level); err != nil {
		return nil, err
	}
	if err := checkFinite("change_per_second", changePerSecond); err != nil {
		return nil, err
	}
	t := &Tank{name: name, capacity: capacity, changePerSecond: changePerSecond}
	t.SetLevel(level)
	return t, nil
}

// NewTankFromSpec creates a tank from its configuration.
func NewTankFromSpec(s TankSpec) (*Tank, error) {
	return NewTank(s.Name, s.Capacity, s.Level, s.ChangePerSecond)
}

// Name returns the display name.
func (t *Tank) Name() string { return t.name }

// Capacity returns the maximum amount.
func (t *Tank) Capacity() float64 { return t.capacity }

// Amount returns the current content.
func (t *Tank) Amount() float64 { return t.amount }

// ChangePerSecond returns the passive rate applied by Update.
func (t *Tank) ChangePerSecond() float64 { return t.changePerSecond }

// FreeSpace returns how much can still be added.
func (t *Tank) FreeSpace() float64 { return t.capacity - t.amount }

// Level returns the relative fill, 0 = empty, 1 = full. A zero-capacity tank reports 0.
func (t *Tank) Level() float64 {
	if t.capacity <= 0 {
		return 0
	}
	return t.amount / t.capacity
}

// SetLevel sets the content from a relative fill, clamped to 0..1.
func (t *Tank) SetLevel(level float64) {
	t.SetAmount(level * t.capacity)
}

// SetAmount sets the content, clamped to [0, capacity].
func (t *Tank) SetAmount(amount float64) {
	t.amount = clamp(amount, 0, t.capacity)
}

// SetCapacity changes the capacity and re-clamps the content.
func (t *Tank) SetCapacity(capacity float64) error {
	if err := checkNonNegative("capacity", capacity); err != nil {
		return err
	}
	t.capacity = capacity
	t.SetAmount(t.amount)
	return nil
}

// SetChangePerSecond sets the passive rate.
func (t *Tank) SetChangePerSecond(rate float64) error {
	if err := checkFinite("change_per_second", rate); err != nil {
		return err
	}
	t.changePerSecond = rate
	return nil
}

// Add puts up to amount into the tank and returns what actually fit.
func (t *Tank) Add(amount float64) (float64, error) {
	if err := checkNonNegative("amount", amount); err != nil {
		return 0, err
	}
	added := min(amount, t.FreeSpace())
	t.amount += added
	if t.amount > t.capacity {
		t.amount = t.capacity
	}
	return added, nil
}

// Remove takes up to amount out of the tank and returns what was actually there.
func (t *Tank) Remove(amount float64) (float64, error) {
	if err := checkNonNegative("amount", amount); err != nil {
		return 0, err
	}
	removed := min(amount, t.amount)
	t.amount -= removed
	if t.amount < 0 {
		t.amount = 0
	}
	return removed, nil
}

// Change applies a signed delta through the clamped add/remove path and
// returns the delta actually applied.
func (t *Tank) Change(delta float64) float64 {
	if delta >= 0 {
		added, _ := t.Add(delta)
		return added
	}
	removed, _ := t.Remove(-delta)
	return -removed
}

// Update applies the passive rate for dt seconds.
func (t *Tank) Update(dt float64) {
	t.Change(t.changePerSecond * dt)
}

// IsEmpty reports whether the tank is effectively empty.
func (t *Tank) IsEmpty() bool {
	return t.Level() <= tankEmptyEpsilon
}

// IsFull reports whether the tank is effectively full.
func (t *Tank) IsFull() bool {
	return t.Level() >= 1-tankFullEpsilon
}

// AlarmStatus classifies the fill level.
func (t *Tank) AlarmStatus() AlarmStatus {
	pos := t.Level()
	switch {
	case pos <= TankAlarmPos:
		return AlarmCritical
	case pos <= TankWarningPos:
		return AlarmWarning
	case pos < TankFullPos:
		return AlarmOK
	}
	return AlarmGreat
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
