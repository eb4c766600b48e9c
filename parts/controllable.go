package parts

import "math"

// ControllableSpec describes a control channel in configuration.
type ControllableSpec struct {
	Name          string  `yaml:"name"`
	Min           float64 `yaml:"min"`  // value at the -1 position (bidirectional only)
	Zero          float64 `yaml:"zero"` // value at the 0 position
	Max           float64 `yaml:"max"`  // value at the +1 position
	Bidirectional bool    `yaml:"bidirectional"`
	Lag           float64 `yaml:"lag"`           // seconds to travel from zero to full
	Steps         int     `yaml:"steps"`         // steps from zero to full
	StepInterval  float64 `yaml:"step_interval"` // seconds per step while a signal is held
	ReturnToZero  bool    `yaml:"return_to_zero"`
}

// Controllable is a lagged, clamped scalar control channel such as a throttle,
// rudder or pump. Positions are normalized to [-1, 1] (bidirectional) or
// [0, 1]; the physical value is a two-segment linear map of the position.
type Controllable struct {
	name string

	minValue, zeroValue, maxValue float64
	minPos, maxPos                float64

	currentPos   float64
	targetPos    float64
	currentValue float64

	lag          float64
	steps        int
	stepInterval float64
	returnToZero bool

	functional bool
	jammed     bool

	increaseHeld bool
	decreaseHeld bool
	wasHeld      bool
	untilStep    float64
}

// NewControllable creates a control channel at the zero position.
func NewControllable(s ControllableSpec) (*Controllable, error) {
	if err := checkName(s.Name); err != nil {
		return nil, err
	}
	if err := checkNonNegative("lag", s.Lag); err != nil {
		return nil, err
	}
	if s.Steps <= 0 {
		return nil, invalid("steps", s.Steps, "must be positive")
	}
	stepInterval := s.StepInterval
	if stepInterval == 0 {
		stepInterval = 1
	}
	if math.IsNaN(stepInterval) || stepInterval < 0 {
		return nil, invalid("step_interval", s.StepInterval, "must be positive")
	}
	for _, v := range []struct {
		name string
		v    float64
	}{{"min", s.Min}, {"zero", s.Zero}, {"max", s.Max}} {
		if err := checkFinite(v.name, v.v); err != nil {
			return nil, err
		}
	}

	c := &Controllable{
		name:         s.Name,
		lag:          s.Lag,
		steps:        s.Steps,
		stepInterval: stepInterval,
		returnToZero: s.ReturnToZero,
		functional:   true,
	}
	minValue := s.Min
	if !s.Bidirectional {
		minValue = s.Zero
	}
	c.SetValueRange(minValue, s.Zero, s.Max, s.Bidirectional)
	return c, nil
}

// SetValueRange redefines the output range and resets the channel to zero.
func (c *Controllable) SetValueRange(minValue, zeroValue, maxValue float64, bidirectional bool) {
	c.minValue = minValue
	c.zeroValue = zeroValue
	c.maxValue = maxValue
	c.minPos = 0
	if bidirectional {
		c.minPos = -1
	}
	c.maxPos = 1
	c.currentPos = 0
	c.targetPos = 0
	c.currentValue = zeroValue
}

// Name returns the display name.
func (c *Controllable) Name() string { return c.name }

// MinValue, ZeroValue and MaxValue return the output fixed points.
func (c *Controllable) MinValue() float64  { return c.minValue }
func (c *Controllable) ZeroValue() float64 { return c.zeroValue }
func (c *Controllable) MaxValue() float64  { return c.maxValue }

// MinPos and MaxPos return the normalized position range.
func (c *Controllable) MinPos() float64 { return c.minPos }
func (c *Controllable) MaxPos() float64 { return c.maxPos }

// Value returns the current physical output.
func (c *Controllable) Value() float64 { return c.currentValue }

// Pos returns the current normalized position.
func (c *Controllable) Pos() float64 { return c.currentPos }

// PosMagnitude returns |Pos()|.
func (c *Controllable) PosMagnitude() float64 { return math.Abs(c.currentPos) }

// Target returns the user-requested position.
func (c *Controllable) Target() float64 { return c.targetPos }

// Lag returns the seconds needed to travel from zero to full.
func (c *Controllable) Lag() float64 { return c.lag }

// Steps returns the number of steps from zero to full.
func (c *Controllable) Steps() int { return c.steps }

// Functional reports whether the channel follows its target.
func (c *Controllable) Functional() bool { return c.functional }

// Jammed reports whether the channel is frozen.
func (c *Controllable) Jammed() bool { return c.jammed }

// SetFunctional switches the channel on or off. A non-functional channel
// returns to zero regardless of target or jam.
func (c *Controllable) SetFunctional(functional bool) { c.functional = functional }

// SetJammed freezes or releases the channel.
func (c *Controllable) SetJammed(jammed bool) { c.jammed = jammed }

// SetLag changes the control lag.
func (c *Controllable) SetLag(lag float64) error {
	if err := checkNonNegative("lag", lag); err != nil {
		return err
	}
	c.lag = lag
	return nil
}

// SetSteps changes the step count used by Increase and Decrease.
func (c *Controllable) SetSteps(steps int) error {
	if steps <= 0 {
		return invalid("steps", steps, "must be positive")
	}
	c.steps = steps
	return nil
}

// SetTarget requests a new position, clamped to the position range.
func (c *Controllable) SetTarget(pos float64) {
	if math.IsNaN(pos) {
		return
	}
	c.targetPos = clamp(pos, c.minPos, c.maxPos)
}

// Increase moves the target one step up.
func (c *Controllable) Increase() { c.moveTarget(1) }

// Decrease moves the target one step down.
func (c *Controllable) Decrease() { c.moveTarget(-1) }

func (c *Controllable) moveTarget(dir float64) {
	c.SetTarget(c.targetPos + dir/float64(c.steps))
}

// Hold sets which step signals are currently held. While exactly one is
// held the target steps in that direction every step interval.
func (c *Controllable) Hold(increase, decrease bool) {
	c.increaseHeld = increase
	c.decreaseHeld = decrease
}

// Changing reports whether the channel is still travelling toward its target.
func (c *Controllable) Changing() bool {
	return c.functional && !c.jammed && c.targetPos != c.currentPos
}

// Update advances the channel by dt seconds.
func (c *Controllable) Update(dt float64) {
	c.handleHeld(dt)

	c.updatePos(dt, c.actualTarget())
	c.updateValue()
}

func (c *Controllable) handleHeld(dt float64) {
	if c.increaseHeld != c.decreaseHeld {
		c.wasHeld = true
		c.untilStep -= dt
		if c.untilStep <= 0 {
			c.untilStep = c.stepInterval
			if c.increaseHeld {
				c.Increase()
			} else {
				c.Decrease()
			}
		}
		return
	}

	c.untilStep = 0
	if !c.increaseHeld && !c.decreaseHeld {
		// Only a release returns to zero, so targets set directly stick.
		if c.returnToZero && c.wasHeld {
			c.SetTarget(0)
		}
		c.wasHeld = false
	}
}

func (c *Controllable) actualTarget() float64 {
	switch {
	case !c.functional:
		return 0
	case c.jammed:
		return c.currentPos
	}
	return c.targetPos
}

func (c *Controllable) updatePos(dt, target float64) {
	if c.lag == 0 {
		c.currentPos = target
		return
	}
	move := dt / c.lag
	diff := target - c.currentPos
	if math.Abs(diff) <= move {
		c.currentPos = target
		return
	}
	if diff > 0 {
		c.currentPos += move
	} else {
		c.currentPos -= move
	}
}

func (c *Controllable) updateValue() {
	if c.currentPos >= 0 {
		c.currentValue = c.zeroValue + c.currentPos/c.maxPos*(c.maxValue-c.zeroValue)
		return
	}
	c.currentValue = c.minValue + (c.currentPos-c.minPos)/(0-c.minPos)*(c.zeroValue-c.minValue)
}
