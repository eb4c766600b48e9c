package game

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/depthcharge/components"
	"github.com/pthm-cable/depthcharge/parts"
)

// Control channel names understood by Control.
const (
	ChannelEngine   = "engine"
	ChannelRudder   = "rudder"
	ChannelMotor    = "motor"
	ChannelDiveFins = "dive_fins"
	ChannelPump     = "pump"
	ChannelCharger  = "charger"
)

var (
	// ErrNoPlayer is returned when the player's submarine is gone.
	ErrNoPlayer = errors.New("player destroyed")
	// ErrUnknownChannel is returned for a channel name Control does not know.
	ErrUnknownChannel = errors.New("unknown control channel")
)

// Control routes abstract control events to the player's submarine. It
// stands in for the keyboard and UI, which are not part of this module.
type Control struct {
	world  *ecs.World
	player ecs.Entity
	vessel *ecs.Map3[components.Ship, components.Submarine, components.TorpedoTube]
}

// NewControl creates a control for the given player entity.
func NewControl(w *ecs.World, player ecs.Entity) *Control {
	return &Control{
		world:  w,
		player: player,
		vessel: ecs.NewMap3[components.Ship, components.Submarine, components.TorpedoTube](w),
	}
}

func (c *Control) channel(name string) (*parts.Controllable, error) {
	if !c.world.Alive(c.player) {
		return nil, ErrNoPlayer
	}
	ship, sub, _ := c.vessel.Get(c.player)
	switch name {
	case ChannelEngine:
		return ship.Engine, nil
	case ChannelRudder:
		return ship.Rudder, nil
	case ChannelMotor:
		return sub.Motor, nil
	case ChannelDiveFins:
		return sub.DiveFins, nil
	case ChannelPump:
		return sub.Pump, nil
	case ChannelCharger:
		return sub.Charger, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
}

// Increase moves a channel's target one step up.
func (c *Control) Increase(name string) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}
	ch.Increase()
	return nil
}

// Decrease moves a channel's target one step down.
func (c *Control) Decrease(name string) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}
	ch.Decrease()
	return nil
}

// SetTarget sets a channel's target position.
func (c *Control) SetTarget(name string, pos float64) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}
	ch.SetTarget(pos)
	return nil
}

// Hold reports which of a channel's increase and decrease signals are
// currently held.
func (c *Control) Hold(name string, increase, decrease bool) error {
	ch, err := c.channel(name)
	if err != nil {
		return err
	}
	ch.Hold(increase, decrease)
	return nil
}

// Fire requests a torpedo launch. The request is dropped while reloading.
func (c *Control) Fire() error {
	if !c.world.Alive(c.player) {
		return ErrNoPlayer
	}
	_, _, tube := c.vessel.Get(c.player)
	tube.RequestLaunch()
	return nil
}
