package parts

// System groups the control channels and tanks of one vessel subsystem,
// kept in creation order so updates are deterministic.
type System struct {
	Controllables []*Controllable
	Tanks         []*Tank
}

// Controllable creates a channel from spec and registers it.
func (s *System) Controllable(spec ControllableSpec) (*Controllable, error) {
	c, err := NewControllable(spec)
	if err != nil {
		return nil, err
	}
	s.Controllables = append(s.Controllables, c)
	return c, nil
}

// Tank creates a tank from spec and registers it.
func (s *System) Tank(spec TankSpec) (*Tank, error) {
	t, err := NewTankFromSpec(spec)
	if err != nil {
		return nil, err
	}
	s.Tanks = append(s.Tanks, t)
	return t, nil
}

// FindControllable returns the channel with the given name, or nil.
func (s *System) FindControllable(name string) *Controllable {
	for _, c := range s.Controllables {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// FindTank returns the tank with the given name, or nil.
func (s *System) FindTank(name string) *Tank {
	for _, t := range s.Tanks {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// UpdateSystem advances every channel, then every tank, by dt seconds.
func UpdateSystem(s *System, dt float64) {
	for _, c := range s.Controllables {
		c.Update(dt)
	}
	for _, t := range s.Tanks {
		t.Update(dt)
	}
}
