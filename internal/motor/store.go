// Package motor holds the fixed set of motor configurations edited by the menu.
package motor

import (
	"errors"
	"fmt"

	"motor-menu/internal/types"
)

// Count is the number of physical motors. It never changes at runtime.
const Count = 2

var (
	ErrUnknownMotor    = errors.New("unknown motor")
	ErrSpeedOutOfRange = errors.New("speed out of range")
)

// Store owns the motor configurations. It is touched only by the task
// goroutine and therefore carries no lock.
type Store struct {
	motors [Count]types.MotorConfig
}

// NewStore returns a store with identities 0..Count-1 and zeroed fields.
func NewStore() *Store {
	s := &Store{}
	for i := range s.motors {
		s.motors[i] = types.MotorConfig{ID: i}
	}
	return s
}

func (s *Store) Len() int {
	return len(s.motors)
}

func (s *Store) Get(id int) (types.MotorConfig, error) {
	if err := s.check(id); err != nil {
		return types.MotorConfig{}, err
	}
	return s.motors[id], nil
}

// All returns a copy of every motor, ordered by identity.
func (s *Store) All() [Count]types.MotorConfig {
	return s.motors
}

func (s *Store) SetPower(id int, on bool) error {
	if err := s.check(id); err != nil {
		return err
	}
	s.motors[id].Power = on
	return nil
}

func (s *Store) SetSpeed(id int, speed int) error {
	if err := s.check(id); err != nil {
		return err
	}
	if speed < types.MinSpeed || speed > types.MaxSpeed {
		return fmt.Errorf("%w: %d", ErrSpeedOutOfRange, speed)
	}
	s.motors[id].Speed = speed
	return nil
}

func (s *Store) SetSpin(id int, spin types.Spin) error {
	if err := s.check(id); err != nil {
		return err
	}
	s.motors[id].Spin = spin
	return nil
}

func (s *Store) check(id int) error {
	if id < 0 || id >= len(s.motors) {
		return fmt.Errorf("%w: %d", ErrUnknownMotor, id)
	}
	return nil
}
