package types

type Spin bool

const (
	SpinLeft  Spin = false
	SpinRight Spin = true
)

func (s Spin) Letter() string {
	if s == SpinRight {
		return "R"
	}
	return "L"
}

func (s Spin) String() string {
	if s == SpinRight {
		return "right"
	}
	return "left"
}

const (
	MinSpeed = 0
	MaxSpeed = 9
)

// MotorConfig is the editable configuration of one motor. ID is assigned
// at creation and never changes.
type MotorConfig struct {
	ID    int
	Power bool
	Speed int
	Spin  Spin
}

// PowerLabel is padded to three characters so " ON" fully covers "OFF".
func (m MotorConfig) PowerLabel() string {
	if m.Power {
		return " ON"
	}
	return "OFF"
}
