package idgen

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sony/sonyflake"
)

// Epoch is the sonyflake start time; ids count from here.
var Epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SonyFlakeGenerator allocates positive int64 ids that increase roughly in time order.
type SonyFlakeGenerator struct {
	sf *sonyflake.Sonyflake
}

// NewFlakeGenerator builds a generator. A zero machineID lets sonyflake derive
// one from the host's private IP address.
func NewFlakeGenerator(machineID uint16) (*SonyFlakeGenerator, error) {
	settings := sonyflake.Settings{
		StartTime: Epoch,
	}
	if machineID != 0 {
		settings.MachineID = func() (uint16, error) { return machineID, nil }
	}

	sf, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create sonyflake: %w", err)
	}
	if sf == nil {
		return nil, errors.New("failed to create Sonyflake instance")
	}
	return &SonyFlakeGenerator{sf: sf}, nil
}

// NextID returns the next id.
func (g *SonyFlakeGenerator) NextID() (int64, error) {
	v, err := g.sf.NextID()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate id: %w", err)
	}
	return int64(v), nil
}

// Sequence hands out consecutive ids starting after its initial value.
// Tests use it for deterministic identities.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a Sequence whose first id is start+1.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

func (s *Sequence) NextID() (int64, error) {
	return s.last.Add(1), nil
}
