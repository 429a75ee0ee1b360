package sbl

import "math"

//FloatIterable is the interface for iteration over a collection of candidate thresholds.
type FloatIterable interface {
	HasNext() bool
	GetNext() float64
}

//Sweep iterates over begin, begin+step, begin+2*step, ... while the value stays inside the closed
//interval spanned by begin and end. Values are computed from the step index rather than by
//accumulation so long sweeps do not drift.
type Sweep struct {
	begin, step float64
	pos, count  int
}

//sweepEps absorbs rounding in the count of steps that fit into the interval.
const sweepEps = 1e-9

//NewSweep initializes a new iterator over the closed interval [begin, end] (or [end, begin] for a
//negative step). A zero step or a step pointing away from end yields an empty sweep.
func NewSweep(begin, end, step float64) *Sweep {
	count := 0
	if step != 0 && (end-begin)/step >= 0 {
		count = int(math.Floor((end-begin)/step+sweepEps)) + 1
	}
	return &Sweep{begin: begin, step: step, count: count}
}

//NewHalfOpenSweep iterates over [begin, end) with a positive step.
func NewHalfOpenSweep(begin, end, step float64) *Sweep {
	count := 0
	if step > 0 && end > begin {
		count = int(math.Ceil((end-begin)/step - sweepEps))
	}
	return &Sweep{begin: begin, step: step, count: count}
}

//GetNext returns the next element from the iterator and moves iterator to the next position.
func (s *Sweep) GetNext() float64 {
	val := s.begin + float64(s.pos)*s.step
	s.pos++
	return val
}

//HasNext checks whether there are more values in the iterator.
func (s *Sweep) HasNext() bool {
	return s.pos < s.count
}

//Len returns the total number of values of the sweep.
func (s *Sweep) Len() int {
	return s.count
}
