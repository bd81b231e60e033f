package service

import "sync"

// vehicleLocks serializes booking creation per vehicle. The critical section
// in Create (availability check, quote, guarded insert) is a check-then-act
// race; holding the vehicle's mutex for its duration means two concurrent
// bookings for the same vehicle cannot interleave, while bookings for
// different vehicles proceed fully in parallel.
type vehicleLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newVehicleLocks() *vehicleLocks {
	return &vehicleLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for vehicleID and returns its release func.
func (vl *vehicleLocks) acquire(vehicleID string) func() {
	vl.mu.Lock()
	m, ok := vl.locks[vehicleID]
	if !ok {
		m = &sync.Mutex{}
		vl.locks[vehicleID] = m
	}
	vl.mu.Unlock()

	m.Lock()
	return m.Unlock
}
