// The request registry is the single source of truth for what transport work
// remains: deduplicated hall calls and car calls, resolved when an elevator
// opens its doors at the matching floor.

package sim

import "sort"

type hallKey struct {
	floor     int
	direction Direction
}

type carKey struct {
	elevator int
	floor    int
}

// Registry tracks outstanding hall and car calls. It is owned by the engine
// and mutated only inside the tick loop; it carries no locking of its own.
type Registry struct {
	hall map[hallKey]*HallCall
	car  map[carKey]*CarCall

	// seq breaks creation-tick ties deterministically: calls registered in
	// the same tick keep their registration order in Pending().
	seq     map[any]int64
	nextSeq int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		hall: make(map[hallKey]*HallCall),
		car:  make(map[carKey]*CarCall),
		seq:  make(map[any]int64),
	}
}

// RegisterHallCall inserts a hall call if absent. Re-pressing an already lit
// button is a no-op, not an error; the return value reports whether a new
// call was created.
func (r *Registry) RegisterHallCall(floor int, direction Direction, tick int64) bool {
	if direction == DirectionNone {
		return false
	}
	key := hallKey{floor: floor, direction: direction}
	if _, exists := r.hall[key]; exists {
		return false
	}
	r.hall[key] = &HallCall{Floor: floor, Direction: direction, Tick: tick, Assigned: -1}
	r.seq[key] = r.nextSeq
	r.nextSeq++
	return true
}

// RegisterCarCall inserts a car call if absent. Duplicate presses of the same
// destination inside the same car collapse to one stop.
func (r *Registry) RegisterCarCall(elevator, floor int, tick int64) bool {
	key := carKey{elevator: elevator, floor: floor}
	if _, exists := r.car[key]; exists {
		return false
	}
	r.car[key] = &CarCall{Elevator: elevator, Floor: floor, Tick: tick}
	r.seq[key] = r.nextSeq
	r.nextSeq++
	return true
}

// HallCall returns the outstanding call for (floor, direction), or nil.
func (r *Registry) HallCall(floor int, direction Direction) *HallCall {
	return r.hall[hallKey{floor: floor, direction: direction}]
}

// HasCarCall reports whether the given car has a stop registered for floor.
func (r *Registry) HasCarCall(elevator, floor int) bool {
	_, ok := r.car[carKey{elevator: elevator, floor: floor}]
	return ok
}

// ResolveHallCall removes the (floor, direction) hall call. Reports whether
// a call was actually resolved.
func (r *Registry) ResolveHallCall(floor int, direction Direction) bool {
	key := hallKey{floor: floor, direction: direction}
	if _, ok := r.hall[key]; !ok {
		return false
	}
	delete(r.hall, key)
	delete(r.seq, key)
	return true
}

// ResolveCarCall removes the (elevator, floor) car call. Reports whether a
// call was actually resolved.
func (r *Registry) ResolveCarCall(elevator, floor int) bool {
	key := carKey{elevator: elevator, floor: floor}
	if _, ok := r.car[key]; !ok {
		return false
	}
	delete(r.car, key)
	delete(r.seq, key)
	return true
}

// UnassignedHallCalls returns outstanding hall calls not yet routed to a car,
// oldest first. The default dispatch policy iterates this.
func (r *Registry) UnassignedHallCalls() []*HallCall {
	calls := make([]*HallCall, 0, len(r.hall))
	for _, hc := range r.hall {
		if hc.Assigned < 0 {
			calls = append(calls, hc)
		}
	}
	sort.Slice(calls, func(i, j int) bool {
		ki := hallKey{floor: calls[i].Floor, direction: calls[i].Direction}
		kj := hallKey{floor: calls[j].Floor, direction: calls[j].Direction}
		return r.seq[ki] < r.seq[kj]
	})
	return calls
}

// Pending produces a fresh read-only snapshot of all unresolved requests,
// ordered by creation tick (oldest first, registration order within a tick).
// Callers may iterate it any number of times; it never aliases live state.
func (r *Registry) Pending() []PendingRequest {
	type entry struct {
		req PendingRequest
		seq int64
	}
	entries := make([]entry, 0, len(r.hall)+len(r.car))
	for key, hc := range r.hall {
		entries = append(entries, entry{
			req: PendingRequest{
				Kind:      RequestHall,
				Floor:     hc.Floor,
				Direction: hc.Direction,
				Elevator:  hc.Assigned,
				Tick:      hc.Tick,
			},
			seq: r.seq[key],
		})
	}
	for key, cc := range r.car {
		entries = append(entries, entry{
			req: PendingRequest{
				Kind:     RequestCar,
				Floor:    cc.Floor,
				Elevator: cc.Elevator,
				Tick:     cc.Tick,
			},
			seq: r.seq[key],
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].req.Tick != entries[j].req.Tick {
			return entries[i].req.Tick < entries[j].req.Tick
		}
		return entries[i].seq < entries[j].seq
	})
	pending := make([]PendingRequest, len(entries))
	for i, e := range entries {
		pending[i] = e.req
	}
	return pending
}

// Len returns the number of unresolved requests of both kinds.
func (r *Registry) Len() int {
	return len(r.hall) + len(r.car)
}
