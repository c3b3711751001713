package foundry

import "iter"

// Entities returns an iterator over every live entity across hosts, in host
// order, each host's entities in dense allocation order. Callers typically
// build hosts via World.Query(matcher). Grounded in warehouse/cursor.go's
// streaming Cursor, re-expressed as a Go 1.23 range-over-func iterator
// instead of a stateful Next()/Entities() object, since iter.Seq already
// gives callers for-range syntax with early-exit support.
func Entities(hosts []*Host) iter.Seq[EntityRef] {
	return func(yield func(EntityRef) bool) {
		for _, host := range hosts {
			for ref := range host.Entities() {
				if !yield(ref) {
					return
				}
			}
		}
	}
}

// Count returns the total number of live entities across hosts, without
// materializing them.
func Count(hosts []*Host) int {
	total := 0
	for _, host := range hosts {
		total += host.Count()
	}
	return total
}

// QueryView is a live, reactively-maintained collection of hosts matching a
// Matcher, per spec.md §4.4: membership is decided once per host, when
// World.HostFor creates it (or World.ClearEmptyHosts removes it), rather
// than by re-testing every host in the world on every read the way
// World.Query does. Grounded in warehouse/cursor.go's streaming Cursor,
// re-expressed as a membership cache a World pushes updates into instead of
// a cursor that re-walks storage on every call.
type QueryView struct {
	matcher Matcher
	hosts   []*Host
}

// QueryView registers and returns a live view over every host currently (and
// from now on) satisfying matcher.
func (w *World) QueryView(matcher Matcher) *QueryView {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := &QueryView{matcher: matcher}
	for _, host := range w.hostsBySig {
		if matcher.Match(host.Archetype()) {
			v.hosts = append(v.hosts, host)
		}
	}
	w.queryViews = append(w.queryViews, v)
	return v
}

// Hosts returns the hosts this view currently matches.
func (v *QueryView) Hosts() []*Host {
	return append([]*Host(nil), v.hosts...)
}

// Entities iterates every live entity across this view's matching hosts.
func (v *QueryView) Entities() iter.Seq[EntityRef] {
	return Entities(v.hosts)
}

// Count returns the total live entity count across this view's hosts.
func (v *QueryView) Count() int {
	return Count(v.hosts)
}

func (v *QueryView) noteHostCreated(host *Host) {
	if v.matcher.Match(host.Archetype()) {
		v.hosts = append(v.hosts, host)
	}
}

func (v *QueryView) noteHostRemoved(host *Host) {
	for i, h := range v.hosts {
		if h == host {
			v.hosts = append(v.hosts[:i:i], v.hosts[i+1:]...)
			return
		}
	}
}
