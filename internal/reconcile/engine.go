package reconcile

import (
	"github.com/roach88/docmerge/internal/record"
)

const (
	// DefaultCheckEvery is how many source records are examined between
	// progress events.
	DefaultCheckEvery = 10_000

	// DefaultFoundEvery is how many missing records are found between
	// progress events.
	DefaultFoundEvery = 1_000
)

// Delta is the list of source records absent from the target, in source
// set order. It lives for one run only.
type Delta []record.Record

// Engine computes the Delta of two loaded collections.
type Engine struct {
	// CheckEvery and FoundEvery are progress intervals; values below 1
	// mean the defaults.
	CheckEvery int
	FoundEvery int
	Reporter   Reporter
}

// Diff returns every record of source that target does not contain.
//
// Membership uses the target's hash index, so a diff is one lookup per
// distinct source record. An empty source yields an empty Delta; an empty
// target yields all of source.
func (e *Engine) Diff(source, target *record.Set) Delta {
	checkEvery := e.CheckEvery
	if checkEvery < 1 {
		checkEvery = DefaultCheckEvery
	}
	foundEvery := e.FoundEvery
	if foundEvery < 1 {
		foundEvery = DefaultFoundEvery
	}

	emit(e.Reporter, Event{Kind: EventDiffStarted})

	delta := Delta{}
	checked := 0
	for r := range source.All() {
		checked++
		if checked%checkEvery == 0 {
			emit(e.Reporter, Event{Kind: EventDiffChecked, Count: checked})
		}

		if target.Contains(r) {
			continue
		}
		delta = append(delta, r)
		if len(delta)%foundEvery == 0 {
			emit(e.Reporter, Event{Kind: EventDiffFound, Count: len(delta)})
		}
	}

	emit(e.Reporter, Event{Kind: EventDiffCompleted, Count: len(delta)})
	return delta
}
