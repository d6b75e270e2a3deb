// internal/game/events.go
//
// Outbound notifications from the engine.
// The engine never renders, plays audio, or animates; it reports what happened
// through a Sink and the caller decides how (and when) to show it.

package game

// Sink receives fire-and-forget notifications. The engine never reads anything back.
type Sink interface {
	ScoreDelta(amount int)
	Combo(label string)
	Destroyed(p Pos)
	ClusterExploded(p Pos)
	NoMatch()
	ReenableInput()
}

// EventKind names a notification.
type EventKind string

const (
	EventScore    EventKind = "score"
	EventCombo    EventKind = "combo"
	EventDestroy  EventKind = "destroy"
	EventExplode  EventKind = "explode"
	EventNoMatch  EventKind = "no_match"
	EventReenable EventKind = "reenable"
)

// Combo labels emitted besides the "<n>X" combo counter.
const (
	LabelPerfect = "PERFECT"
	LabelLevelUp = "LEVEL UP"
	LabelKeepOn  = "KEEP ON"
)

// Event is one recorded notification.
type Event struct {
	Kind   EventKind `json:"kind"             msgpack:"kind"`
	Amount int       `json:"amount,omitempty" msgpack:"amount,omitempty"`
	Label  string    `json:"label,omitempty"  msgpack:"label,omitempty"`
	At     *Pos      `json:"at,omitempty"     msgpack:"at,omitempty"`
}

// Recorder is a Sink that keeps events in emission order.
type Recorder struct {
	events []Event
}

func (r *Recorder) ScoreDelta(amount int) {
	r.events = append(r.events, Event{Kind: EventScore, Amount: amount})
}

func (r *Recorder) Combo(label string) {
	r.events = append(r.events, Event{Kind: EventCombo, Label: label})
}

func (r *Recorder) Destroyed(p Pos) {
	r.events = append(r.events, Event{Kind: EventDestroy, At: &p})
}

func (r *Recorder) ClusterExploded(p Pos) {
	r.events = append(r.events, Event{Kind: EventExplode, At: &p})
}

func (r *Recorder) NoMatch() { r.events = append(r.events, Event{Kind: EventNoMatch}) }

func (r *Recorder) ReenableInput() { r.events = append(r.events, Event{Kind: EventReenable}) }

// Events returns what has been recorded since the last Drain.
func (r *Recorder) Events() []Event { return r.events }

// Drain returns the recorded events and starts a fresh batch.
func (r *Recorder) Drain() []Event {
	out := r.events
	r.events = nil
	return out
}

// ScoreTotal sums every score event in evs.
func ScoreTotal(evs []Event) int {
	total := 0
	for _, e := range evs {
		if e.Kind == EventScore {
			total += e.Amount
		}
	}
	return total
}

// Labels lists the combo labels in evs.
func Labels(evs []Event) []string {
	var out []string
	for _, e := range evs {
		if e.Kind == EventCombo {
			out = append(out, e.Label)
		}
	}
	return out
}
