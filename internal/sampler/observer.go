package sampler

import "github.com/eykd/barcodegen/internal/domain"

// Observer receives run events. Observers only watch; they cannot steer the
// run. Rejected may be called concurrently when more than one worker runs.
type Observer interface {
	// Rejected is called for every discarded candidate.
	Rejected(r Rejection)
	// Accepted is called once per new barcode. distances holds the Hamming
	// distance to each earlier barcode when debugging is enabled, else nil.
	Accepted(bc domain.Barcode, distances []int)
	// Progress is called whenever the library size is a multiple of 5.
	Progress(accepted int)
}

// NopObserver ignores every event.
type NopObserver struct{}

// Rejected does nothing.
func (NopObserver) Rejected(Rejection) {}

// Accepted does nothing.
func (NopObserver) Accepted(domain.Barcode, []int) {}

// Progress does nothing.
func (NopObserver) Progress(int) {}

// Observers fans every event out to each member in order.
type Observers []Observer

// Rejected forwards r to every observer.
func (obs Observers) Rejected(r Rejection) {
	for _, o := range obs {
		o.Rejected(r)
	}
}

// Accepted forwards bc and its distances to every observer.
func (obs Observers) Accepted(bc domain.Barcode, distances []int) {
	for _, o := range obs {
		o.Accepted(bc, distances)
	}
}

// Progress forwards the library size to every observer.
func (obs Observers) Progress(accepted int) {
	for _, o := range obs {
		o.Progress(accepted)
	}
}
