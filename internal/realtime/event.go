package realtime

// Event is the wire message fanned out to connected clients. Two kinds
// exist: a "donation" event carrying the amount, and a bare "donor"
// event signalling one more supporter.
type Event struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount,omitempty"`
}

const (
	EventDonation = "donation"
	EventDonor    = "donor"
)

// DonationEvent builds the event announcing a donated amount.
func DonationEvent(amount float64) Event {
	return Event{Type: EventDonation, Amount: amount}
}

// DonorEvent builds the event announcing a new supporter.
func DonorEvent() Event {
	return Event{Type: EventDonor}
}
