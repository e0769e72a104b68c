package domain

// SignupKind distinguishes the two email lists the landing page feeds.
type SignupKind string

const (
	SignupWaitlist   SignupKind = "waitlist"
	SignupNewsletter SignupKind = "newsletter"
)
