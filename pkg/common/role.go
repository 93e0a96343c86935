package common

type Role string

const (
	// Staff are laboratory engineers: they triage orders, demote them
	// back to draft and advance them past DELIVERED.
	Staff Role = "staff"
	// Submitters create genrequests and deliver draft orders.
	Submitter Role = "submitter"
)
