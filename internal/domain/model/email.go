package model

// Email is a transport-agnostic mail message for the mail sink.
// Sender and recipient addresses are fixed by the mail adapter's
// configuration; only the per-request parts travel here.
type Email struct {
	FromName    string
	Cc          string
	Subject     string
	HTML        string
	Attachments []Attachment
}
