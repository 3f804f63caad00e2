package model

// LineItem is one row of a purchase request: what is being asked for
// and how much of it. Quantity stays free-form text.
type LineItem struct {
	Description string
	Quantity    string
}

// Attachment carries an uploaded file by original filename and content.
type Attachment struct {
	Filename string
	Data     []byte
}

// Present reports whether the attachment should be forwarded at all.
// Zero-size uploads count as absent.
func (a Attachment) Present() bool {
	return a.Filename != "" && len(a.Data) > 0
}

// PurchaseRequest is one decoded submission, built once per request
// and consumed by the mail and webhook sinks.
type PurchaseRequest struct {
	Date          string
	Sector        string
	RequestedBy   string
	Urgency       string
	Justification string
	CcEmail       string
	Items         []LineItem
	Photo         Attachment
}
