package status

// Reporter adapts a Line to the notification manager's status
// callbacks.
type Reporter struct {
	line *Line
}

// NewReporter creates a reporter that drives the given line.
func NewReporter(line *Line) *Reporter {
	return &Reporter{line: line}
}

// ReportSending marks a notification as in flight.
func (r *Reporter) ReportSending() {
	if r.line != nil {
		r.line.SetDelivery(DeliverySending)
	}
}

// ReportSuccess marks the last notification as delivered.
func (r *Reporter) ReportSuccess() {
	if r.line != nil {
		r.line.SetDelivery(DeliveryOK)
	}
}

// ReportFailure marks the last notification as failed.
func (r *Reporter) ReportFailure() {
	if r.line != nil {
		r.line.SetDelivery(DeliveryFailed)
	}
}
