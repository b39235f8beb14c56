package service

// MetricsRecorder counts alert workflow outcomes
type MetricsRecorder interface {
	AlertDispatched(severity string)
	SMSRecorded(deliveryStatus string)
}
