package service

// Broadcaster pushes live events to the employer dashboard and the applicant
// screening portal. The ws hub implements it; services treat it as optional.
type Broadcaster interface {
	BroadcastToEmployer(employerID string, msgType string, payload interface{})
	BroadcastToScreening(screeningID string, msgType string, payload interface{})
}
