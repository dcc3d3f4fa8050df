package waitlist

// JoinWaitlistRequest accepts any string; an empty one is reported by the submitter.
type JoinWaitlistRequest struct {
	Email string `json:"email" form:"email"`
}

type JoinWaitlistResponse struct {
	Email  string `json:"email"`
	Status string `json:"status"`
}

// JoinResult is the outcome of one submission attempt as seen by the visitor.
type JoinResult struct {
	Notification Notification
	// Email is what the form should show next: empty after success, unchanged otherwise.
	Email   string
	Outcome string
}

const OutcomeInvalid = "invalid"

func ToJoinWaitlistResponse(result *JoinResult) JoinWaitlistResponse {
	return JoinWaitlistResponse{
		Email:  result.Email,
		Status: result.Outcome,
	}
}
