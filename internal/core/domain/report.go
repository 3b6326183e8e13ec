package domain

// CandidateOutcome is the per-candidate detail line of the operator report.
type CandidateOutcome struct {
	CandidateID    CandidateID    `json:"candidate_id"`
	ResourceARN    string         `json:"resource_arn"`
	ResourceType   ResourceType   `json:"resource_type"`
	Region         string         `json:"region"`
	Tier           Tier           `json:"tier"`
	Synthetic      bool           `json:"synthetic,omitempty"`
	State          CandidateState `json:"state"`
	Attempts       int            `json:"attempts"`
	ErrorClass     ErrorClass     `json:"error_class,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	CancelledAfter bool           `json:"cancelled_after,omitempty"`
}

// RestoreReport is the final report handed to the presentation layer.
// Skipped is idempotent success and is never reported as failure.
type RestoreReport struct {
	Operation Operation          `json:"operation"`
	Planned   int                `json:"planned"`
	Protected int                `json:"protected"`
	Succeeded int                `json:"succeeded"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Outcomes  []CandidateOutcome `json:"outcomes"`
	Blocked   []BlockedResource  `json:"blocked,omitempty"`
}
