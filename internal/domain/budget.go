package domain

// PostingState is the persisted counter record for one action type.
type PostingState struct {
	Count int `json:"count"`
	// PeriodStart is the ISO date (YYYY-MM-DD) of the day or of the Monday
	// opening the week the counter belongs to.
	PeriodStart string `json:"period_start"`
	FailedCount int    `json:"failed_count"`
}
