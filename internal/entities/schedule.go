package entities

// BusinessHoursEntry is one weekday of the weekly schedule as submitted by
// the admin dashboard. The full 7-entry schedule is replaced in one call.
type BusinessHoursEntry struct {
	DayOfWeek int    `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime string `json:"start_time"`  // "HH:MM"
	EndTime   string `json:"end_time"`
	IsActive  bool   `json:"is_active"`
}

type TimeBlockRequest struct {
	Date      string `json:"date"` // "YYYY-MM-DD"
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
	Type      string `json:"type"` // time_off | maintenance | other
}

type TimeBlockResponse struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
	Type      string `json:"type"`
}
