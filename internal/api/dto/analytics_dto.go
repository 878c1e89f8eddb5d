package dto

type OverviewDTO struct {
	TotalKOLs           int64   `json:"total_kols"`
	NewKOLsThisWeek     int64   `json:"new_kols_this_week"`
	ContactedThisWeek   int64   `json:"contacted_this_week"`
	OverallResponseRate float64 `json:"overall_response_rate"`
	WeeklyResponseRate  float64 `json:"weekly_response_rate"`
	ActivePartnerships  int64   `json:"active_partnerships"`
	PendingFollowups    int64   `json:"pending_followups"`
}

type RangeCountDTO struct {
	Range string `json:"range"`
	Count int64  `json:"count"`
}

type LevelCountDTO struct {
	Level string `json:"level"`
	Count int64  `json:"count"`
}

type CategoryCountDTO struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DistributionsDTO struct {
	ByFollowerCount   []RangeCountDTO    `json:"by_follower_count"`
	ByQualityScore    []LevelCountDTO    `json:"by_quality_score"`
	ByContentCategory []CategoryCountDTO `json:"by_content_category"`
	ByStatus          []StatusCountDTO   `json:"by_status"`
}

type TemplateEffectivenessDTO struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	UseCount        int      `json:"use_count"`
	ResponseCount   int      `json:"response_count"`
	ResponseRate    float64  `json:"response_rate"`
	AvgResponseTime *float64 `json:"avg_response_time"`
}

type TimelineQueryDTO struct {
	Days int `form:"days" validate:"omitempty,min=1,max=90"`
}

type TimelinePointDTO struct {
	Date           string `json:"date"`
	ContactsCount  int    `json:"contacts_count"`
	ResponsesCount int    `json:"responses_count"`
}

type OverviewQueryDTO struct {
	Days int `form:"days" validate:"omitempty,min=1,max=365"`
}
