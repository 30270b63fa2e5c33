package grayjay

// ScheduleResponse is the envelope the master schedule endpoint returns.
type ScheduleResponse struct {
	Status string         `json:"status"`
	Data   []ScheduleItem `json:"data"`
}

// ScheduleItem is one raw entry from the master schedule feed. The feed
// mixes two record shapes in the same list: games carry the game_* fields,
// practices and other team-schedule entries carry the team_schedule_* fields.
// GameID is the shape discriminator.
type ScheduleItem struct {
	GameID        *int    `json:"game_id"`
	GameDate      *string `json:"game_date"`
	GameStartTime *string `json:"game_start_time"`
	GameEndTime   *string `json:"game_end_time"`
	TeamAName     *string `json:"team_a_name"`
	TeamBName     *string `json:"team_b_name"`
	DivisionName  *string `json:"division_name"`

	TeamScheduleDate      *string `json:"team_schedule_date"`
	TeamScheduleStartTime *string `json:"team_schedule_start_time"`
	TeamScheduleEndTime   *string `json:"team_schedule_end_time"`
	TeamScheduleTypeID    *int    `json:"team_schedule_type_id"`
	TeamName              *string `json:"team_name"`

	LeagueName *string `json:"league_name"`
	VenueName  *string `json:"venue_name"`
}

// IsGame reports whether the item uses the game record shape.
func (i ScheduleItem) IsGame() bool {
	return i.GameID != nil
}
