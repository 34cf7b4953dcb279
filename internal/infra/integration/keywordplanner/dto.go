package keywordplanner

type searchVolumeTask struct {
	Keywords     []string `json:"keywords"`
	LocationName string   `json:"location_name,omitempty"`
	LanguageCode string   `json:"language_code,omitempty"`
}

type searchVolumeResponse struct {
	StatusCode    int                      `json:"status_code"`
	StatusMessage string                   `json:"status_message"`
	Tasks         []searchVolumeTaskResult `json:"tasks"`
}

type searchVolumeTaskResult struct {
	StatusCode    int                  `json:"status_code"`
	StatusMessage string               `json:"status_message"`
	Result        []searchVolumeResult `json:"result"`
}

type searchVolumeResult struct {
	Keyword          string   `json:"keyword"`
	SearchVolume     *int64   `json:"search_volume"`
	CompetitionIndex *float64 `json:"competition_index"`
	CPC              *float64 `json:"cpc"`
}
