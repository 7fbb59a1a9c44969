package transfer

type PostUpdate struct {
	Content  string  `json:"content"`
	Hashtags *string `json:"hashtags"`
}

type PostApproval struct {
	ScheduledTime string `json:"scheduled_time"` // RFC 3339, empty means publish on next tick
}

type PostStats struct {
	Draft   int `json:"draft"`
	Pending int `json:"pending"`
	Posted  int `json:"posted"`
	Failed  int `json:"failed"`
	Total   int `json:"total"`
}

type ManualPostCreation struct {
	Content       string
	Platforms     string // comma-separated
	ImageURL      string
	ScheduledTime string
}

type ManualPostResult struct {
	Platform string `json:"platform"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	PostID   int64  `json:"post_id"`
}

type PublishResult struct {
	Success bool   `json:"success"`
	PostID  string `json:"post_id,omitempty"`
	Message string `json:"message,omitempty"`
	Mock    bool   `json:"mock,omitempty"`
}
