package transfer

type GenerateRequest struct {
	Topic             string   `json:"topic"`
	Platforms         []string `json:"platforms"`
	Tone              string   `json:"tone"`
	AdditionalContext string   `json:"additional_context"`
}

type GeneratedContent struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}

type GeneratedItem struct {
	Platform string   `json:"platform"`
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
	PostID   int64    `json:"post_id"`
	Status   string   `json:"status"`
}

type GenerateResponse struct {
	TopicID   int64           `json:"topic_id"`
	TopicName string          `json:"topic_name"`
	Posts     []GeneratedItem `json:"posts"`
}

type TopicInfo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
	CreatedAt   string `json:"created_at"`
	PostCount   int    `json:"post_count"`
}
