package transfer

type ApiKeyCreation struct {
	KeyType     string            `json:"key_type"`
	ApiKey      string            `json:"api_key"`
	KeyName     string            `json:"key_name"`
	Credentials map[string]string `json:"credentials"`
}

type ApiKeyUpdate struct {
	ApiKey      string            `json:"api_key"`
	KeyName     string            `json:"key_name"`
	Credentials map[string]string `json:"credentials"`
}

type ApiKeyInfo struct {
	ID        int64  `json:"id"`
	KeyType   string `json:"key_type"`
	KeyName   string `json:"key_name"`
	MaskedKey string `json:"masked_key"`
	IsValid   bool   `json:"is_valid"`
	LastUsed  string `json:"last_used,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ApiKeyStatus struct {
	OpenAI    bool `json:"openai"`
	Gemini    bool `json:"gemini"`
	Anthropic bool `json:"anthropic"`
	Linkedin  bool `json:"linkedin"`
	Instagram bool `json:"instagram"`
	Facebook  bool `json:"facebook"`
}
