package model

type IssueAPIKeyRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

type IssueAPIKeyResponse struct {
	APIKey       string `json:"api_key"`
	KeyID        string `json:"key_id"`
	Plan         string `json:"plan"`
	RequestLimit int    `json:"request_limit"`
	ExpiresAt    string `json:"expires_at"`
	Message      string `json:"message"`
}

type GetKeyInfoRequest struct{}

type GetKeyInfoResponse struct {
	KeyID         string `json:"key_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Plan          string `json:"plan"`
	RequestsMade  int    `json:"requests_made"`
	RequestLimit  int    `json:"request_limit"`
	RequestsToday int    `json:"requests_today"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	ExpiresAt     string `json:"expires_at"`
	LastUsedAt    string `json:"last_used_at,omitempty"`
}

type RevokeAPIKeyRequest struct {
	KeyID string `json:"key_id"`
}

type RevokeAPIKeyResponse struct{}

type UsageRecord struct {
	KeyID     string `json:"key_id"`
	SessionID string `json:"session_id,omitempty"`
	Endpoint  string `json:"endpoint"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
	Timestamp string `json:"timestamp"`
}

type GetUsageLogsRequest struct {
	KeyID  string `json:"key_id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetUsageLogsResponse struct {
	Logs []UsageRecord `json:"logs"`
}
