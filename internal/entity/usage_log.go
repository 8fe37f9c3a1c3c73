package entity

type UsageLog struct {
	SnowFlakeBase

	KeyID     string `gorm:"index"`
	SessionID string
	Endpoint  string
	IPAddress string
	UserAgent string
}

func (UsageLog) TableName() string {
	return "api_usage"
}
