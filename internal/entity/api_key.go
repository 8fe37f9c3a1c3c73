package entity

import (
	"time"

	"github.com/theraswitchrx/backend/pkg/enum"
)

type PlanType string

var (
	PlanFree       = enum.New(PlanType("free"))
	PlanBasic      = enum.New(PlanType("basic"))
	PlanPro        = enum.New(PlanType("pro"))
	PlanEnterprise = enum.New(PlanType("enterprise"))
)

// DailyLimit returns the number of keyed requests a plan may make per UTC
// day. A negative limit means unlimited.
func (p PlanType) DailyLimit() int {
	switch p {
	case PlanBasic:
		return 1000
	case PlanPro:
		return 10000
	case PlanEnterprise:
		return -1
	default:
		return 100
	}
}

// APIKey stores only the sha256 digest of an issued key. The ID is the
// plaintext key prefix shown back to users so they can recognize which key
// a record refers to.
type APIKey struct {
	Base

	KeyHash   string `gorm:"uniqueIndex"`
	UserName  string
	UserEmail string `gorm:"uniqueIndex"`
	Plan      PlanType

	RequestsMade int
	RequestLimit int
	LimitResetAt time.Time

	IsActive   bool
	ExpiresAt  time.Time
	LastUsedAt time.Time
}

func (APIKey) TableName() string {
	return "api_keys"
}
