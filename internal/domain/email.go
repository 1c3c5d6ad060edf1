package domain

import "time"

type EmailStatus string

const (
	EmailSent     EmailStatus = "sent"
	EmailPrepared EmailStatus = "prepared"
	EmailFailed   EmailStatus = "failed"
)

// EmailStatusCount is one provider/status line of the email analytics
// summary.
type EmailStatusCount struct {
	Provider string `gorm:"column:provider" json:"provider"`
	Status   string `gorm:"column:status" json:"status"`
	Count    int64  `gorm:"column:count" json:"count"`
}

// EmailRecord is one dispatch attempt written to the email log.
type EmailRecord struct {
	ID           int64       `json:"id"`
	PriceListID  string      `json:"price_list_id"`
	CustomerName string      `json:"customer_name"`
	Recipient    string      `json:"recipient"`
	Provider     string      `json:"provider"`
	Status       EmailStatus `json:"status"`
	Error        string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}
