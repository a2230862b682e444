package notification

import "time"

// Record is the proof of one confirmed delivery. It is written strictly
// after the downstream channel acknowledged the message, never before.
type Record struct {
	ID         string
	ValueBetID string
	// MessageID is the identifier the delivery channel returned on success.
	MessageID int64
	Channel   string
	SentAt    time.Time
}

const ChannelTelegram = "telegram"
