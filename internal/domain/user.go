package domain

import "time"

// Learner is a Telegram chat allowed to use the bot.
// All authorized chats practice on the same knowledge.
type Learner struct {
	UserID     int64
	Authorized bool
	CourseKey  string
	CreatedAt  time.Time
}
