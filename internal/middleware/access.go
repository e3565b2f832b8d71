package middleware

import (
	"github.com/sirupsen/logrus"
)

// AllowList is the optional closed set of permitted user IDs. An empty
// list permits everyone.
type AllowList struct {
	ids    map[int64]struct{}
	logger *logrus.Logger
}

// NewAllowList creates an allow-list from the configured user IDs.
func NewAllowList(userIDs []int64, logger *logrus.Logger) *AllowList {
	ids := make(map[int64]struct{}, len(userIDs))
	for _, id := range userIDs {
		ids[id] = struct{}{}
	}
	return &AllowList{ids: ids, logger: logger}
}

// Allowed reports whether the user may interact with the bot.
func (a *AllowList) Allowed(userID int64) bool {
	if len(a.ids) == 0 {
		return true
	}
	if _, ok := a.ids[userID]; ok {
		return true
	}
	a.logger.WithField("user_id", userID).Warn("Access denied")
	return false
}
