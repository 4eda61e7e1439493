package domain

import "time"

// ActivityLayout is the timestamp layout of activity log lines.
const ActivityLayout = "2006-01-02 15:04:05"

const (
	ActivityMenuSaved       = "menu_saved"
	ActivityMenuPublished   = "menu_published"
	ActivityMenuCopied      = "menu_copied"
	ActivityLogin           = "login"
	ActivityLoginFailed     = "login_failed"
	ActivityLogout          = "logout"
	ActivityPasswordChanged = "password_changed"
)

// ActivityEntry is one line of the append-only activity log.
type ActivityEntry struct {
	Timestamp string            `json:"timestamp"`
	User      string            `json:"user"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details"`
	IP        string            `json:"ip"`
}

// NewActivityEntry fills defaults for anonymous and unknown-peer events.
func NewActivityEntry(at time.Time, user, action string, details map[string]string, ip string) ActivityEntry {
	if user == "" {
		user = "anonymous"
	}
	if ip == "" {
		ip = "unknown"
	}
	if details == nil {
		details = map[string]string{}
	}
	return ActivityEntry{
		Timestamp: at.Format(ActivityLayout),
		User:      user,
		Action:    action,
		Details:   details,
		IP:        ip,
	}
}
