package notify

import (
	"fmt"
	"strconv"
	"time"
)

// MaxBadge is the largest count rendered literally in the unread badge.
const MaxBadge = 9

// Badge renders the unread count for the bell icon. Zero renders as the
// empty string so callers can hide the badge.
func Badge(unread int) string {
	switch {
	case unread <= 0:
		return ""
	case unread > MaxBadge:
		return strconv.Itoa(MaxBadge) + "+"
	default:
		return strconv.Itoa(unread)
	}
}

// TimeAgo renders createdAt relative to now.
func TimeAgo(createdAt, now time.Time) string {
	d := now.Sub(createdAt)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return createdAt.Local().Format("Jan 2, 2006")
	}
}
