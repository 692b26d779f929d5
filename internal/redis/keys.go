package redisx

import "fmt"

const ns = "touristguide:v1"

func KeyAvailability(activityID, date string) string {
	return fmt.Sprintf("%s:activity:%s:availability:%s", ns, activityID, date)
}

func KeyActivity(activityID string) string {
	return fmt.Sprintf("%s:activity:%s:detail", ns, activityID)
}

func KeyHostSchedule(hostID string) string {
	return fmt.Sprintf("%s:host:%s:schedule", ns, hostID)
}

// KeyRateLimit is the limiter's key prefix for one scope; the limiter
// appends the client identity.
func KeyRateLimit(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func ChannelActivitiesChanged() string {
	return ns + ":activities:changed"
}
