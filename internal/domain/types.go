package domain

import "time"

type ListingStatus string

const (
	ListingList       ListingStatus = "List"
	ListingUnList     ListingStatus = "UnList"
	ListingDeactivate ListingStatus = "Deactivate"
)

type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "Pending"
	ModerationAccepted ModerationStatus = "Accepted"
	ModerationRejected ModerationStatus = "Rejected"
)

// Activity is a host's offered experience. StartTime/EndTime carry only a
// time of day; DateRange bounds the bookable calendar dates.
type Activity struct {
	ID               string           `json:"activityId"`
	HostID           string           `json:"hostId"`
	HostName         string           `json:"hostName"`
	Title            string           `json:"activityTitle"`
	Address          string           `json:"address"`
	City             string           `json:"city"`
	StartTime        string           `json:"startTime"`
	EndTime          string           `json:"endTime"`
	DurationHours    int              `json:"duration"`
	StartDate        time.Time        `json:"startDate"`
	EndDate          time.Time        `json:"endDate"`
	MaxGuestsPerTime int              `json:"maxGuestsPerTime"`
	MaxGuestsPerDay  int              `json:"maxGuestsPerDay"`
	PricePerGuest    int64            `json:"pricePerGuest"`
	ListingStatus    ListingStatus    `json:"listingStatus"`
	Status           ModerationStatus `json:"status"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// ActivityUpdate carries a partial schedule edit; nil fields are untouched.
type ActivityUpdate struct {
	StartDate        *time.Time
	EndDate          *time.Time
	StartTime        *string
	EndTime          *string
	DurationHours    *int
	MaxGuestsPerTime *int
	MaxGuestsPerDay  *int
	PricePerGuest    *int64
	ListingStatus    *ListingStatus
	Address          *string
	City             *string
}

// BookingRecord is one confirmed reservation. Created exactly once per
// successful commit; afterwards only the feedback/reminder flags flip.
type BookingRecord struct {
	ID               string    `json:"bookingId"`
	ActivityID       string    `json:"activityId"`
	HostID           string    `json:"hostId"`
	UserID           string    `json:"userId"`
	Date             time.Time `json:"date"`
	SlotID           string    `json:"slotId"`
	RequestedGuests  int       `json:"requestedGuests"`
	PaymentIntentID  string    `json:"paymentIntentId"`
	AmountMinor      int64     `json:"amountMinor"`
	HostShareMinor   int64     `json:"hostShareMinor"`
	PlatformFeeMinor int64     `json:"platformFeeMinor"`
	ReviewEligibleAt time.Time `json:"reviewEligibleAt"`
	HasFeedback      bool      `json:"hasFeedback"`
	ReminderSent     bool      `json:"feedbackReminderSent"`
	CreatedAt        time.Time `json:"createdAt"`
}

// DayCapacity is the committed counter state for one activity-day.
type DayCapacity struct {
	TotalGuestsForDay int
	Slots             map[string]int // slotID -> totalGuestsBooked
}

// PaymentIntent mirrors the external payment oracle's view of an intent.
// The engine only ever reads Status.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
}

// PaymentRecord is the side ledger entry keyed by intent id, written at
// most once per intent.
type PaymentRecord struct {
	PaymentIntentID  string    `json:"paymentIntentId"`
	BookingID        string    `json:"bookingId"`
	ActivityID       string    `json:"activityId"`
	HostID           string    `json:"hostId"`
	UserID           string    `json:"userId"`
	AmountMinor      int64     `json:"amountMinor"`
	HostShareMinor   int64     `json:"hostShareMinor"`
	PlatformFeeMinor int64     `json:"platformFeeMinor"`
	CreatedAt        time.Time `json:"createdAt"`
}

// HostEarnings aggregates a host's payment records.
type HostEarnings struct {
	Bookings         int             `json:"bookings"`
	GrossMinor       int64           `json:"grossMinor"`
	HostShareMinor   int64           `json:"hostShareMinor"`
	PlatformFeeMinor int64           `json:"platformFeeMinor"`
	Payments         []PaymentRecord `json:"payments"`
}

type User struct {
	ID    string `json:"userId"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
