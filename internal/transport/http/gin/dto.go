package httpgin

import (
	"time"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/domain"
)

type CreatePaymentIntentRequest struct {
	UserID string `json:"userId" binding:"required"`
	Date   string `json:"date" binding:"required"`
	SlotID string `json:"slotId" binding:"required"`
	Guests int    `json:"requestedGuests" binding:"required,gt=0"`
}

type CreateBookingRequest struct {
	UserID          string `json:"userId" binding:"required"`
	Date            string `json:"date" binding:"required"`
	SlotID          string `json:"slotId" binding:"required"`
	Guests          int    `json:"requestedGuests" binding:"required,gt=0"`
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
}

type UpdateScheduleRequest struct {
	StartDate        *string `json:"startDate"`
	EndDate          *string `json:"endDate"`
	StartTime        *string `json:"startTime"`
	EndTime          *string `json:"endTime"`
	DurationHours    *int    `json:"duration"`
	MaxGuestsPerTime *int    `json:"maxGuestsPerTime"`
	MaxGuestsPerDay  *int    `json:"maxGuestsPerDay"`
	PricePerGuest    *int64  `json:"pricePerGuest"`
	ListingStatus    *string `json:"listingStatus"`
	Address          *string `json:"address"`
	City             *string `json:"city"`
}

// toUpdate converts the wire shape into the domain patch. Dates arrive as
// YYYY-MM-DD strings and are anchored in region time.
func (r *UpdateScheduleRequest) toUpdate() (domain.ActivityUpdate, error) {
	var upd domain.ActivityUpdate

	if r.StartDate != nil {
		d, err := time.ParseInLocation(domain.DateLayout, *r.StartDate, domain.PKT)
		if err != nil {
			return upd, err
		}
		upd.StartDate = &d
	}
	if r.EndDate != nil {
		d, err := time.ParseInLocation(domain.DateLayout, *r.EndDate, domain.PKT)
		if err != nil {
			return upd, err
		}
		upd.EndDate = &d
	}

	upd.StartTime = r.StartTime
	upd.EndTime = r.EndTime
	upd.DurationHours = r.DurationHours
	upd.MaxGuestsPerTime = r.MaxGuestsPerTime
	upd.MaxGuestsPerDay = r.MaxGuestsPerDay
	upd.PricePerGuest = r.PricePerGuest
	upd.Address = r.Address
	upd.City = r.City

	if r.ListingStatus != nil {
		ls := domain.ListingStatus(*r.ListingStatus)
		switch ls {
		case domain.ListingList, domain.ListingUnList, domain.ListingDeactivate:
			upd.ListingStatus = &ls
		default:
			return upd, errInvalidListingStatus
		}
	}

	return upd, nil
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type CreatePaymentIntentResponse struct {
	Success         bool   `json:"success"`
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	AmountMinor     int64  `json:"amountMinor"`
	Currency        string `json:"currency"`
}

type CreateBookingResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	BookingID      string `json:"bookingId"`
	GuestEmailSent bool   `json:"guestEmailSent"`
	HostEmailSent  bool   `json:"hostEmailSent"`
}
