package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository"
	redisrepo "github.com/AlinaTheCoder/TouristGuide-Backend/internal/repository/redis"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/booking"
	"github.com/AlinaTheCoder/TouristGuide-Backend/internal/service/schedule"
)

var errInvalidListingStatus = errors.New("invalid listingStatus")

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	jwtSecret string,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/activities/:id/slots", handleAvailableSlots(svcs))
	r.POST("/activities/:id/payment-intent", handleCreatePaymentIntent(svcs))
	r.POST("/activities/:id/bookings", handleCreateBooking(svcs, idem))

	r.GET("/trips/:userId", handleTrips(svcs))
	r.POST("/bookings/:id/feedback", handleMarkFeedback(svcs))

	// Host API
	host := r.Group("/")
	host.Use(AuthMiddleware(jwtSecret))
	{
		host.GET("/schedule/host/:hostId", handleHostSchedule(svcs))
		host.GET("/schedule/:activityId", handleGetSchedule(svcs))
		host.PUT("/schedule/:activityId", handleUpdateSchedule(svcs))
		host.GET("/earnings/host/:hostId", handleHostEarnings(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Quote available slots for one day
// @Param    id      path   string  true   "Activity ID"
// @Param    date    query  string  true   "YYYY-MM-DD"
// @Param    requestedGuests  query  int  false  "requested guests"
// @Success  200  {object}  booking.Availability
// @Failure  404  {object}  ErrorResponse
// @Router   /activities/{id}/slots [get]
func handleAvailableSlots(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")
		if date == "" {
			badRequest(c, "Date query parameter is required (YYYY-MM-DD).")
			return
		}
		guests := parseIntDefault(c.Query("requestedGuests"), 0)
		if guests == 0 {
			guests = parseIntDefault(c.Query("guests"), 0)
		}

		avail, err := svcs.Booking.AvailableSlots(
			c.Request.Context(),
			c.Param("id"),
			date,
			guests,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		// Short shared cache: availability moves with every booking.
		writeJSONWithCache(c, http.StatusOK, avail, "public, max-age=15", true)
	}
}

// @Summary  Open a payment intent for a booking
// @Param    id   path  string                      true  "Activity ID"
// @Param    req  body  CreatePaymentIntentRequest  true  "payload"
// @Success  201  {object}  CreatePaymentIntentResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  429  {object}  ErrorResponse "rate limited"
// @Router   /activities/{id}/payment-intent [post]
func handleCreatePaymentIntent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		intent, err := svcs.Booking.CreatePaymentIntent(
			c.Request.Context(),
			c.Param("id"),
			req.UserID,
			req.Date,
			req.SlotID,
			req.Guests,
		)
		if err != nil {
			if errors.Is(err, booking.ErrRateLimited) {
				c.Header("Retry-After", "60")
				c.JSON(http.StatusTooManyRequests,
					ErrorResponse{Error: "Too many payment attempts. Please wait a minute."})
				return
			}
			respondErr(c, err)
			return
		}

		c.JSON(http.StatusCreated, CreatePaymentIntentResponse{
			Success:         true,
			PaymentIntentID: intent.ID,
			ClientSecret:    intent.ClientSecret,
			AmountMinor:     intent.AmountMinor,
			Currency:        intent.Currency,
		})
	}
}

// @Summary  Commit a booking (idempotent)
// @Param    id   path  string                true  "Activity ID"
// @Param    req  body  CreateBookingRequest  true  "payload"
// @Header   201  {string}  Idempotency-Key  "echo"
// @Success  201  {object}  CreateBookingResponse
// @Failure  400  {object}  ErrorResponse "unpaid intent / capacity"
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse "idem in progress"
// @Router   /activities/{id}/bookings [post]
func handleCreateBooking(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		activityID := c.Param("id")

		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Missing required fields")
			return
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(activityID, idemKey)

			if payload, ok, _ := idem.GetResult(
				c.Request.Context(),
				idemStorageKey,
			); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(
					http.StatusCreated,
					"application/json; charset=utf-8",
					[]byte(payload),
				)
				return
			}

			locked, err := idem.AcquireLock(
				c.Request.Context(),
				idemStorageKey,
				60*time.Second,
			)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(
					c.Request.Context(),
					idemStorageKey,
				); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(
						http.StatusCreated,
						"application/json; charset=utf-8",
						[]byte(payload),
					)
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(
					http.StatusConflict,
					ErrorResponse{Error: "idempotency key in progress"},
				)
				return
			}
		}

		res, err := svcs.Booking.Book(c.Request.Context(), booking.BookRequest{
			ActivityID:      activityID,
			UserID:          req.UserID,
			Date:            req.Date,
			SlotID:          req.SlotID,
			Guests:          req.Guests,
			PaymentIntentID: req.PaymentIntentID,
		})
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := CreateBookingResponse{
			Success:        true,
			Message:        "Booking successful!",
			BookingID:      res.BookingID,
			GuestEmailSent: res.GuestEmailSent,
			HostEmailSent:  res.HostEmailSent,
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}

// @Summary  List a traveler's bookings
// @Param    userId  path  string  true  "User ID"
// @Success  200  {array}  domain.BookingRecord
// @Router   /trips/{userId} [get]
func handleTrips(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		trips, err := svcs.Booking.Trips(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "trips": trips})
	}
}

// @Summary  Flag a booking as reviewed
// @Param    id  path  string  true  "Booking ID"
// @Success  200  {object}  map[string]bool
// @Failure  404  {object}  ErrorResponse
// @Router   /bookings/{id}/feedback [post]
func handleMarkFeedback(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Booking.MarkFeedback(c.Request.Context(), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// @Summary  List a host's live activities
// @Param    hostId  path  string  true  "Host ID"
// @Success  200  {array}  domain.Activity
// @Security BearerAuth
// @Router   /schedule/host/{hostId} [get]
func handleHostSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		acts, err := svcs.Schedule.HostActivities(c.Request.Context(), c.Param("hostId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK,
			gin.H{"success": true, "activities": acts}, "private, max-age=30", true)
	}
}

// @Summary  Get one activity's schedule
// @Param    activityId  path  string  true  "Activity ID"
// @Success  200  {object}  domain.Activity
// @Failure  404  {object}  ErrorResponse
// @Security BearerAuth
// @Router   /schedule/{activityId} [get]
func handleGetSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		act, err := svcs.Schedule.GetActivity(c.Request.Context(), c.Param("activityId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "activity": act})
	}
}

// @Summary  Edit an activity's schedule
// @Param    activityId  path  string                 true  "Activity ID"
// @Param    req         body  UpdateScheduleRequest  true  "partial edit"
// @Success  200  {object}  domain.Activity
// @Failure  404  {object}  ErrorResponse
// @Security BearerAuth
// @Router   /schedule/{activityId} [put]
func handleUpdateSchedule(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateScheduleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		upd, err := req.toUpdate()
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		act, err := svcs.Schedule.UpdateSchedule(c.Request.Context(), c.Param("activityId"), upd)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "activity": act})
	}
}

// @Summary  Summarize a host's earnings
// @Param    hostId  path  string  true  "Host ID"
// @Success  200  {object}  domain.HostEarnings
// @Security BearerAuth
// @Router   /earnings/host/{hostId} [get]
func handleHostEarnings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := svcs.Earnings.HostEarnings(c.Request.Context(), c.Param("hostId"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "earnings": sum})
	}
}

// --- Helpers ---

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var pse *booking.PaymentStateError
	if errors.As(err, &pse) {
		c.JSON(http.StatusBadRequest,
			ErrorResponse{Error: "Payment not completed. Current status: " + pse.Status})
		return
	}

	switch {
	// booking service
	case errors.Is(err, booking.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found."})
		return
	case errors.Is(err, booking.ErrDateOutOfRange):
		c.JSON(http.StatusBadRequest,
			ErrorResponse{Error: "Selected date is outside this activity's calendar."})
		return
	case errors.Is(err, booking.ErrUnknownSlot):
		c.JSON(http.StatusBadRequest,
			ErrorResponse{Error: "Unknown time slot for this activity."})
		return
	case errors.Is(err, booking.ErrSlotFullyBooked):
		c.JSON(http.StatusBadRequest,
			ErrorResponse{Error: "Slot fully booked. Please choose another."})
		return
	// schedule service
	case errors.Is(err, schedule.ErrActivityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Activity not found."})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found."})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
