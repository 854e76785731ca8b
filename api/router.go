package api

import (
	"net/http"

	"github.com/Domenick1991/airtrips/internal/service/auth"
	"github.com/Domenick1991/airtrips/internal/service/booking"
	"github.com/Domenick1991/airtrips/internal/service/flights"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Services struct {
	Auth     auth.AuthUseCase
	Flights  flights.FlightUseCase
	Bookings booking.BookingUseCase
}

func NewRouter(svc Services, log *zap.Logger) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	NewAuthHandler(svc.Auth).Register(v1)
	NewFlightHandler(svc.Flights).Register(v1)

	reservations := v1.Group("/reservations", RequireAuth(svc.Auth))
	NewBookingHandler(svc.Bookings, svc.Flights).Register(reservations)

	return router
}
