package api

import (
	"net/http"

	"github.com/Domenick1991/airtrips/internal/domain"
	"github.com/Domenick1991/airtrips/internal/service/booking"
	"github.com/Domenick1991/airtrips/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
	flights flights.FlightUseCase
}

type reserveRequest struct {
	Date      string  `json:"date" binding:"required,isodate"`
	FlightIDs []int64 `json:"flight_ids" binding:"required,min=1,max=2,dive,gt=0"`
}

type cancelRequest struct {
	FlightIDs []int64 `json:"flight_ids" binding:"required,min=1,dive,gt=0"`
}

type reserveResponse struct {
	Result    string  `json:"result"`
	Date      string  `json:"date"`
	FlightIDs []int64 `json:"flight_ids"`
}

func NewBookingHandler(service booking.BookingUseCase, catalog flights.FlightUseCase) *BookingHandler {
	return &BookingHandler{service: service, flights: catalog}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.reserve)
	router.DELETE("", h.cancel)
	router.GET("", h.list)
}

func (h *BookingHandler) reserve(c *gin.Context) {
	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	date, err := domain.ParseDate(req.Date)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	legs, err := h.flights.GetByIDs(ctx, req.FlightIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.Reserve(ctx, currentUser(c), date, legs)
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusCreated
	if result != domain.ReserveBooked {
		status = http.StatusConflict
	}
	c.JSON(status, reserveResponse{Result: result.String(), Date: date.String(), FlightIDs: req.FlightIDs})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	legs, err := h.flights.GetByIDs(ctx, req.FlightIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.service.Cancel(ctx, currentUser(c), legs); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) list(c *gin.Context) {
	reserved, err := h.service.Reservations(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, reserved)
}
