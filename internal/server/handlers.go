package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"parking-garage/internal/garage"
)

func getServiceName() string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return "parking-garage-api"
}

// Handler serves the ticket API over an instrumented garage. The clock is
// a field so tests can pin "now".
type Handler struct {
	garage *garage.InstrumentedGarage
	now    func() time.Time
}

func NewHandler(g *garage.InstrumentedGarage) *Handler {
	return &Handler{
		garage: g,
		now:    time.Now,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": getServiceName(),
		"meta":    extractMeta(r.Context()),
	})
}

// ListTickets returns every vehicle still in the lot. An empty lot is a
// 404, matching the original API's contract.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tickets, err := h.garage.ListAll(ctx)
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Lot is empty.")
		return
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		responses = append(responses, NewTicketResponse(t))
	}

	capacity := h.garage.Capacity()
	WriteSuccess(ctx, w, http.StatusOK, "Tickets retrieved successfully", TicketListResponse{
		Capacity:  capacity,
		Occupied:  len(tickets),
		Available: capacity - len(tickets),
		Tickets:   responses,
	})
}

// IssueTicket admits a vehicle and prints its ticket.
func (h *Handler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticket, err := h.garage.Issue(ctx, h.now())
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Lot full. Please come back later.")
		return
	}

	WriteSuccess(ctx, w, http.StatusCreated, "Ticket issued successfully", NewTicketResponse(ticket))
}

// GetBill returns the amount owing on a ticket as of now.
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketNumber, err := ticketNumberParam(r)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid ticket number")
		return
	}

	bill, err := h.garage.GetBill(ctx, ticketNumber, h.now())
	if err != nil {
		WriteError(ctx, w, http.StatusNotFound, "Ticket number not found.")
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "Bill retrieved successfully", NewBillResponse(bill))
}

// PayTicket settles a ticket and removes it from the lot.
func (h *Handler) PayTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticketNumber, err := ticketNumberParam(r)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid ticket number")
		return
	}

	var payment garage.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.garage.Pay(ctx, ticketNumber, payment); err != nil {
		status, message := paymentErrorResponse(err)
		WriteError(ctx, w, status, message)
		return
	}

	WriteSuccess(ctx, w, http.StatusOK, "Your ticket has been paid.", map[string]any{
		"ticketNumber": ticketNumber,
	})
}

func ticketNumberParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "ticketNumber"), 10, 64)
}

func paymentErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, garage.ErrTicketNotFound):
		return http.StatusNotFound, "Ticket not found. Please check your ticket number and try again."
	case errors.Is(err, garage.ErrTicketMismatch):
		return http.StatusBadRequest, "Could not process your ticket. Please ensure the ticket number is correct."
	case errors.Is(err, garage.ErrMissingCard):
		return http.StatusBadRequest, "Please provide a credit card number"
	case errors.Is(err, garage.ErrInvalidCard):
		return http.StatusBadRequest, "Credit card could not be verified. Please try again."
	default:
		return http.StatusInternalServerError, "Could not process payment"
	}
}
