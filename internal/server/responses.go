package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"

	"parking-garage/internal/garage"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type TicketResponse struct {
	TicketNumber int64     `json:"ticketNumber"`
	EntryTime    time.Time `json:"entryTime"`
}

type TicketListResponse struct {
	Capacity  int              `json:"capacity"`
	Occupied  int              `json:"occupied"`
	Available int              `json:"available"`
	Tickets   []TicketResponse `json:"tickets"`
}

type BillResponse struct {
	TicketNumber int64     `json:"ticketNumber"`
	EntryTime    time.Time `json:"entryTime"`
	ExitTime     time.Time `json:"exitTime"`
	TimeParked   string    `json:"timeParked"`
	AmountOwing  float64   `json:"amountOwing"`
}

func NewTicketResponse(t garage.Ticket) TicketResponse {
	return TicketResponse{
		TicketNumber: t.Number,
		EntryTime:    t.EntryTime,
	}
}

func NewBillResponse(b garage.Bill) BillResponse {
	return BillResponse{
		TicketNumber: b.TicketNumber,
		EntryTime:    b.EntryTime,
		ExitTime:     b.ExitTime,
		TimeParked:   b.TimeParked.String(),
		AmountOwing:  b.AmountOwing,
	}
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, status int, message string, data any) {
	WriteJSON(w, status, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
