package queue

import (
    "encoding/json"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/iliyamo/train-ticket-booking/internal/model"
)

func sampleOrder() model.Order {
    return model.Order{
        ID:        42,
        UserID:    7,
        CreatedAt: time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC),
        Tickets: []model.Ticket{
            {ID: 1, JourneyID: 3, Cargo: 2, Seat: 14},
            {ID: 2, JourneyID: 3, Cargo: 2, Seat: 15},
        },
    }
}

func TestFormatOrderLine(t *testing.T) {
    ev := NewOrderCreatedEvent(sampleOrder())
    ev.EventID = "evt-1"
    got := formatOrderLine(ev)
    want := "[2024-05-01T09:15:00Z] Order created | event_id=evt-1 | order_id=42 | user_id=7 | tickets=2 | seats=[3/2/14,3/2/15]\n"
    if got != want {
        t.Fatalf("formatOrderLine:\n got %q\nwant %q", got, want)
    }
}

func TestNewOrderCreatedEventAssignsIDs(t *testing.T) {
    a := NewOrderCreatedEvent(sampleOrder())
    b := NewOrderCreatedEvent(sampleOrder())
    if a.EventID == "" || a.EventID == b.EventID {
        t.Fatalf("event ids must be unique and non-empty: %q %q", a.EventID, b.EventID)
    }
    if len(a.Tickets) != 2 || a.Tickets[1].Seat != 15 {
        t.Fatalf("tickets = %+v", a.Tickets)
    }
}

func TestHandleMessageAppends(t *testing.T) {
    dir := t.TempDir()
    body, err := json.Marshal(NewOrderCreatedEvent(sampleOrder()))
    if err != nil {
        t.Fatal(err)
    }
    for i := 0; i < 2; i++ {
        if err := handleMessage(dir, body); err != nil {
            t.Fatalf("handleMessage: %v", err)
        }
    }
    data, err := os.ReadFile(filepath.Join(dir, "booking.log"))
    if err != nil {
        t.Fatal(err)
    }
    if n := strings.Count(string(data), "order_id=42"); n != 2 {
        t.Fatalf("expected 2 lines, got %d: %s", n, data)
    }
    if err := handleMessage(dir, []byte("{not json")); err == nil {
        t.Fatal("expected error for malformed body")
    }
}
