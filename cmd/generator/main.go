// Booking load generator. Hammers POST /api/bookings for one ticket
// type from many goroutines and reports how the outcomes distribute,
// to observe overselling (there should be none) and contention
// behavior under load.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	baseURL  = flag.String("url", "http://localhost:8081", "API base URL")
	email    = flag.String("email", "load@example.com", "Basic Auth email")
	password = flag.String("password", "password", "Basic Auth password")
	eventID  = flag.Int64("event", 0, "Event ID to book against")
	ticketID = flag.Int64("ticket", 0, "Ticket type ID to book against")
	workers  = flag.Int("workers", 50, "Concurrent workers")
	requests = flag.Int("requests", 500, "Total booking attempts")
)

type bookingRequest struct {
	EventID   int64           `json:"event_id"`
	TicketID  int64           `json:"ticket_id"`
	Quantity  int             `json:"quantity"`
	Attendees []attendeeInput `json:"attendees"`
}

type attendeeInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type counters struct {
	created   atomic.Int64
	conflict  atomic.Int64
	contended atomic.Int64
	other     atomic.Int64
}

func main() {
	flag.Parse()

	if *eventID == 0 || *ticketID == 0 {
		fmt.Fprintln(os.Stderr, "both -event and -ticket are required")
		os.Exit(2)
	}

	slog.Info("Starting booking load generator",
		"url", *baseURL,
		"workers", *workers,
		"requests", *requests)

	client := &http.Client{Timeout: 15 * time.Second}
	jobs := make(chan int)
	var stats counters
	var wg sync.WaitGroup

	start := time.Now()
	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for n := range jobs {
				attempt(client, worker, n, &stats)
			}
		}(w)
	}

	for n := 0; n < *requests; n++ {
		jobs <- n
	}
	close(jobs)
	wg.Wait()

	elapsed := time.Since(start)
	slog.Info("Load run finished",
		"elapsed", elapsed.Round(time.Millisecond).String(),
		"created", stats.created.Load(),
		"sold_out_or_capped", stats.conflict.Load(),
		"contended", stats.contended.Load(),
		"other", stats.other.Load())
}

func attempt(client *http.Client, worker, n int, stats *counters) {
	req := bookingRequest{
		EventID:  *eventID,
		TicketID: *ticketID,
		Quantity: 1,
		Attendees: []attendeeInput{{
			Name:  fmt.Sprintf("Load Attendee %d-%d", worker, n),
			Email: fmt.Sprintf("load-%d-%d@example.com", worker, n),
		}},
	}

	body, err := json.Marshal(req)
	if err != nil {
		stats.other.Add(1)
		return
	}

	httpReq, err := http.NewRequest(http.MethodPost, *baseURL+"/api/bookings", bytes.NewReader(body))
	if err != nil {
		stats.other.Add(1)
		return
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(*email, *password)

	resp, err := client.Do(httpReq)
	if err != nil {
		stats.other.Add(1)
		return
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		stats.created.Add(1)
	case http.StatusConflict:
		stats.conflict.Add(1)
	case http.StatusServiceUnavailable:
		stats.contended.Add(1)
	default:
		stats.other.Add(1)
	}
}
