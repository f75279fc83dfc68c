package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ulvgard/procplan/internal/config"
	"github.com/ulvgard/procplan/internal/notify"
)

// The notifier is invoked at the end of a training run to hand the reserved
// GPUs back early. Exit code 0 means the server accepted the completion.
func main() {
	var (
		serverURL   = flag.String("url", "http://localhost:8080", "reservation server base URL")
		bookingID   = flag.Int64("booking-id", 0, "booking to mark as done")
		completedAt = flag.String("completed-at", "", "completion time (RFC 3339, default: now)")
		timeout     = flag.Duration("timeout", config.DefaultNotifierTimeout, "request timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *bookingID <= 0 {
		fmt.Fprintln(os.Stderr, "notifier: --booking-id is required")
		flag.Usage()
		os.Exit(1)
	}

	var done *time.Time
	if *completedAt != "" {
		parsed, err := time.Parse(time.RFC3339, *completedAt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "notifier: invalid --completed-at %q: %v\n", *completedAt, err)
			os.Exit(1)
		}
		utc := parsed.UTC()
		done = &utc
	}

	client := notify.NewClient(notify.Config{
		BaseURL: *serverURL,
		Timeout: *timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.SignalCompletion(ctx, *bookingID, done)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notifier: %v\n", err)
		os.Exit(1)
	}
	if !result.OK {
		fmt.Fprintf(os.Stderr, "notifier: server rejected completion (status %d): %s\n", result.Status, result.Message)
		os.Exit(1)
	}

	fmt.Printf("booking %d marked as done\n", *bookingID)
}
