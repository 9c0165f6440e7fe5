package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/quillcast/reel/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream server events (saves, flushes, conflicts, tickets)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, _ := cmd.Flags().GetString("topics")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		natsURL := os.Getenv("REEL_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, topics)
		}
		return watchSSE(ctx, topics)
	},
}

func printEvent(topic string, data []byte) {
	ts := time.Now().Format("15:04:05")
	fmt.Printf("%s %s %s\n", ui.RenderMuted(ts), ui.RenderAccent(topic), data)
}

func watchNATS(ctx context.Context, natsURL, topics string) error {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	subject := topics
	if subject == "" {
		subject = "reel.>"
	}

	sub, err := nc.Subscribe(subject, func(msg *nats.Msg) {
		printEvent(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	fmt.Fprintf(os.Stderr, "watching %s via NATS (ctrl-c to stop)\n", subject)
	<-ctx.Done()
	return nil
}

func watchSSE(ctx context.Context, topics string) error {
	url := strings.TrimRight(serverURL, "/") + "/v1/events/stream"
	if topics != "" {
		url += "?topics=" + topics
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("connect to event stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned %s", resp.Status)
	}

	fmt.Fprintln(os.Stderr, "watching via SSE (ctrl-c to stop)")

	var topic string
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			topic = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			printEvent(topic, []byte(strings.TrimSpace(strings.TrimPrefix(line, "data:"))))
		}
	}
	if ctx.Err() != nil {
		return nil
	}
	return scanner.Err()
}

func init() {
	watchCmd.Flags().String("topics", "", "comma-separated topic filters (e.g. reel.collection.*)")
}
