// Command rescuewatch follows the rescue stream of one viewport and logs the records it
// holds as frames arrive.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Temutjin2k/rescue-coordination/pkg/deltaset"
	"github.com/Temutjin2k/rescue-coordination/pkg/logger"
	"github.com/Temutjin2k/rescue-coordination/pkg/streamclient"
)

var (
	baseURL  = flag.String("url", "http://localhost:3000", "rescue service base url")
	token    = flag.String("token", "", "access token, optional")
	viewport = flag.String("viewport", "", "minLat,maxLat,minLng,maxLng; the whole world when empty")
	resolved = flag.Bool("drop-resolved", true, "forget records once they are resolved")
)

func main() {
	flag.Parse()

	log := logger.InitLogger("rescuewatch", logger.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	query, err := viewportQuery(*viewport)
	if err != nil {
		log.Error(ctx, "invalid viewport", err)
		os.Exit(2)
	}

	httpClient := &http.Client{}
	set := deltaset.New()

	client := streamclient.New(streamclient.Config{
		URL:            *baseURL + "/api/rescue/stream?" + query,
		Token:          *token,
		Client:         httpClient,
		RemoveResolved: *resolved,
		Snapshot: func(ctx context.Context) ([]json.RawMessage, error) {
			return snapshot(ctx, httpClient, *baseURL+"/api/rescue/all?"+query)
		},
		OnFrame: func(f streamclient.Frame) {
			log.Info(ctx, "frame", "kind", f.Kind, "rescue_id", f.RescueID, "seq", f.Seq, "tracked", set.Len())
		},
		OnState: func(s streamclient.State, delay time.Duration) {
			log.Info(ctx, "stream state", "state", s.String(), "delay", delay.String())
		},
	}, set, log)

	if err := client.Run(ctx); err != nil {
		log.Error(ctx, "stream client stopped", err)
		os.Exit(1)
	}
}

func viewportQuery(raw string) (string, error) {
	q := url.Values{}
	if raw == "" {
		return q.Encode(), nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return "", fmt.Errorf("want 4 comma separated values, got %d", len(parts))
	}
	for i, key := range []string{"minLat", "maxLat", "minLng", "maxLng"} {
		q.Set(key, strings.TrimSpace(parts[i]))
	}
	return q.Encode(), nil
}

func snapshot(ctx context.Context, c *http.Client, target string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("snapshot status %d", resp.StatusCode)
	}

	var body struct {
		Rescues []json.RawMessage `json:"rescues"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return body.Rescues, nil
}
