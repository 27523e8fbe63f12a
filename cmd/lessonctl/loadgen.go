package main

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var customers = []struct {
	name  string
	phone string
}{
	{"Alice", "07700900001"},
	{"Bob", "07700900002"},
	{"Carol", "07700900003"},
	{"Dave", "07700900004"},
	{"Eve", "07700900005"},
}

func newLoadGenCmd() *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Place synthetic orders against a running API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, e, cleanup, err := setup(cmd, "lessonctl-loadgen")
			if err != nil {
				return err
			}
			defer cleanup()
			log := e.tel.Log

			target := strings.TrimRight(addr, "/")
			client := &http.Client{Timeout: 5 * time.Second}

			log.Info("load-gen started",
				zap.String("target", target),
				zap.Duration("interval", interval),
			)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					log.Info("shutting down load-gen...")
					return nil
				case <-ticker.C:
					placeOrder(ctx, client, target, log)
				}
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "http://localhost:3000", "base URL of the lessons API")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "delay between orders")
	return cmd
}

func placeOrder(ctx context.Context, client *http.Client, addr string, log *zap.Logger) {
	customer := customers[rand.IntN(len(customers))]

	n := 1 + rand.IntN(3)
	items := make([]map[string]any, 0, n)
	for range n {
		l := starterLessons[rand.IntN(len(starterLessons))]
		items = append(items, map[string]any{
			"subject":  l.Subject,
			"location": l.Location,
			"price":    l.Price,
		})
	}

	body, _ := json.Marshal(map[string]any{
		"name":  customer.name,
		"phone": customer.phone,
		"items": items,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/orders", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("request failed", zap.Error(err))
		}
		return
	}
	defer resp.Body.Close()

	var out struct {
		InsertedID string `json:"insertedId"`
		Error      string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&out)

	if resp.StatusCode != http.StatusOK {
		log.Warn("order rejected",
			zap.String("name", customer.name),
			zap.Int("http_status", resp.StatusCode),
			zap.String("error", out.Error),
		)
		return
	}

	log.Info("order sent",
		zap.String("name", customer.name),
		zap.Int("items", n),
		zap.String("inserted_id", out.InsertedID),
	)
}
