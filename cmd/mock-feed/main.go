package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"sync/atomic"
)

// mockImage mirrors the picsum /v2/list element shape.
type mockImage struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

var authors = []string{"Alejandro Escamilla", "Paul Jarvis", "Tina Rataj", "Lukas Budimaier", "Danielle MacInnes"}

func main() {
	total := envInt("MOCK_TOTAL_IMAGES", 100)
	failEvery := envInt("MOCK_FAIL_EVERY", 0)
	var requests atomic.Int64

	http.HandleFunc("/v2/list", func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if failEvery > 0 && n%int64(failEvery) == 0 {
			slog.Info("Simulating upstream failure", "request", n)
			http.Error(w, "simulated failure", http.StatusServiceUnavailable)
			return
		}

		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 30)
		if page < 1 {
			page = 1
		}

		items := []mockImage{}
		for i := (page - 1) * limit; i < page*limit && i < total; i++ {
			items = append(items, mockImage{
				ID:          strconv.Itoa(i),
				Author:      authors[i%len(authors)],
				Width:       800,
				Height:      600,
				URL:         fmt.Sprintf("https://unsplash.com/photos/mock-%d", i),
				DownloadURL: fmt.Sprintf("https://picsum.photos/id/%d/800/600", i),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	})

	slog.Info("Mock picsum listing running on :8081", "total_images", total)
	if err := http.ListenAndServe(":8081", nil); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
