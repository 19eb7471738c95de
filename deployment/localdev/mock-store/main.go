package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

type record struct {
	Domain    string         `json:"domain"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata"`
}

type queryRequest struct {
	UserID string    `json:"user_id"`
	Since  time.Time `json:"since"`
}

func main() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/v1/records/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		records := sampleRecords(time.Now().UTC())
		filtered := make([]record, 0, len(records))
		for _, rec := range records {
			if !rec.CreatedAt.Before(req.Since) {
				filtered = append(filtered, rec)
			}
		}
		writeJSON(w, map[string]any{"records": filtered})
	})

	logger := log.New(log.Writer(), "store-mock ", log.LstdFlags|log.Lmicroseconds)
	srv := &http.Server{
		Addr:    ":9090",
		Handler: logRequests(logger, mux),
	}

	logger.Println("listening on :9090")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server error: %v", err)
	}
}

// sampleRecords covers a month of synthetic entries across four domains
// so trend, anomaly, and correlation paths all light up locally.
func sampleRecords(now time.Time) []record {
	records := make([]record, 0, 64)

	categories := []string{"food", "gas", "food", "entertainment", "food"}
	for i := 0; i < 20; i++ {
		day := now.AddDate(0, 0, -20+i)
		records = append(records, record{
			Domain:    "financial",
			CreatedAt: day,
			Metadata: map[string]any{
				"amount":   -20.0 - float64(i%5)*12.5,
				"category": categories[i%len(categories)],
			},
		})
	}

	for i := 0; i < 15; i++ {
		day := now.AddDate(0, 0, -15+i)
		weight := 82.0 - float64(i)*0.2
		sleep := 6.5 + float64(i%4)*0.5
		records = append(records, record{
			Domain:    "health",
			CreatedAt: day,
			Metadata: map[string]any{
				"weight":      weight,
				"sleep_hours": sleep,
				"mood":        "fine",
			},
		})
	}

	for i := 0; i < 10; i++ {
		day := now.AddDate(0, 0, -14+i)
		records = append(records, record{
			Domain:    "fitness",
			CreatedAt: day,
			Metadata: map[string]any{
				"duration_minutes": 30.0 + float64(i%3)*15,
				"activity":         "run",
			},
		})
	}

	for i := 0; i < 15; i++ {
		day := now.AddDate(0, 0, -15+i)
		calories := 2400.0 - float64(i)*40
		if i == 12 {
			// Lone feast day; trips the anomaly detector.
			calories = 4800
		}
		records = append(records, record{
			Domain:    "nutrition",
			CreatedAt: day,
			Metadata: map[string]any{
				"calories": calories,
			},
		})
	}

	return records
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode error: %v", err)
	}
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
