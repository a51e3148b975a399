// Command benchmark publishes synthetic telemetry readings to NATS JetStream
// to exercise the ingest pipeline under load. A fraction of the readings carry
// injected odometer anomalies (rollbacks, impossible distances, sudden jumps)
// so the fraud path is benchmarked too.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/veridrive/veridrive/internal/adapter"
	"github.com/veridrive/veridrive/internal/domain"
	"github.com/veridrive/veridrive/internal/logger"
	"github.com/veridrive/veridrive/internal/messaging"
	"github.com/veridrive/veridrive/internal/providers/jetstream"
)

type stats struct {
	published atomic.Int64
	failed    atomic.Int64
	anomalies atomic.Int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (s *stats) recordLatency(d time.Duration) {
	s.mu.Lock()
	s.latencies = append(s.latencies, d)
	s.mu.Unlock()
}

// vehicleState tracks the simulated odometer of one vehicle
type vehicleState struct {
	mu      sync.Mutex
	id      string
	mileage float64
	last    time.Time
}

func main() {
	cfg := parseFlags()

	if err := logger.Initialize(logger.Config{Debug: cfg.Debug}); err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Flush(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\n\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	publisher, err := jetstream.NewPublisher(jetstream.Config{
		URL:            cfg.NATSURL,
		StreamName:     cfg.StreamName,
		MaxReconnects:  5,
		ReconnectWait:  time.Second,
		ConnectionName: "veridrive-benchmark",
	}, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		fmt.Printf("Error connecting to NATS: %v\n", err)
		os.Exit(1)
	}
	defer publisher.Close()

	fmt.Printf("Connected to NATS at %s (stream: %s)\n", cfg.NATSURL, cfg.StreamName)
	fmt.Printf("Simulating %d vehicles at %.1f readings/s (anomaly rate %.1f%%)\n",
		cfg.Vehicles, cfg.Rate, cfg.AnomalyRate*100)

	if cfg.Duration > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.Duration)
		defer timeoutCancel()
	}

	// Build the vehicle fleet with randomized starting odometers
	now := time.Now().UTC()
	vehicles := make([]*vehicleState, cfg.Vehicles)
	for i := range vehicles {
		vehicles[i] = &vehicleState{
			id:      fmt.Sprintf("BENCH-VIN-%06d", i),
			mileage: float64(rand.Intn(200_000)), //nolint:gosec,G404
			last:    now,
		}
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	st := &stats{}
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runWorker(ctx, cfg, publisher, vehicles, limiter, st)
		}()
	}
	wg.Wait()

	printSummary(cfg, st, time.Since(start))
}

func runWorker(ctx context.Context, cfg Config, publisher messaging.Publisher, vehicles []*vehicleState, limiter *rate.Limiter, st *stats) {
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		v := vehicles[rand.Intn(len(vehicles))] //nolint:gosec,G404
		reading, anomaly := v.nextReading(cfg.AnomalyRate)
		if anomaly {
			st.anomalies.Add(1)
		}

		publishStart := time.Now()
		if err := publisher.PublishReading(ctx, reading); err != nil {
			if ctx.Err() != nil {
				return
			}
			st.failed.Add(1)
			continue
		}
		st.recordLatency(time.Since(publishStart))
		st.published.Add(1)
	}
}

// nextReading advances the vehicle's odometer and returns the wire reading.
// With probability anomalyRate the reading carries an injected anomaly.
func (v *vehicleState) nextReading(anomalyRate float64) (*domain.TelemetryReading, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now().UTC()
	elapsedHours := now.Sub(v.last).Hours()

	// Normal driving: up to 90 km/h average
	delta := elapsedHours * 90 * rand.Float64() //nolint:gosec,G404

	anomaly := rand.Float64() < anomalyRate //nolint:gosec,G404
	if anomaly {
		switch rand.Intn(3) { //nolint:gosec,G404
		case 0: // rollback
			delta = -float64(10 + rand.Intn(5000)) //nolint:gosec,G404
		case 1: // impossible distance for the elapsed window
			delta = elapsedHours*120 + 500
		default: // sudden jump
			delta = 1001 + rand.Float64()*2000 //nolint:gosec,G404
		}
	}

	v.mileage += delta
	v.last = now

	speed := 30 + rand.Float64()*80 //nolint:gosec,G404
	return &domain.TelemetryReading{
		DeviceID:      "bench-" + v.id,
		VehicleID:     v.id,
		Mileage:       v.mileage,
		Timestamp:     now,
		SignalQuality: 60 + rand.Float64()*40, //nolint:gosec,G404
		SpeedKMH:      &speed,
	}, anomaly
}

func printSummary(cfg Config, st *stats, elapsed time.Duration) {
	published := st.published.Load()
	failed := st.failed.Load()

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("BENCHMARK RESULTS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Duration:        %s\n", formatDuration(elapsed))
	fmt.Printf("Vehicles:        %d\n", cfg.Vehicles)
	fmt.Printf("Published:       %d\n", published)
	fmt.Printf("Failed:          %d\n", failed)
	fmt.Printf("Anomalies:       %d\n", st.anomalies.Load())
	if elapsed > 0 {
		fmt.Printf("Throughput:      %.1f readings/s\n", float64(published)/elapsed.Seconds())
	}

	st.mu.Lock()
	latencies := st.latencies
	st.mu.Unlock()
	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		fmt.Printf("Publish latency: p50=%s p95=%s p99=%s max=%s\n",
			percentile(latencies, 0.50),
			percentile(latencies, 0.95),
			percentile(latencies, 0.99),
			latencies[len(latencies)-1],
		)
	}
	fmt.Println(strings.Repeat("=", 60))
}
