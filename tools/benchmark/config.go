package main

import (
	"flag"
	"time"
)

const (
	defaultNATSURL    = "nats://localhost:4222"
	defaultStreamName = "TELEMETRY_READINGS"
)

type Config struct {
	NATSURL     string
	StreamName  string
	Vehicles    int           // Number of simulated vehicles
	Rate        float64       // Readings per second across all vehicles
	Duration    time.Duration // How long to publish (0 = until interrupted)
	AnomalyRate float64       // Fraction of readings with injected anomalies (0-1)
	Concurrency int           // Number of publisher workers
	Debug       bool
}

func parseFlags() Config {
	var cfg Config

	flag.StringVar(&cfg.NATSURL, "nats-url", defaultNATSURL, "NATS server URL")
	flag.StringVar(&cfg.StreamName, "stream", defaultStreamName, "JetStream stream name")
	flag.IntVar(&cfg.Vehicles, "vehicles", 100, "Number of simulated vehicles")
	flag.Float64Var(&cfg.Rate, "rate", 50, "Total readings per second")
	flag.DurationVar(&cfg.Duration, "duration", 60*time.Second, "Publish duration (0 = until interrupted)")
	flag.Float64Var(&cfg.AnomalyRate, "anomaly-rate", 0.05, "Fraction of readings with injected odometer anomalies")
	flag.IntVar(&cfg.Concurrency, "concurrency", 8, "Number of publisher workers")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	flag.Parse()

	return cfg
}
