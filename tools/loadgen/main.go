// Command loadgen drives read traffic against a running backend to measure
// request latency under concurrency. It signs in once, then fans the listed
// endpoints out across worker goroutines and reports latency percentiles
// per endpoint.
//
// Usage:
//
//	loadgen -base http://localhost:8080 -username admin -password secret \
//	        -workers 8 -duration 30s
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

var endpoints = []string{
	"/api/v1/catalog-items",
	"/api/v1/devices",
	"/api/v1/parts",
	"/api/v1/purchase-orders",
	"/api/v1/purchase-orders/status-summary",
	"/api/v1/sales-orders",
}

type sample struct {
	endpoint string
	elapsed  time.Duration
	status   int
	err      error
}

func main() {
	var (
		base     string
		username string
		password string
		workers  int
		duration time.Duration
		timeout  time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080", "Base URL of the backend")
	flag.StringVar(&username, "username", "", "Username to sign in with")
	flag.StringVar(&password, "password", "", "Password to sign in with")
	flag.IntVar(&workers, "workers", 4, "Concurrent workers")
	flag.DurationVar(&duration, "duration", 15*time.Second, "How long to run")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Per-request timeout")
	flag.Parse()

	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "loadgen: -username and -password are required")
		os.Exit(2)
	}

	client := &http.Client{Timeout: timeout}

	token, err := login(client, base, username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadgen: sign-in failed: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	samples := make(chan sample, 1024)
	var wg sync.WaitGroup
	start := time.Now()

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; ; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				endpoint := endpoints[i%len(endpoints)]
				samples <- hit(ctx, client, base, endpoint, token)
			}
		}(w)
	}

	go func() {
		wg.Wait()
		close(samples)
	}()

	byEndpoint := make(map[string][]time.Duration)
	var total, failed int
	for s := range samples {
		total++
		if s.err != nil || s.status != http.StatusOK {
			failed++
			continue
		}
		byEndpoint[s.endpoint] = append(byEndpoint[s.endpoint], s.elapsed)
	}
	elapsed := time.Since(start)

	fmt.Printf("ran %s with %d workers: %d requests, %d failed, %.1f req/s\n\n",
		elapsed.Round(time.Millisecond), workers, total, failed, float64(total)/elapsed.Seconds())
	fmt.Printf("%-48s %8s %8s %8s %8s\n", "endpoint", "count", "p50", "p95", "p99")
	for _, endpoint := range endpoints {
		durations := byEndpoint[endpoint]
		if len(durations) == 0 {
			continue
		}
		sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
		fmt.Printf("%-48s %8d %8s %8s %8s\n", endpoint, len(durations),
			percentile(durations, 0.50), percentile(durations, 0.95), percentile(durations, 0.99))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func login(client *http.Client, base, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(base+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}
	return envelope.Data.AccessToken, nil
}

func hit(ctx context.Context, client *http.Client, base, endpoint, token string) sample {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+endpoint, nil)
	if err != nil {
		return sample{endpoint: endpoint, err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return sample{endpoint: endpoint, elapsed: elapsed, err: err}
	}
	resp.Body.Close()
	return sample{endpoint: endpoint, elapsed: elapsed, status: resp.StatusCode}
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx].Round(time.Microsecond)
}
