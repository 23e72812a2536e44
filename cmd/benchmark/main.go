package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	success201    uint64 // Purchases created
	fail422       uint64 // Insufficient funds
	fail401       uint64 // Auth failures
	failOther     uint64
)

var bondIDs = []string{
	"bond_us_1", "bond_sg_1", "bond_de_1", "bond_jp_1",
	"bond_ca_1", "bond_au_1", "bond_uk_1", "bond_ch_1",
}

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, i, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, id int, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	token, err := registerWorkerUser(client, id)
	if err != nil {
		log.Printf("worker %d: registration failed: %v", id, err)
		return
	}

	for time.Since(start) < duration {
		payload := map[string]interface{}{
			"bond_id": pickBond(),
			"amount":  float64(rand.Intn(10) + 1),
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", targetURL+"/api/transactions/buy", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 201:
			atomic.AddUint64(&success201, 1)
		case 422:
			atomic.AddUint64(&fail422, 1)
			// Wallet drained; refill so the worker keeps generating buys.
			topUp(client, token, 1000)
		case 401:
			atomic.AddUint64(&fail401, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func registerWorkerUser(client *http.Client, id int) (string, error) {
	payload := map[string]string{
		"name":     fmt.Sprintf("Bench Worker %d", id),
		"email":    fmt.Sprintf("bench-%d-%d@bondfi.example", id, time.Now().UnixNano()),
		"password": "bench-password",
	}
	body, _ := json.Marshal(payload)

	resp, err := client.Post(targetURL+"/api/auth/register", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var auth struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return "", err
	}
	return auth.Token, nil
}

func topUp(client *http.Client, token string, amount float64) {
	body, _ := json.Marshal(map[string]float64{"amount": amount})
	req, _ := http.NewRequest("POST", targetURL+"/api/wallet/topup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func pickBond() string {
	if workload == "hotspot" {
		// Hotspot: 90% of traffic buys the same bond
		if rand.Float32() < 0.90 {
			return bondIDs[0]
		}
	}
	return bondIDs[rand.Intn(len(bondIDs))]
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	f422 := atomic.LoadUint64(&fail422)
	f401 := atomic.LoadUint64(&fail401)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()
	var rejectRate float64
	if total > 0 {
		rejectRate = float64(f422) / float64(total) * 100
	}

	results := map[string]interface{}{
		"workload":           workload,
		"duration_sec":       d.Seconds(),
		"total_requests":     total,
		"throughput_tps":     tps,
		"purchases_created":  s201,
		"insufficient_funds": f422,
		"auth_failures":      f401,
		"reject_rate_pct":    rejectRate,
		"errors":             fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
