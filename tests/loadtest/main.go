package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:8095", "server base URL")
	numWorkers   = flag.Int("workers", 50, "concurrent workers")
	testDuration = flag.Duration("duration", 10*time.Second, "duration of each phase")
)

var httpClient = &http.Client{
	Timeout: 15 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	flag.Parse()

	fmt.Println("=== pbcheck Load Test ===")
	fmt.Printf("Target: %s | Workers: %d | Duration: %s\n\n", *baseURL, *numWorkers, *testDuration)

	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			drain(resp)
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Cold drawing (GET /drawing) ---")
	runPhase(*testDuration, func(_ *rand.Rand) result {
		return doGet("/drawing", http.StatusOK, http.StatusServiceUnavailable)
	})

	fmt.Println("\n--- Phase 2: Mixed load (40% POST /selection, 60% GET) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doPostSelection(rng, true)
		case r < 0.40:
			return doPostSelection(rng, false)
		case r < 0.80:
			return doGet("/drawing", http.StatusOK, http.StatusServiceUnavailable)
		case r < 0.95:
			return doGet("/selection", http.StatusOK)
		default:
			return doGet("/health", http.StatusOK)
		}
	})

	fmt.Println("\n--- Phase 3: Read-heavy load (5% POST, 95% GET) ---")
	runPhase(*testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.05:
			return doPostSelection(rng, true)
		case r < 0.80:
			return doGet("/drawing", http.StatusOK, http.StatusServiceUnavailable)
		default:
			return doGet("/selection", http.StatusOK)
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- workFn(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps, totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)),
			fmtDur(percentile(s.latencies, 0.50)),
			fmtDur(percentile(s.latencies, 0.95)),
			fmtDur(percentile(s.latencies, 0.99)))
	}

	if totalOps == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Println("  " + strings.Repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, float64(totalOps)/duration.Seconds())
}

// randomSelection returns five distinct white balls and a powerball, or an
// out-of-range selection when valid is false.
func randomSelection(rng *rand.Rand, valid bool) map[string]interface{} {
	white := make([]string, 0, 5)
	for _, n := range rng.Perm(69)[:5] {
		white = append(white, strconv.Itoa(n+1))
	}
	pb := strconv.Itoa(rng.Intn(26) + 1)
	if !valid {
		white[rng.Intn(5)] = "70"
	}
	return map[string]interface{}{"white": white, "powerball": pb}
}

func doPostSelection(rng *rand.Rand, valid bool) result {
	label, want := "POST /selection", http.StatusOK
	if !valid {
		label, want = "POST /selection (invalid)", http.StatusUnprocessableEntity
	}

	data, _ := json.Marshal(randomSelection(rng, valid))
	start := time.Now()
	resp, err := httpClient.Post(*baseURL+"/selection", "application/json", bytes.NewReader(data))
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	drain(resp)
	return result{label, resp.StatusCode, lat, resp.StatusCode != want}
}

func doGet(path string, accepted ...int) result {
	label := "GET " + path
	start := time.Now()
	resp, err := httpClient.Get(*baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{label, 0, lat, true}
	}
	drain(resp)

	bad := true
	for _, code := range accepted {
		if resp.StatusCode == code {
			bad = false
			break
		}
	}
	// nothing saved yet
	if path == "/selection" && resp.StatusCode == http.StatusNotFound {
		bad = false
	}
	return result{label, resp.StatusCode, lat, bad}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
