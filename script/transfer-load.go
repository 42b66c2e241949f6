package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// TransferRequest is the transfer payload
type TransferRequest struct {
	FromUserID uint64 `json:"fromUserId"`
	ToUserID   uint64 `json:"toUserId"`
	Amount     string `json:"amount"`
}

// BalanceResponse is the balance read payload
type BalanceResponse struct {
	UserID  uint64 `json:"userId"`
	Balance string `json:"balance"`
}

// TestResult contains metrics for a single request
type TestResult struct {
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	RejectedRequests   int // 4xx: insufficient funds etc.
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	Lock               sync.Mutex
}

func main() {
	concurrency := flag.Int("c", 10, "Number of concurrent goroutines")
	totalRequests := flag.Int("n", 500, "Total number of transfers to make")
	userIDsStr := flag.String("u", "1,2,3,4", "Comma-separated list of user IDs to transfer between")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	delayMs := flag.Int("delay", 0, "Delay between requests in milliseconds")
	flag.Parse()

	var userIDs []uint64
	for _, idStr := range strings.Split(*userIDsStr, ",") {
		var id uint64
		if _, err := fmt.Sscanf(strings.TrimSpace(idStr), "%d", &id); err == nil && id > 0 {
			userIDs = append(userIDs, id)
		}
	}
	if len(userIDs) < 2 {
		fmt.Println("Need at least two user IDs to transfer between")
		return
	}

	amounts := []string{"0.01", "1.00", "5.50", "10.00", "25.00"}

	fmt.Printf("Load testing transfers across %d users: %v\n", len(userIDs), userIDs)
	fmt.Printf("Concurrency: %d goroutines\n", *concurrency)
	fmt.Printf("Total requests: %d\n", *totalRequests)

	client := &http.Client{Timeout: 10 * time.Second}

	// Record the total money in the system before the run
	totalBefore, err := totalBalance(client, *baseURL, userIDs)
	if err != nil {
		fmt.Printf("Failed to read initial balances: %v\n", err)
		return
	}
	fmt.Printf("Total balance before: %.2f\n", totalBefore)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(*baseURL, *delayMs, userIDs, amounts, jobs, results)
		}()
	}

	go func() {
		for i := 0; i < *totalRequests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range results {
			stats.Lock.Lock()
			switch {
			case result.Success:
				stats.SuccessfulRequests++
			case result.StatusCode >= 400 && result.StatusCode < 500:
				stats.RejectedRequests++
			default:
				stats.FailedRequests++
				errMsg := "unknown"
				if result.Error != nil {
					errMsg = result.Error.Error()
				}
				stats.ErrorCounts[errMsg]++
			}

			stats.ResponseTimes = append(stats.ResponseTimes, result.ResponseTime)
			stats.TotalResponseTime += result.ResponseTime
			if result.ResponseTime < stats.MinResponseTime {
				stats.MinResponseTime = result.ResponseTime
			}
			if result.ResponseTime > stats.MaxResponseTime {
				stats.MaxResponseTime = result.ResponseTime
			}
			stats.Lock.Unlock()
		}
	}()

	startTime := time.Now()
	wg.Wait()
	close(results)
	<-done
	stats.TotalTime = time.Since(startTime)

	// Conservation check: transfers move money, they never create or destroy it
	totalAfter, err := totalBalance(client, *baseURL, userIDs)
	if err != nil {
		fmt.Printf("Failed to read final balances: %v\n", err)
		return
	}

	printResults(stats, totalBefore, totalAfter)
}

func worker(baseURL string, delayMs int, userIDs []uint64, amounts []string,
	jobs <-chan int, results chan<- TestResult) {

	client := &http.Client{Timeout: 10 * time.Second}

	for range jobs {
		if delayMs > 0 {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
		}

		// Pick two distinct users; opposing directions are equally likely,
		// which is exactly the pattern that provokes lock-order deadlocks
		from := userIDs[rand.Intn(len(userIDs))]
		to := userIDs[rand.Intn(len(userIDs))]
		for to == from {
			to = userIDs[rand.Intn(len(userIDs))]
		}

		transfer := TransferRequest{
			FromUserID: from,
			ToUserID:   to,
			Amount:     amounts[rand.Intn(len(amounts))],
		}

		jsonData, err := json.Marshal(transfer)
		if err != nil {
			results <- TestResult{Success: false, Error: err}
			continue
		}

		req, err := http.NewRequest("POST", baseURL+"/balances/transfer", bytes.NewBuffer(jsonData))
		if err != nil {
			results <- TestResult{Success: false, Error: err}
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		startTime := time.Now()
		resp, err := client.Do(req)
		responseTime := time.Since(startTime)

		result := TestResult{ResponseTime: responseTime}
		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !result.Success {
				result.Error = fmt.Errorf("HTTP status code %d", resp.StatusCode)
			}
			resp.Body.Close()
		}

		results <- result
	}
}

// totalBalance sums the balances of the given users
func totalBalance(client *http.Client, baseURL string, userIDs []uint64) (float64, error) {
	var total float64
	for _, id := range userIDs {
		resp, err := client.Get(fmt.Sprintf("%s/balances/%d", baseURL, id))
		if err != nil {
			return 0, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return 0, fmt.Errorf("HTTP status code %d for user %d", resp.StatusCode, id)
		}

		var balance BalanceResponse
		err = json.NewDecoder(resp.Body).Decode(&balance)
		resp.Body.Close()
		if err != nil {
			return 0, err
		}

		var value float64
		if _, err := fmt.Sscanf(balance.Balance, "%f", &value); err != nil {
			return 0, err
		}
		total += value
	}
	return total, nil
}

func printResults(stats *TestStats, totalBefore, totalAfter float64) {
	tps := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()

	var avgResponseTime time.Duration
	if len(stats.ResponseTimes) > 0 {
		avgResponseTime = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}

	var p50, p95, p99 time.Duration
	if len(stats.ResponseTimes) > 0 {
		sorted := make([]time.Duration, len(stats.ResponseTimes))
		copy(sorted, stats.ResponseTimes)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		p50 = sorted[len(sorted)*50/100]
		p95 = sorted[len(sorted)*95/100]
		p99 = sorted[len(sorted)*99/100]
	}

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful:          %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Rejected (4xx):      %d\n", stats.RejectedRequests)
	fmt.Printf("Failed:              %d\n", stats.FailedRequests)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())
	fmt.Printf("Transfers/sec:       %.2f\n", tps)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avgResponseTime)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", p50)
	fmt.Printf("P95 Response:        %v\n", p95)
	fmt.Printf("P99 Response:        %v\n", p99)

	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for errMsg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", errMsg, count)
		}
	}

	fmt.Println("\n================= CONSERVATION =================")
	fmt.Printf("Total balance before: %.2f\n", totalBefore)
	fmt.Printf("Total balance after:  %.2f\n", totalAfter)
	if totalBefore == totalAfter {
		fmt.Println("OK: no money created or destroyed")
	} else {
		fmt.Printf("MISMATCH: delta %.2f\n", totalAfter-totalBefore)
	}
	fmt.Println("================================================")
}
