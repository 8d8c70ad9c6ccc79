package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

type LogStats struct {
	TotalErrors        int
	ReferralsRecorded  int
	DuplicateStudents  int
	InvalidCodes       int
	WebhookRejections  int
	PayoutsRecorded    int
	PayoutsRestored    int
	LoginFailures      int
	InvalidTokens      int
	FailedRequests     int
	AmbassadorActivity map[string]int
	ErrorPatterns      map[string]int
}

func main() {
	today := time.Now().Format("2006-01-02")
	logDir := "./logs"

	stats := &LogStats{
		AmbassadorActivity: make(map[string]int),
		ErrorPatterns:      make(map[string]int),
	}

	analyzeErrorLogs(filepath.Join(logDir, fmt.Sprintf("error-%s.log", today)), stats)
	analyzeInfoLogs(filepath.Join(logDir, fmt.Sprintf("info-%s.log", today)), stats)

	printReport(stats)
}

func analyzeErrorLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		stats.TotalErrors++

		if strings.Contains(line, "Login attempt failed") {
			stats.LoginFailures++
		}
		if strings.Contains(line, "Invalid token") {
			stats.InvalidTokens++
		}
		if strings.Contains(line, "Webhook payload rejected") ||
			strings.Contains(line, "Webhook secret") {
			stats.WebhookRejections++
		}

		extractErrorPattern(line, stats)
	}
}

func analyzeInfoLogs(logFile string, stats *LogStats) {
	file, err := os.Open(logFile)
	if err != nil {
		fmt.Printf("Error opening log file %s: %v\n", logFile, err)
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.Contains(line, "Referral recorded") {
			stats.ReferralsRecorded++
			extractAmbassadorActivity(line, stats)
		}
		if strings.Contains(line, "Webhook delivery rejected") {
			stats.WebhookRejections++
			if strings.Contains(line, "Student already registered") {
				stats.DuplicateStudents++
			}
			if strings.Contains(line, "Invalid referral code") {
				stats.InvalidCodes++
			}
		}
		if strings.Contains(line, "points held for ambassador") {
			stats.PayoutsRecorded++
			extractAmbassadorActivity(line, stats)
		}
		if strings.Contains(line, "restored") && strings.Contains(line, "points") {
			stats.PayoutsRestored++
		}
		if strings.Contains(line, "Status: 4") || strings.Contains(line, "Status: 5") {
			stats.FailedRequests++
		}
	}
}

func extractAmbassadorActivity(line string, stats *LogStats) {
	re := regexp.MustCompile(`for ambassador (.+)$`)
	if matches := re.FindStringSubmatch(line); len(matches) > 1 {
		stats.AmbassadorActivity[matches[1]]++
	}
}

func extractErrorPattern(line string, stats *LogStats) {
	// strip the logger prefix and timestamps so identical errors group together
	re := regexp.MustCompile(`^ERROR: \S+ \S+ \S+: `)
	msg := re.ReplaceAllString(line, "")
	if idx := strings.Index(msg, ":"); idx > 0 {
		msg = msg[:idx]
	}
	if msg != "" {
		stats.ErrorPatterns[msg]++
	}
}

func printReport(stats *LogStats) {
	fmt.Println("=== Log Analysis Report ===")
	fmt.Printf("Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Println("--- Referral Pipeline ---")
	fmt.Printf("Referrals recorded:   %d\n", stats.ReferralsRecorded)
	fmt.Printf("Duplicate students:   %d\n", stats.DuplicateStudents)
	fmt.Printf("Invalid codes:        %d\n", stats.InvalidCodes)
	fmt.Printf("Webhook rejections:   %d\n", stats.WebhookRejections)

	fmt.Println("\n--- Payouts ---")
	fmt.Printf("Payouts recorded:     %d\n", stats.PayoutsRecorded)
	fmt.Printf("Holds restored:       %d\n", stats.PayoutsRestored)

	fmt.Println("\n--- Auth ---")
	fmt.Printf("Login failures:       %d\n", stats.LoginFailures)
	fmt.Printf("Invalid tokens:       %d\n", stats.InvalidTokens)

	fmt.Println("\n--- Errors ---")
	fmt.Printf("Total error lines:    %d\n", stats.TotalErrors)
	fmt.Printf("Failed requests:      %d\n", stats.FailedRequests)

	if len(stats.AmbassadorActivity) > 0 {
		fmt.Println("\n--- Most Active Ambassadors ---")
		type activity struct {
			name  string
			count int
		}
		var ranked []activity
		for name, count := range stats.AmbassadorActivity {
			ranked = append(ranked, activity{name, count})
		}
		sort.Slice(ranked, func(i, j int) bool { return ranked[i].count > ranked[j].count })
		for i, a := range ranked {
			if i >= 10 {
				break
			}
			fmt.Printf("%-30s %d events\n", a.name, a.count)
		}
	}

	if len(stats.ErrorPatterns) > 0 {
		fmt.Println("\n--- Error Patterns ---")
		for pattern, count := range stats.ErrorPatterns {
			fmt.Printf("%-50s %d\n", pattern, count)
		}
	}
}
