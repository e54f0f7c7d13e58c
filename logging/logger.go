package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"
)

// Environment variable name for controlling statistics visibility
const ENV_DEV_MODE = "DEV_MODE"

// Statistics represents the collected API statistics
type Statistics struct {
	UniqueVisitors     map[string]time.Time `json:"uniqueVisitors"`     // IP -> Last Visit Time
	InspectionRequests int                  `json:"inspectionRequests"` // Total number of inspection requests
	ErrorCount         int                  `json:"errorCount"`         // Number of failed inspections
	PopularTargets     map[string]int       `json:"popularTargets"`     // Target site -> Count
	AverageDuration    float64              `json:"averageDuration"`    // Average inspection duration in milliseconds
	TotalDuration      float64              `json:"-"`                  // Used to calculate average
	RequestCount       int                  `json:"-"`                  // Used to calculate average
	LastPersisted      time.Time            `json:"lastPersisted"`      // Last time stats were saved
	mutex              sync.RWMutex         `json:"-"`
}

var (
	stats *Statistics
	once  sync.Once
)

// Initialize creates or loads the statistics
func Initialize() *Statistics {
	once.Do(func() {
		stats = &Statistics{
			UniqueVisitors: make(map[string]time.Time),
			PopularTargets: make(map[string]int),
			LastPersisted:  time.Now(),
		}

		// Try to load existing statistics
		if err := stats.Load(); err != nil {
			fmt.Printf("Could not load existing statistics: %v\n", err)
		}
	})
	return stats
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanTarget reduces an inspection target to scheme and host, dropping
// routes and query parameters. Local targets are not tracked.
func cleanTarget(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return urlStr
	}

	if strings.Contains(u.Host, "localhost") ||
		strings.Contains(u.Host, "127.0.0.1") {
		return ""
	}

	clean := u.Scheme + "://" + u.Host
	return strings.TrimSuffix(clean, "/")
}

// TrackInspection records a completed inspection run against a target site
func (s *Statistics) TrackInspection(target string, duration float64, hasError bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.InspectionRequests++

	// Clean the target before storing
	cleaned := cleanTarget(target)
	// Only track non-empty targets (those that passed our filtering)
	if cleaned != "" {
		s.PopularTargets[cleaned]++
	}

	if hasError {
		s.ErrorCount++
	}

	// Update average duration
	s.TotalDuration += duration
	s.RequestCount++
	s.AverageDuration = s.TotalDuration / float64(s.RequestCount)
}

// GetUniqueVisitorsCount returns the number of unique visitors in the last 24 hours
func (s *Statistics) GetUniqueVisitorsCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.uniqueVisitorsLocked()
}

// uniqueVisitorsLocked counts visitors in the last 24 hours. Caller holds the lock.
func (s *Statistics) uniqueVisitorsLocked() int {
	count := 0
	cutoff := time.Now().Add(-24 * time.Hour)

	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}

	return count
}

// GetPopularTargets returns the top N most inspected sites
func (s *Statistics) GetPopularTargets(n int) map[string]int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.popularTargetsLocked(n)
}

// popularTargetsLocked copies up to n targets. Caller holds the lock.
func (s *Statistics) popularTargetsLocked(n int) map[string]int {
	result := make(map[string]int)
	count := 0

	// Simple implementation - for production, use a heap or sorted data structure
	for target, freq := range s.PopularTargets {
		if count < n {
			result[target] = freq
			count++
		}
	}

	return result
}

// GetErrorRate returns the error rate as a percentage
func (s *Statistics) GetErrorRate() float64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.errorRateLocked()
}

// errorRateLocked computes the error percentage. Caller holds the lock.
func (s *Statistics) errorRateLocked() float64 {
	if s.InspectionRequests == 0 {
		return 0
	}

	return (float64(s.ErrorCount) / float64(s.InspectionRequests)) * 100
}

// Save persists the statistics to a file
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	file, err := os.Create("statistics.json")
	if err != nil {
		return fmt.Errorf("could not create statistics file: %v", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %v", err)
	}

	return nil
}

// Load reads the statistics from a file
func (s *Statistics) Load() error {
	file, err := os.Open("statistics.json")
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Not an error if file doesn't exist yet
		}
		return fmt.Errorf("could not open statistics file: %v", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %v", err)
	}

	return nil
}

// GetStatistics returns a copy of the current statistics. Everything is read
// in one critical section; the sync.RWMutex is not reentrant, so the exported
// accessors must not be called while the lock is held.
func (s *Statistics) GetStatistics() map[string]interface{} {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := map[string]interface{}{
		"uniqueVisitors24h": s.uniqueVisitorsLocked(),
		"totalRequests":     s.InspectionRequests,
		"errorRate":         s.errorRateLocked(),
		"averageDuration":   s.AverageDuration,
	}

	// Per-site detail only shown in development mode
	if os.Getenv(ENV_DEV_MODE) == "true" {
		result["popularTargets"] = s.popularTargetsLocked(5)
	}

	return result
}
