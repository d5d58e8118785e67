package monitor

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/theomrc/linklocal/internal/store"
)

// UrlMonitor periodically checks whether stored destination URLs are still
// reachable. It keeps the previous state per link so transitions (a destination
// going down or coming back) are logged once, not on every pass.
type UrlMonitor struct {
	store       store.LinkStore
	interval    time.Duration
	knownStates map[string]bool
	mu          sync.Mutex
	httpClient  *http.Client
}

// NewUrlMonitor creates and returns a new instance of UrlMonitor.
// interval determines how frequently destinations are checked.
func NewUrlMonitor(st store.LinkStore, interval time.Duration) *UrlMonitor {
	return &UrlMonitor{
		store:       st,
		interval:    interval,
		knownStates: make(map[string]bool),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Start launches the periodic monitoring loop. It blocks until the program
// stops.
func (m *UrlMonitor) Start() {
	log.Printf("[MONITOR] Starting URL monitor with interval of %v...", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Immediate check on startup before the first tick.
	m.checkUrls()

	for range ticker.C {
		m.checkUrls()
	}
}

// checkUrls verifies every unexpired destination currently in the store and
// logs state changes.
func (m *UrlMonitor) checkUrls() {
	log.Println("[MONITOR] Starting URL status verification...")

	links := m.store.Load()
	nowMillis := time.Now().UnixMilli()

	for _, link := range links {
		// Expired links are about to be pruned anyway.
		if link.IsExpired(nowMillis) {
			continue
		}

		currentState := m.isUrlAccessible(link.OriginalURL)

		m.mu.Lock()
		previousState, exists := m.knownStates[link.ID]
		m.knownStates[link.ID] = currentState
		m.mu.Unlock()

		if !exists {
			log.Printf("[MONITOR] Initial state for link %s (%s): %s",
				link.Code, link.OriginalURL, formatState(currentState))
			continue
		}

		if currentState != previousState {
			log.Printf("[NOTIFICATION] Link %s (%s) changed from %s to %s!",
				link.Code, link.OriginalURL, formatState(previousState), formatState(currentState))
		}
	}
	log.Println("[MONITOR] URL status verification completed.")
}

// isUrlAccessible performs an HTTP HEAD request to check if a URL is reachable.
// Returns true for 2xx and 3xx responses.
func (m *UrlMonitor) isUrlAccessible(url string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		log.Printf("[MONITOR] Error creating request for URL '%s': %v", url, err)
		return false
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Printf("[MONITOR] Error accessing URL '%s': %v", url, err)
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 400
}

// formatState converts the boolean accessibility state to a readable string.
func formatState(accessible bool) string {
	if accessible {
		return "ACCESSIBLE"
	}
	return "INACCESSIBLE"
}
