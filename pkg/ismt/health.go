package ismt

import "time"

// Health is a snapshot of the client's view of the API endpoint.
type Health struct {
	// IsHealthy is false after repeated consecutive failures.
	IsHealthy bool

	// LastCheck is when the status was last updated.
	LastCheck time.Time

	// ConsecutiveFailures counts failures since the last success.
	ConsecutiveFailures int

	// LastSuccessfulRequest is when a request last succeeded.
	LastSuccessfulRequest time.Time

	// TotalRequests counts all requests sent by this client.
	TotalRequests int64

	// FailedRequests counts requests that did not succeed.
	FailedRequests int64

	// LastError is the most recent failure (nil when healthy).
	LastError error
}

// unhealthyThreshold is the number of consecutive failures after which the
// client reports the endpoint as unhealthy.
const unhealthyThreshold = 3

// IsHealthy returns the current health status.
func (c *Client) IsHealthy() bool {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health.IsHealthy
}

// GetHealth returns a snapshot of detailed health information.
func (c *Client) GetHealth() Health {
	c.healthMu.RLock()
	defer c.healthMu.RUnlock()
	return c.health
}

// recordOutcome updates request counters and the health status.
func (c *Client) recordOutcome(success bool, err error) {
	c.healthMu.Lock()
	defer c.healthMu.Unlock()

	c.health.TotalRequests++
	c.health.LastCheck = time.Now()

	if success {
		c.health.IsHealthy = true
		c.health.ConsecutiveFailures = 0
		c.health.LastError = nil
		c.health.LastSuccessfulRequest = time.Now()
		return
	}

	c.health.FailedRequests++
	c.health.ConsecutiveFailures++
	c.health.LastError = err
	if c.health.ConsecutiveFailures >= unhealthyThreshold {
		c.health.IsHealthy = false
	}
}
