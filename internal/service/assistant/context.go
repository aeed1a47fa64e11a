package assistant

import (
	"sync"

	"github.com/larkfield/lark-server/internal/domain"
)

// historyLimit caps the rolling command and threat histories.
const historyLimit = 5

// Activity labels consulted by the default response branch.
const (
	ActivityPursuit      = "pursuit"
	ActivityDomesticCall = "domestic_call"
)

// Context is the rolling conversational state consulted during
// classification. One instance lives per engine; all mutations go through
// its methods so histories never exceed historyLimit.
type Context struct {
	mu              sync.RWMutex
	recentCommands  []string
	detectedThreats []string
	offline         bool
	currentActivity string
	location        *domain.Location
}

func NewContext() *Context {
	return &Context{
		recentCommands:  make([]string, 0, historyLimit),
		detectedThreats: make([]string, 0, historyLimit),
	}
}

// AddRecentCommand prepends a command, evicting the oldest beyond the limit.
func (c *Context) AddRecentCommand(command string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recentCommands = prepend(c.recentCommands, command)
}

// AddDetectedThreat prepends a threat label, evicting the oldest beyond the
// limit.
func (c *Context) AddDetectedThreat(threat string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detectedThreats = prepend(c.detectedThreats, threat)
}

func prepend(history []string, entry string) []string {
	history = append([]string{entry}, history...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	return history
}

// RecentCommands returns the command history, newest first.
func (c *Context) RecentCommands() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.recentCommands))
	copy(out, c.recentCommands)
	return out
}

// DetectedThreats returns the threat history, newest first.
func (c *Context) DetectedThreats() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.detectedThreats))
	copy(out, c.detectedThreats)
	return out
}

// LatestThreat returns the most recent threat label and whether one exists.
func (c *Context) LatestThreat() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.detectedThreats) == 0 {
		return "", false
	}
	return c.detectedThreats[0], true
}

func (c *Context) SetOffline(offline bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offline = offline
}

func (c *Context) Offline() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offline
}

// OfflineNote is the single place the offline flag turns into response text.
func (c *Context) OfflineNote() string {
	if c.Offline() {
		return " Using cached offline data."
	}
	return ""
}

func (c *Context) SetCurrentActivity(activity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentActivity = activity
}

func (c *Context) CurrentActivity() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentActivity
}

func (c *Context) SetLocation(loc domain.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.location = &loc
}

// Location returns the last known coordinates and whether any were set.
func (c *Context) Location() (domain.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.location == nil {
		return domain.Location{}, false
	}
	return *c.location, true
}
