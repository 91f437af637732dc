package socketio

import (
	"container/list"
	"sync"
)

// ConnectionLimiter caps the number of concurrent external (non-localhost)
// connections. Local connections (127.0.0.1, ::1) are always allowed without
// limit. When a new external connection exceeds the cap, the oldest external
// connection is evicted to make room.
type ConnectionLimiter struct {
	mu          sync.Mutex
	maxExternal int
	// external connections in arrival order, oldest at the front;
	// element values are client IDs
	external *list.List
	byID     map[string]*connEntry
}

type connEntry struct {
	ip   string
	elem *list.Element // nil for local connections
}

// NewConnectionLimiter creates a limiter allowing up to maxExternal
// concurrent non-localhost connections.
func NewConnectionLimiter(maxExternal int) *ConnectionLimiter {
	return &ConnectionLimiter{
		maxExternal: maxExternal,
		external:    list.New(),
		byID:        make(map[string]*connEntry),
	}
}

// TryAdd registers a new connection. It reports whether the connection is
// allowed and the ID of any client evicted to make room (empty if none).
func (cl *ConnectionLimiter) TryAdd(clientID, remoteIP string) (allowed bool, evictedID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if _, seen := cl.byID[clientID]; seen {
		return true, ""
	}

	entry := &connEntry{ip: remoteIP}
	if !isLocalIP(remoteIP) {
		entry.elem = cl.external.PushBack(clientID)
	}
	cl.byID[clientID] = entry

	if cl.external.Len() > cl.maxExternal {
		oldest := cl.external.Front()
		evictedID = oldest.Value.(string)
		cl.external.Remove(oldest)
		delete(cl.byID, evictedID)
	}

	return true, evictedID
}

// Remove unregisters a connection when a client disconnects.
func (cl *ConnectionLimiter) Remove(clientID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	entry, seen := cl.byID[clientID]
	if !seen {
		return
	}
	if entry.elem != nil {
		cl.external.Remove(entry.elem)
	}
	delete(cl.byID, clientID)
}

// isLocalIP reports whether the IP address is localhost.
func isLocalIP(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1"
}
