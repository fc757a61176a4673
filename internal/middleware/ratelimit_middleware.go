package middleware

import (
	"sync"
	"time"
)

// Rate limiter ONLY for failed admin login attempts
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewLoginRateLimiter() *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts: make(map[string]*attemptInfo),
	}
	go rl.cleanup()
	return rl
}

// Allow checks if IP can make another attempt
// Limit: 5 attempts per minute
func (r *LoginRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	info, exists := r.attempts[ip]
	if !exists {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	// Reset if window expired
	if now.Sub(info.firstAt) > time.Minute {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return true
	}

	if info.count >= 5 {
		return false
	}
	info.count++
	return true
}

// Reset clears the counter for an IP after a successful login.
func (r *LoginRateLimiter) Reset(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.attempts, ip)
}

func (r *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, info := range r.attempts {
			if now.Sub(info.firstAt) > time.Minute {
				delete(r.attempts, ip)
			}
		}
		r.mu.Unlock()
	}
}
