package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/crateyy/pkg/response"
)

// KeyFunc builds the Redis counter key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returns true for requests that skip the limit.
type AllowFunc func(*gin.Context) bool

// Policy is a named fixed-window budget.
type Policy struct {
	Name   string
	Max    int
	Window time.Duration
	Key    KeyFunc
	Allow  AllowFunc
}

// Storefront budgets. Login is keyed by IP alone so rotating paths does not
// buy extra password guesses.
var (
	LoginPolicy      = Policy{Name: "login", Max: 10, Window: time.Minute, Key: KeyByIP()}
	RegisterPolicy   = Policy{Name: "register", Max: 5, Window: time.Minute, Key: KeyByIPAndPath()}
	SearchPolicy     = Policy{Name: "search", Max: 120, Window: time.Minute, Key: KeyByIPAndPath()}
	AdminWritePolicy = Policy{Name: "admin-write", Max: 60, Window: time.Minute, Key: KeyByUserID()}
	OrderPolicy      = Policy{Name: "order", Max: 20, Window: time.Minute, Key: KeyByUserID()}
	OAuthPolicy      = Policy{Name: "oauth", Max: 30, Window: time.Minute, Key: KeyByIPAndPath()}
	DebugVarsPolicy  = Policy{Name: "debug", Max: 120, Window: time.Minute, Key: KeyByIP(), Allow: AllowPrivateIP()}
)

const defaultRetryAfter = time.Second

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

// routePath is the registered route pattern so /products/1 and /products/2
// share a counter.
func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "rl:ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath limits each route separately per client.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID falls back to the client IP for anonymous requests.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

// AllowPrivateIP exempts loopback and RFC 1918 clients, such as a metrics
// scraper next to the API.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		ip := net.ParseIP(ipFromCtx(c))
		return ip != nil && (ip.IsLoopback() || ip.IsPrivate())
	}
}

var hitScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

type windowState struct {
	count int
	reset time.Duration
}

// hit counts one request and reports the window's remaining lifetime in the
// same round trip.
func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (windowState, error) {
	res, err := hitScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return windowState{}, err
	}
	st := windowState{count: int(res[0])}
	if len(res) > 1 && res[1] > 0 {
		st.reset = time.Duration(res[1]) * time.Millisecond
	}
	return st, nil
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// Limit enforces p on Redis. Without Redis, or when Redis errors, requests
// pass. OPTIONS preflights are never counted.
func Limit(rdb *redis.Client, p Policy) gin.HandlerFunc {
	if rdb == nil || p.Max <= 0 || p.Window <= 0 || p.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (p.Allow != nil && p.Allow(c)) {
			c.Next()
			return
		}
		st, err := hit(c, rdb, p.Key(c), p.Window)
		if err != nil {
			c.Next()
			return
		}

		remaining := max(p.Max-st.count, 0)
		reset := ceilSeconds(st.reset)
		c.Header("X-RateLimit-Limit", strconv.Itoa(p.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(reset))

		if st.count > p.Max {
			if reset == 0 {
				reset = ceilSeconds(defaultRetryAfter)
			}
			c.Header("Retry-After", strconv.Itoa(reset))
			response.Error[any](c, http.StatusTooManyRequests, "too many requests, slow down", gin.H{"policy": p.Name})
			return
		}
		c.Next()
	}
}

