package middleware

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"arcade/internal/service"

	"github.com/gin-gonic/gin"
)

func authRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", JWT(), func(c *gin.Context) {
		id, _ := PlayerID(c)
		c.String(http.StatusOK, strconv.FormatInt(id, 10))
	})
	r.GET("/ws", JWT(), SessionRateLimit(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTMiddleware(t *testing.T) {
	service.InitJWT("test-secret")
	token, err := service.GenerateJWT(9)
	if err != nil {
		t.Fatal(err)
	}
	r := authRouter()

	res := doGet(r, "/me", http.Header{"Authorization": {"Bearer " + token}})
	if res.Code != http.StatusOK || res.Body.String() != "9" {
		t.Fatalf("bearer: %d %q", res.Code, res.Body.String())
	}

	res = doGet(r, "/me?token="+token, nil)
	if res.Code != http.StatusOK {
		t.Fatalf("query token: %d", res.Code)
	}

	if res = doGet(r, "/me", nil); res.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: %d", res.Code)
	}
	if res = doGet(r, "/me", http.Header{"Authorization": {"Bearer nope"}}); res.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", res.Code)
	}
}

func TestSessionRateLimitPerPlayer(t *testing.T) {
	service.InitJWT("test-secret")
	r := authRouter()
	tokenA, _ := service.GenerateJWT(1)
	tokenB, _ := service.GenerateJWT(2)

	for i := 0; i < 2; i++ {
		if res := doGet(r, "/ws?token="+tokenA, nil); res.Code != http.StatusOK {
			t.Fatalf("A request %d: %d", i, res.Code)
		}
	}
	if res := doGet(r, "/ws?token="+tokenA, nil); res.Code != http.StatusTooManyRequests {
		t.Fatalf("A over limit: %d", res.Code)
	}
	if res := doGet(r, "/ws?token="+tokenB, nil); res.Code != http.StatusOK {
		t.Fatalf("B should have its own budget: %d", res.Code)
	}
}

func TestSessionRateLimitRedis(t *testing.T) {
	useMiniredis(t)
	service.InitJWT("test-secret")
	r := authRouter()
	token, _ := service.GenerateJWT(3)

	for i := 0; i < 2; i++ {
		doGet(r, "/ws?token="+token, nil)
	}
	res := doGet(r, "/ws?token="+token, nil)
	if res.Code != http.StatusTooManyRequests || res.Header().Get("X-SessionRateLimit-Remaining") != "0" {
		t.Fatalf("expected 429 with remaining 0, got %d %v", res.Code, res.Header())
	}
}
