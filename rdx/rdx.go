package rdx

import (
	"log"
	"os"

	"github.com/redis/go-redis/v9"
)

var Conn *redis.Client

// Initialize Redis connection. Falls back to localhost when REDIS_URL is unset
// so the engine stays usable in development without Redis config.
func init() {
	addr := os.Getenv("REDIS_URL")
	if addr == "" {
		addr = "localhost:6379"
		log.Println("REDIS_URL not set; defaulting to localhost:6379")
	}

	Conn = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
}
