package redis

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	Client *redis.Client
	Ctx    = context.Background()
)

func InitRedis() {
	Client = redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_ADDR"),
		DB:   0,
	})

	// Test connection
	_, err := Client.Ping(Ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Println("✅ Connected to Redis")
}

// StoreJoinTicket records a one-time join ticket minted after a successful
// access-code verification. The ticket expires with the same TTL as the code.
func StoreJoinTicket(ticket string, consultationID uint, ttl time.Duration) error {
	key := fmt.Sprintf("join_ticket:%s", ticket)
	return Client.Set(Ctx, key, consultationID, ttl).Err()
}

// ConsumeJoinTicket redeems a join ticket exactly once, returning the
// consultation it grants access to. A missing or already-used ticket
// returns ok=false.
func ConsumeJoinTicket(ticket string) (uint, bool) {
	key := fmt.Sprintf("join_ticket:%s", ticket)
	val, err := Client.GetDel(Ctx, key).Uint64()
	if err != nil {
		return 0, false
	}
	return uint(val), true
}
