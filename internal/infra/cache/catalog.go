package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// CatalogCache は公開カタログ応答のread-throughキャッシュ。
// REDIS_ADDR が未設定ならクライアントはnilのまま、全メソッドが素通りする。
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCacheFromEnv() *CatalogCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return &CatalogCache{}
	}
	return &CatalogCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASS"),
			DB:       0,
		}),
		ttl: 60 * time.Second,
	}
}

func (c *CatalogCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *CatalogCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *CatalogCache) SetJSON(ctx context.Context, key string, v interface{}) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	// キャッシュ書き込みの失敗は握りつぶす（応答はDBから返せている）
	c.client.Set(ctx, key, raw, c.ttl)
}

// 商品が変わったらカタログ系キーをまとめて捨てる
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	keys, err := c.client.Keys(ctx, "catalog:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
