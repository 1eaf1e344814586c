package common

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/gosimple/slug"
	"github.com/redis/go-redis/v9"
	"github.com/tidwall/gjson"

	"brs/src/config"
	"brs/src/lib"
	"brs/src/lib/aws"
	"brs/src/types"
)

const pricingCacheKey = "settings:pricing"
const dailyRateCacheKey = "settings:daily-rate"
const settingsCacheTTL = 5 * time.Minute

// GetPricingConfig resolves the active pricing config: cache first,
// then the blob store, falling back to the built-in defaults. It never
// returns an error so quoting always works.
func GetPricingConfig() types.PricingConfig {
	rdb := lib.GetRedisClient()
	if rdb != nil {
		cached, err := rdb.Get(context.Background(), pricingCacheKey).Result()
		if err == nil {
			var cfg types.PricingConfig
			if err := json.Unmarshal([]byte(cached), &cfg); err == nil {
				return cfg
			}
			log.Printf("Discarding malformed cached pricing config: %s\n", err.Error())
		}
	}
	if os.Getenv("S3_AGREEMENTS_BUCKET") != "" {
		body, err := aws.S3DownloadBlob(config.PRICING_CONFIG_KEY)
		if err != nil {
			log.Printf("Failed to load pricing config from blob store: %s\n", err.Error())
		} else if body != nil {
			var cfg types.PricingConfig
			if err := json.Unmarshal(body, &cfg); err == nil {
				cachePricingConfig(rdb, cfg)
				return cfg
			}
			log.Printf("Stored pricing config is malformed: %s\n", err.Error())
		}
	}
	return DefaultPricingConfig()
}

func cachePricingConfig(rdb *redis.Client, cfg types.PricingConfig) {
	if rdb == nil {
		return
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := rdb.SetEx(context.Background(), pricingCacheKey, string(raw), settingsCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache pricing config: %s\n", err.Error())
	}
}

// PutPricingConfig persists a new pricing config and invalidates the
// cache. Models without an explicit ID get one derived from the name.
func PutPricingConfig(cfg types.PricingConfig) error {
	for i := range cfg.Models {
		if cfg.Models[i].ID == "" {
			cfg.Models[i].ID = slug.Make(cfg.Models[i].Name)
		}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	if _, err := aws.S3UploadBlob(config.PRICING_CONFIG_KEY, raw, "application/json"); err != nil {
		return err
	}
	if rdb := lib.GetRedisClient(); rdb != nil {
		if err := rdb.Del(context.Background(), pricingCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate pricing cache: %s\n", err.Error())
		}
	}
	return nil
}

// GetDailyRate is the legacy flat-rate setting kept for older clients.
func GetDailyRate() float64 {
	rdb := lib.GetRedisClient()
	if rdb != nil {
		cached, err := rdb.Get(context.Background(), dailyRateCacheKey).Result()
		if err == nil {
			if rate := gjson.Get(cached, "daily_rate"); rate.Exists() && rate.Float() > 0 {
				return rate.Float()
			}
		}
	}
	if os.Getenv("S3_AGREEMENTS_BUCKET") != "" {
		body, err := aws.S3DownloadBlob(config.DAILY_RATE_KEY)
		if err == nil && body != nil {
			if rate := gjson.GetBytes(body, "daily_rate"); rate.Exists() && rate.Float() > 0 {
				return rate.Float()
			}
		}
	}
	return config.DEFAULT_DAILY_RATE
}

func PutDailyRate(rate float64) error {
	raw, err := json.Marshal(map[string]float64{"daily_rate": rate})
	if err != nil {
		return err
	}
	if _, err := aws.S3UploadBlob(config.DAILY_RATE_KEY, raw, "application/json"); err != nil {
		return err
	}
	if rdb := lib.GetRedisClient(); rdb != nil {
		if err := rdb.Del(context.Background(), dailyRateCacheKey).Err(); err != nil {
			log.Printf("Failed to invalidate daily rate cache: %s\n", err.Error())
		}
	}
	return nil
}
