package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripmate-server/models"
	"tripmate-server/storage"
)

// ProfileCacheTTL bounds the Redis memoization of profile reads. The cache
// is a convenience, never an authority: misses and unmarshal failures fall
// through to the database.
const ProfileCacheTTL = 5 * time.Minute

var cacheCtx = context.Background()

func profileCacheKey(userID uint) string {
	return fmt.Sprintf("profile:%d", userID)
}

// GetCachedUser returns the user row, memoized in Redis for ProfileCacheTTL.
func GetCachedUser(userID uint) (*models.User, error) {
	key := profileCacheKey(userID)

	if storage.Redis != nil {
		if data, err := storage.Redis.Get(cacheCtx, key).Bytes(); err == nil {
			var user models.User
			if err := json.Unmarshal(data, &user); err == nil {
				return &user, nil
			}
		}
	}

	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}

	if storage.Redis != nil {
		if data, err := json.Marshal(&user); err == nil {
			storage.Redis.Set(cacheCtx, key, data, ProfileCacheTTL)
		}
	}
	return &user, nil
}

// InvalidateUserCache drops the memoized row after a profile mutation.
func InvalidateUserCache(userID uint) {
	if storage.Redis != nil {
		storage.Redis.Del(cacheCtx, profileCacheKey(userID))
	}
}
