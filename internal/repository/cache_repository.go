package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/util"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetDocument(ctx context.Context, document *model.Document) error {
	data, err := json.Marshal(document)
	if err != nil {
		return util.LogError("[Cache] ошибка сериализации документа", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(document.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[Cache] ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("[Cache] неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

// GetDocument : (nil, nil) если документа нет в кэше
func (r *CacheRepository) GetDocument(ctx context.Context, uuid string) (*model.Document, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, util.LogError("[Cache] ошибка получения документа из Redis", err)
	}

	var document model.Document
	if err := json.Unmarshal(val, &document); err != nil {
		return nil, util.LogError("[Cache] ошибка десериализации документа из кэша", err)
	}
	return &document, nil
}

func (r *CacheRepository) DeleteDocument(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("[Cache] ошибка удаления документа из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("document:%s", uuid)
}
