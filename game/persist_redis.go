package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type RedisRoomStore struct {
	rdclient *redis.Client
}

func NewRedisRoomStore(redisURL string, redisPW string, redisDB int) *RedisRoomStore {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisRoomStore{
		rdclient: rdclient,
	}
}

func (r *RedisRoomStore) Load(roomCode string) ([]byte, error) {
	roomBytes, err := r.rdclient.Get(context.Background(), roomKey(roomCode)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("Room state for Room: %s is not found", roomCode)
	} else if err != nil {
		return nil, err
	}
	return roomBytes, nil
}

func (r *RedisRoomStore) Save(roomCode string, data []byte) error {
	return r.rdclient.Set(context.Background(), roomKey(roomCode), data, 0).Err()
}

func (r *RedisRoomStore) Remove(roomCode string) error {
	return r.rdclient.Del(context.Background(), roomKey(roomCode)).Err()
}

func roomKey(roomCode string) string {
	return fmt.Sprintf("room|%s", roomCode)
}
