package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"BrailleVoice/internal/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var ErrNotFound = errors.New("redis: key not found")

const (
	sessionPrefix = "voice:session:"
	pendingPrefix = "voice:pending:"
)

type IRedis interface {
	SaveSession(ctx context.Context, session entity.VoiceSession, expiration time.Duration) error
	GetSession(ctx context.Context, id string) (entity.VoiceSession, error)
	SavePending(ctx context.Context, pending entity.PendingUtterance, expiration time.Duration) error
	TakePending(ctx context.Context, id string) (entity.PendingUtterance, error)
	Ping(ctx context.Context) error
}

type redisClient struct {
	client *redis.Client
	log    *logrus.Logger
}

func New(log *logrus.Logger) IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	log.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, log)
}

func NewWithClient(client *redis.Client, log *logrus.Logger) IRedis {
	return &redisClient{client: client, log: log}
}

func (r *redisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisClient) SaveSession(ctx context.Context, session entity.VoiceSession, expiration time.Duration) error {
	return r.setJSON(ctx, sessionPrefix+session.ID, session, expiration)
}

func (r *redisClient) GetSession(ctx context.Context, id string) (entity.VoiceSession, error) {
	var session entity.VoiceSession

	val, err := r.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug(fmt.Sprintf("Session %s not found", id))
		return session, ErrNotFound
	} else if err != nil {
		r.log.Error(fmt.Sprintf("Error getting session %s: %v", id, err))
		return session, err
	}

	if err := json.Unmarshal(val, &session); err != nil {
		return session, fmt.Errorf("decode session %s: %w", id, err)
	}

	return session, nil
}

func (r *redisClient) SavePending(ctx context.Context, pending entity.PendingUtterance, expiration time.Duration) error {
	return r.setJSON(ctx, pendingPrefix+pending.ID, pending, expiration)
}

// TakePending returns the pending utterance and removes it in the same round
// trip, so each utterance can be completed once.
func (r *redisClient) TakePending(ctx context.Context, id string) (entity.PendingUtterance, error) {
	var pending entity.PendingUtterance

	val, err := r.client.GetDel(ctx, pendingPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		r.log.Debug(fmt.Sprintf("Pending utterance %s not found", id))
		return pending, ErrNotFound
	} else if err != nil {
		r.log.Error(fmt.Sprintf("Error taking pending utterance %s: %v", id, err))
		return pending, err
	}

	if err := json.Unmarshal(val, &pending); err != nil {
		return pending, fmt.Errorf("decode pending utterance %s: %w", id, err)
	}

	return pending, nil
}

func (r *redisClient) setJSON(ctx context.Context, key string, value any, expiration time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	r.log.Debug(fmt.Sprintf("Setting key %s with expiration %v", key, expiration))
	if err := r.client.Set(ctx, key, payload, expiration).Err(); err != nil {
		r.log.Error(fmt.Sprintf("Error setting key %s: %v", key, err))
		return err
	}
	return nil
}
