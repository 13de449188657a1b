package messaging

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
	"motor-menu/internal/types"
)

const (
	DefaultEventsKey = "motor-menu:events"

	motorsChannel = "motors"
	menuHash      = "menu"
	menuChannel   = "menu"

	publishBacklog = 32
)

type Callbacks struct {
	EventCallback func(fsm.Event) error
}

// RedisClient receives navigation commands from a redis list and publishes
// motor configuration and menu state. Publishing from the menu task goes
// through a buffered channel so the task never waits on the network.
type RedisClient struct {
	client    *redis.Client
	callbacks Callbacks
	eventsKey string
	logger    *logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	updates   chan func() error
}

func NewRedisClient(addr, eventsKey string, l *logger.Logger, callbacks Callbacks) *RedisClient {
	if eventsKey == "" {
		eventsKey = DefaultEventsKey
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   0,
		}),
		callbacks: callbacks,
		eventsKey: eventsKey,
		logger:    l.WithTag("redis"),
		ctx:       ctx,
		cancel:    cancel,
		updates:   make(chan func() error, publishBacklog),
	}
}

func (r *RedisClient) Connect() error {
	r.logger.Infof("Attempting to connect to Redis at %s", r.client.Options().Addr)

	if err := r.client.Ping(r.ctx).Err(); err != nil {
		return fmt.Errorf("Redis connection failed: %w", err)
	}
	r.logger.Infof("Successfully connected to Redis")
	return nil
}

// StartListening starts the command listener and the publisher.
func (r *RedisClient) StartListening() error {
	r.logger.Infof("Starting Redis listeners")

	r.wg.Add(2)
	go r.listCommandListener(r.eventsKey, r.handleMenuCommand)
	go r.publisher()

	return nil
}

func (r *RedisClient) listCommandListener(key string, handler func(string) error) {
	defer r.wg.Done()
	r.logger.Infof("Starting list command listener for %s", key)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Infof("Context cancelled, exiting %s listener", key)
			return
		default:
		}

		// Short timeout so cancellation is noticed promptly.
		result, err := r.client.BRPop(r.ctx, time.Second, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if r.ctx.Err() != nil {
				r.logger.Infof("Context cancelled, exiting %s listener", key)
				return
			}
			r.logger.Warnf("Error reading from %s list: %v", key, err)
			time.Sleep(100 * time.Millisecond)
			continue
		}

		// BRPOP returns [key, value]
		if len(result) >= 2 {
			r.logger.Debugf("Received command from %s: %s", key, result[1])
			if err := handler(result[1]); err != nil {
				r.logger.Warnf("Error handling %s command: %v", key, err)
			}
		}
	}
}

func (r *RedisClient) handleMenuCommand(value string) error {
	ev, err := events.Parse(value)
	if err != nil {
		return err
	}
	if ev == fsm.EvIdle || r.callbacks.EventCallback == nil {
		return nil
	}
	return r.callbacks.EventCallback(ev)
}

func (r *RedisClient) publisher() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case update := <-r.updates:
			if err := update(); err != nil {
				r.logger.Warnf("Publish failed: %v", err)
			}
		}
	}
}

// enqueue hands an update to the publisher without blocking. Updates are
// dropped while the backlog is full.
func (r *RedisClient) enqueue(update func() error) bool {
	select {
	case r.updates <- update:
		return true
	default:
		r.logger.Warnf("Publish backlog full, dropping update")
		return false
	}
}

// NotifyMotor schedules PublishMotor.
func (r *RedisClient) NotifyMotor(m types.MotorConfig) {
	r.enqueue(func() error { return r.PublishMotor(m) })
}

// NotifyMenuState schedules PublishMenuState.
func (r *RedisClient) NotifyMenuState(state fsm.State) {
	r.enqueue(func() error { return r.PublishMenuState(state) })
}

func motorHash(id int) string {
	return "motor:" + strconv.Itoa(id)
}

// PublishMotor stores one motor in hash motor:<id> and announces it on the
// motors channel.
func (r *RedisClient) PublishMotor(m types.MotorConfig) error {
	hash := motorHash(m.ID)
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, hash, "power", strconv.FormatBool(m.Power))
	pipe.HSet(r.ctx, hash, "speed", m.Speed)
	pipe.HSet(r.ctx, hash, "spin", m.Spin.String())
	pipe.Publish(r.ctx, motorsChannel, hash)
	if _, err := pipe.Exec(r.ctx); err != nil {
		return fmt.Errorf("failed to publish %s: %w", hash, err)
	}
	r.logger.Debugf("Published %s: %+v", hash, m)
	return nil
}

func (r *RedisClient) PublishMenuState(state fsm.State) error {
	return r.publishHashSet(menuHash, "state", string(state), menuChannel, "state")
}

// publishHashSet is a helper that atomically updates a hash field and publishes a notification
func (r *RedisClient) publishHashSet(hash, field string, value interface{}, channel, payload string) error {
	pipe := r.client.Pipeline()
	pipe.HSet(r.ctx, hash, field, value)
	pipe.Publish(r.ctx, channel, payload)
	_, err := pipe.Exec(r.ctx)
	return err
}

func (r *RedisClient) Close() error {
	r.logger.Infof("Closing Redis client")
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Infof("All Redis goroutines finished")
	case <-time.After(5 * time.Second):
		r.logger.Warnf("Timeout waiting for Redis goroutines to finish")
	}

	return r.client.Close()
}
