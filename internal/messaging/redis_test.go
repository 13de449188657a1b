package messaging

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"motor-menu/internal/events"
	"motor-menu/internal/fsm"
	"motor-menu/internal/logger"
	"motor-menu/internal/types"
)

func newTestClient(t *testing.T, cb Callbacks) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	c := NewRedisClient(srv.Addr(), "", logger.Discard(), cb)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return c, srv
}

func TestHandleMenuCommand(t *testing.T) {
	var got []fsm.Event
	c := NewRedisClient("127.0.0.1:0", "", logger.Discard(), Callbacks{
		EventCallback: func(ev fsm.Event) error {
			got = append(got, ev)
			return nil
		},
	})

	if err := c.handleMenuCommand("next"); err != nil {
		t.Fatalf("handleMenuCommand failed: %v", err)
	}
	if err := c.handleMenuCommand("idle"); err != nil {
		t.Fatalf("handleMenuCommand(idle) failed: %v", err)
	}
	if err := c.handleMenuCommand("sideways"); !errors.Is(err, events.ErrUnknownEvent) {
		t.Errorf("Expected ErrUnknownEvent, got %v", err)
	}
	if len(got) != 1 || got[0] != fsm.EvNext {
		t.Errorf("Unexpected callbacks %v", got)
	}
}

func TestListenerDeliversCommands(t *testing.T) {
	q := events.NewQueue(4)
	c, srv := newTestClient(t, Callbacks{EventCallback: q.Push})
	if err := c.StartListening(); err != nil {
		t.Fatalf("StartListening failed: %v", err)
	}
	defer c.Close()

	srv.Lpush(DefaultEventsKey, "menu")
	srv.Lpush(DefaultEventsKey, "enter")

	deadline := time.Now().Add(3 * time.Second)
	for q.Len() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if q.Len() != 2 {
		t.Fatalf("Expected 2 events, got %d", q.Len())
	}
	if ev := q.Take(); ev != fsm.EvMenuActivate {
		t.Errorf("Expected menu first, got %s", ev)
	}
	if ev := q.Take(); ev != fsm.EvEnter {
		t.Errorf("Expected enter second, got %s", ev)
	}
}

func TestPublishMotor(t *testing.T) {
	c, srv := newTestClient(t, Callbacks{})
	defer c.Close()

	m := types.MotorConfig{ID: 1, Power: true, Speed: 7, Spin: types.SpinRight}
	if err := c.PublishMotor(m); err != nil {
		t.Fatalf("PublishMotor failed: %v", err)
	}

	if v := srv.HGet("motor:1", "power"); v != "true" {
		t.Errorf("Expected power true, got %q", v)
	}
	if v := srv.HGet("motor:1", "speed"); v != "7" {
		t.Errorf("Expected speed 7, got %q", v)
	}
	if v := srv.HGet("motor:1", "spin"); v != "right" {
		t.Errorf("Expected spin right, got %q", v)
	}
}

func TestNotifyMenuStateIsPublished(t *testing.T) {
	c, srv := newTestClient(t, Callbacks{})
	if err := c.StartListening(); err != nil {
		t.Fatalf("StartListening failed: %v", err)
	}
	defer c.Close()

	c.NotifyMenuState(fsm.StateSpeedPick)

	deadline := time.Now().Add(3 * time.Second)
	for srv.HGet("menu", "state") == "" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if v := srv.HGet("menu", "state"); v != string(fsm.StateSpeedPick) {
		t.Errorf("Expected menu state %s, got %q", fsm.StateSpeedPick, v)
	}
}

func TestNotifyDropsWhenBacklogFull(t *testing.T) {
	c := NewRedisClient("127.0.0.1:0", "", logger.Discard(), Callbacks{})
	defer c.cancel()

	accepted := 0
	for i := 0; i < publishBacklog+5; i++ {
		if c.enqueue(func() error { return nil }) {
			accepted++
		}
	}
	if accepted != publishBacklog {
		t.Errorf("Expected %d accepted updates, got %d", publishBacklog, accepted)
	}
}
