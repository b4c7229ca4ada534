package session

import (
	"context"
	"testing"
	"time"

	"github.com/adolfosa/feria-manager/pkg/config"
	redisclient "github.com/adolfosa/feria-manager/pkg/redis"
)

type fakeStore struct {
	data map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) SessionKey(sessionID string) string {
	return "test:session:" + sessionID
}

func testManager(t *testing.T) (*Manager, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	mgr, err := newManager(store, store, config.JWTConfig{
		Secret:            "s",
		Issuer:            "i",
		ExpirationMinutes: 60,
		SessionTTLMinutes: 120,
	})
	if err != nil {
		t.Fatalf("newManager failed: %v", err)
	}
	return mgr, store
}

func TestSessionLifecycle(t *testing.T) {
	mgr, _ := testManager(t)
	ctx := context.Background()

	if err := mgr.Start(ctx, "sess-1", "user-1"); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	ok, err := mgr.HasSession(ctx, "sess-1")
	if err != nil || !ok {
		t.Fatalf("expected live session, got ok=%v err=%v", ok, err)
	}

	if err := mgr.Revoke(ctx, "sess-1"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	ok, err = mgr.HasSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("HasSession after revoke errored: %v", err)
	}
	if ok {
		t.Fatal("revoked session should not be live")
	}
}

func TestHasSessionEmptyID(t *testing.T) {
	mgr, _ := testManager(t)
	ok, err := mgr.HasSession(context.Background(), " ")
	if err != nil || ok {
		t.Fatalf("blank session id should be ok=false err=nil, got %v %v", ok, err)
	}
}

func TestManagerRejectsBadTTLs(t *testing.T) {
	store := newFakeStore()
	if _, err := newManager(store, store, config.JWTConfig{ExpirationMinutes: 60}); err == nil {
		t.Fatal("expected error for zero session ttl")
	}
	if _, err := newManager(store, store, config.JWTConfig{ExpirationMinutes: 120, SessionTTLMinutes: 60}); err == nil {
		t.Fatal("expected error for session ttl below token ttl")
	}
}
