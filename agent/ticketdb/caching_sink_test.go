package ticketdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	contractx "github.com/tanpawarit/erp-support-agent/agent/contract"
	statex "github.com/tanpawarit/erp-support-agent/agent/state"
)

type memorySink struct {
	states map[string]*statex.TicketState
	err    error
}

func (m *memorySink) Upsert(_ context.Context, meta contractx.TicketMeta, st *statex.TicketState) error {
	if m.err != nil {
		return m.err
	}
	if m.states == nil {
		m.states = make(map[string]*statex.TicketState)
	}
	m.states[meta.TicketID] = st
	return nil
}

func newCacheBackedByMap(t *testing.T, kv map[string]string) *RedisCache {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var cmd []any
		if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
			t.Errorf("decode command: %v", err)
			return
		}
		switch cmd[0] {
		case "SET":
			kv[cmd[1].(string)] = cmd[2].(string)
			fmt.Fprint(w, `{"result":"OK"}`)
		case "GET":
			val, ok := kv[cmd[1].(string)]
			if !ok {
				fmt.Fprint(w, `{"result":null}`)
				return
			}
			encoded, err := json.Marshal(val)
			if err != nil {
				t.Errorf("encode value: %v", err)
				return
			}
			fmt.Fprintf(w, `{"result":%s}`, encoded)
		default:
			t.Errorf("unexpected command %v", cmd)
		}
	}))
	t.Cleanup(srv.Close)

	cache, err := NewRedisCache(RedisCacheConfig{URL: srv.URL, Token: "token"})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	return cache
}

func TestCachingSinkWritesThrough(t *testing.T) {
	t.Parallel()

	kv := make(map[string]string)
	inner := &memorySink{}
	sink := NewCachingSink(inner, newCacheBackedByMap(t, kv))

	st := resolvedState()
	meta := contractx.TicketMeta{TicketID: st.TicketID, CustomerID: "C1001"}
	if err := sink.Upsert(context.Background(), meta, st); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if inner.states[st.TicketID] == nil {
		t.Fatal("inner sink did not receive the state")
	}
	if _, ok := kv["support:ticket:"+st.TicketID]; !ok {
		t.Fatal("cache did not receive the state")
	}

	got, err := sink.Lookup(context.Background(), st.TicketID)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if got.ActionTaken != st.ActionTaken {
		t.Fatalf("round-trip action = %q, want %q", got.ActionTaken, st.ActionTaken)
	}
}

func TestCachingSinkPropagatesSinkError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("db down")
	sink := NewCachingSink(&memorySink{err: wantErr}, newCacheBackedByMap(t, make(map[string]string)))

	st := resolvedState()
	err := sink.Upsert(context.Background(), contractx.TicketMeta{TicketID: st.TicketID}, st)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected sink error, got %v", err)
	}
}

func TestCachingSinkToleratesCacheFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	cache, err := NewRedisCache(RedisCacheConfig{URL: srv.URL, Token: "token"})
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}

	inner := &memorySink{}
	sink := NewCachingSink(inner, cache)

	st := resolvedState()
	if err := sink.Upsert(context.Background(), contractx.TicketMeta{TicketID: st.TicketID}, st); err != nil {
		t.Fatalf("cache failure must not fail the upsert: %v", err)
	}
	if inner.states[st.TicketID] == nil {
		t.Fatal("inner sink did not receive the state")
	}
}
