package router

import (
	"context"
	"testing"
)

func ok(ctx context.Context, rp *RouteParams) (Token, error) { return Send, nil }

func TestLiteralRoute(t *testing.T) {
	r := NewRouter()
	r.Get("/users", func(ctx context.Context, rp *RouteParams) (Token, error) {
		return Send, nil
	})

	tok, _, err := r.Dispatch(context.Background(), "GET", "/users")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tok != Send {
		t.Errorf("token = %v, want Send", tok)
	}
}

func TestParamRoute(t *testing.T) {
	r := NewRouter()
	var captured string
	r.Get("/users/:id", func(ctx context.Context, rp *RouteParams) (Token, error) {
		v, _ := rp.Param("id")
		captured = v
		return Send, nil
	})

	_, _, err := r.Dispatch(context.Background(), "GET", "/users/42")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if captured != "42" {
		t.Errorf("captured id = %q, want %q", captured, "42")
	}
}

func TestWildcardRoute(t *testing.T) {
	r := NewRouter()
	var captured string
	r.Get("/files/*path", func(ctx context.Context, rp *RouteParams) (Token, error) {
		v, _ := rp.Param("path")
		captured = v
		return Send, nil
	})

	_, _, err := r.Dispatch(context.Background(), "GET", "/files/a/b/c.txt")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if captured != "a/b/c.txt" {
		t.Errorf("captured path = %q, want %q", captured, "a/b/c.txt")
	}
}

func TestLiteralPrecedesParam(t *testing.T) {
	var paramRouteHit bool
	r := NewRouter()
	r.Get("/users/:id", func(ctx context.Context, rp *RouteParams) (Token, error) {
		paramRouteHit = true
		return Send, nil
	})
	r.Get("/users/me", func(ctx context.Context, rp *RouteParams) (Token, error) {
		return Send, nil
	})

	tok, rp, err := r.Dispatch(context.Background(), "GET", "/users/me")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tok != Send {
		t.Errorf("token = %v, want Send (literal /users/me should win over :id)", tok)
	}
	if paramRouteHit {
		t.Error("the :id route ran; the literal /users/me route should have won")
	}
	if rp.ParamCount() != 0 {
		t.Errorf("ParamCount() = %d, want 0 for the literal match", rp.ParamCount())
	}
}

func TestNotFound(t *testing.T) {
	r := NewRouter()
	r.Get("/users", ok)

	_, _, err := r.Dispatch(context.Background(), "GET", "/nope")
	if err != ErrNotFound {
		t.Fatalf("Dispatch() err = %v, want ErrNotFound", err)
	}
}

func TestMiddlewareOrdering(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, rp *RouteParams) (Token, error) {
				order = append(order, name)
				return next(ctx, rp)
			}
		}
	}

	r := NewRouter()
	r.Use(mw("a"), mw("b"))
	r.Get("/x", func(ctx context.Context, rp *RouteParams) (Token, error) {
		order = append(order, "handler")
		return Send, nil
	})

	if _, _, err := r.Dispatch(context.Background(), "GET", "/x"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	want := []string{"a", "b", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestMount(t *testing.T) {
	api := NewRouter()
	api.Get("/ping", func(ctx context.Context, rp *RouteParams) (Token, error) {
		return Send, nil
	})

	root := NewRouter()
	root.Mount("/api", NewLayer(api))

	tok, _, err := root.Dispatch(context.Background(), "GET", "/api/ping")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tok != Send {
		t.Errorf("token = %v, want Send", tok)
	}
}

func TestMountDepthExceeded(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when exceeding maxLayerDepth")
		}
	}()

	cur := NewRouter()
	for i := 0; i < maxLayerDepth+2; i++ {
		next := NewRouter()
		next.Mount("/a", NewLayer(cur))
		cur = next
	}
}

func TestSuspendResume(t *testing.T) {
	r := NewRouter()
	r.Get("/slow", func(ctx context.Context, rp *RouteParams) (Token, error) {
		rp.Suspend(func(ctx context.Context, rp *RouteParams) (Token, error) {
			return Send, nil
		})
		return Suspend, nil
	})

	tok, rp, err := r.Dispatch(context.Background(), "GET", "/slow")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tok != Suspend {
		t.Fatalf("token = %v, want Suspend", tok)
	}
	if rp.Suspender == nil {
		t.Fatal("Suspender not stashed")
	}

	tok, err = Resume(context.Background(), rp)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if tok != Send {
		t.Errorf("resumed token = %v, want Send", tok)
	}
}

func TestFlatRouterMatchesRouter(t *testing.T) {
	r := NewRouter()
	r.Get("/users/:id", func(ctx context.Context, rp *RouteParams) (Token, error) {
		return Send, nil
	})
	fr := Build(r)

	tok, rp, err := fr.Dispatch(context.Background(), "GET", "/users/7")
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if tok != Send {
		t.Errorf("token = %v, want Send", tok)
	}
	if v, _ := rp.Param("id"); v != "7" {
		t.Errorf("id = %q, want %q", v, "7")
	}
}

func TestFlatRouterIncludesMounted(t *testing.T) {
	api := NewRouter()
	api.Get("/ping", ok)
	root := NewRouter()
	root.Mount("/api", NewLayer(api))
	fr := Build(root)

	if _, _, err := fr.Dispatch(context.Background(), "GET", "/api/ping"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}
