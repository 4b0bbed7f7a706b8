package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRestyClientSendsMethodHeadersAndBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("X-Reply", "yes")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewRestyClient(2 * time.Second)
	resp, err := client.Do(context.Background(), Request{
		Method:  "get",
		URL:     srv.URL + "/items",
		Headers: map[string]string{"X-Test": "1"},
		Body:    []byte("{}"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode())
	}
	if string(resp.Body()) != `{"ok":true}` {
		t.Fatalf("unexpected body %q", resp.Body())
	}
	if resp.Header().Get("X-Reply") != "yes" {
		t.Fatalf("response header not exposed")
	}
	if gotBody != "{}" {
		t.Fatalf("expected GET payload {}, server saw %q", gotBody)
	}
}

func TestRestyClientDoesNotFollowRedirects(t *testing.T) {
	var followed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/target" {
			followed = true
			w.WriteHeader(http.StatusOK)
			return
		}
		http.Redirect(w, r, "/target", http.StatusFound)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(time.Second).Do(context.Background(), Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/start",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusFound {
		t.Fatalf("expected 302 to surface, got %d", resp.StatusCode())
	}
	if followed {
		t.Fatalf("redirect was followed")
	}
}

func TestRestyClientMergesQueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("a") != "1" || q.Get("b") != "2" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := NewRestyClient(time.Second).Do(context.Background(), Request{
		Method: http.MethodDelete,
		URL:    srv.URL + "/x?a=1",
		Query:  map[string]string{"b": "2"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode())
	}
}

func TestRestyClientPerRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := NewRestyClient(0).Do(context.Background(), Request{
		Method:  http.MethodGet,
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestRestyClientRejectsEmptyMethod(t *testing.T) {
	if _, err := NewRestyClient(time.Second).Do(context.Background(), Request{URL: "http://127.0.0.1"}); err == nil {
		t.Fatalf("expected error for empty method")
	}
}

func TestStaticResponse(t *testing.T) {
	resp := NewStaticResponse(http.StatusCreated, []byte(`[]`))
	var _ Response = resp
	if resp.StatusCode() != http.StatusCreated || string(resp.Body()) != "[]" {
		t.Fatalf("unexpected static response %#v", resp)
	}
	resp.Headers = nil
	if resp.Header() == nil {
		t.Fatalf("expected non-nil header map")
	}
}
