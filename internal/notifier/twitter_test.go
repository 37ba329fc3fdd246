package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testNotifier(serverURL string) *TwitterNotifier {
	tn := NewTwitterNotifier(Credentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "cs",
		AccessKey:      "ak",
		AccessSecret:   "as",
	})
	tn.APIURL = serverURL
	return tn
}

func TestPostThread_RepliesChain(t *testing.T) {
	var bodies []tweetRequest
	var auths []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var req tweetRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		bodies = append(bodies, req)
		auths = append(auths, r.Header.Get("Authorization"))

		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{"id":"%d"}}`, len(bodies))
	}))
	defer srv.Close()

	tn := testNotifier(srv.URL)
	ids, err := tn.PostThread(context.Background(), []string{"first status", "second status"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("expected ids [1 2], got %v", ids)
	}
	if bodies[0].Reply != nil {
		t.Error("first status must not be a reply")
	}
	if bodies[1].Reply == nil || bodies[1].Reply.InReplyToTweetID != "1" {
		t.Errorf("second status should reply to the first, got %+v", bodies[1].Reply)
	}
	for i, a := range auths {
		if !strings.HasPrefix(a, "OAuth ") {
			t.Errorf("request %d missing OAuth1 signature, got %q", i, a)
		}
	}
}

func TestPostThread_StopsOnAPIError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"data":{"id":"1"}}`)
			return
		}
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"detail":"duplicate content"}`)
	}))
	defer srv.Close()

	tn := testNotifier(srv.URL)
	ids, err := tn.PostThread(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatal("expected an error from the second post")
	}
	if len(ids) != 1 || ids[0] != "1" {
		t.Errorf("expected the first posted id to be reported, got %v", ids)
	}
	if calls != 2 {
		t.Errorf("expected 2 API calls, got %d", calls)
	}
}
