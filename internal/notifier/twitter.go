package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultAPIURL = "https://api.twitter.com/2/tweets"

// Credentials holds the four OAuth1 user-context secrets.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// TwitterNotifier posts status threads via the Twitter API v2, signing
// requests with OAuth1 user context.
type TwitterNotifier struct {
	APIURL string
	Client *http.Client
}

// NewTwitterNotifier creates a notifier whose HTTP client signs every
// request with the given credentials.
func NewTwitterNotifier(creds Credentials) *TwitterNotifier {
	cfg := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)
	client := cfg.Client(oauth1.NoContext, token)
	client.Timeout = 30 * time.Second
	return &TwitterNotifier{
		APIURL: defaultAPIURL,
		Client: client,
	}
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PostThread posts each message as a reply to the previous one and
// returns the posted status ids in order. On error the returned ids
// cover the statuses that did go out.
func (t *TwitterNotifier) PostThread(ctx context.Context, messages []string) ([]string, error) {
	ids := make([]string, 0, len(messages))
	replyTo := ""
	for _, msg := range messages {
		id, err := t.post(ctx, msg, replyTo)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
		replyTo = id
	}
	return ids, nil
}

func (t *TwitterNotifier) post(ctx context.Context, text, replyTo string) (string, error) {
	payload := tweetRequest{Text: text}
	if replyTo != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: replyTo}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post status: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("twitter API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var out tweetResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Data.ID, nil
}
