package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/quizziebot/quizzie/internal/cache"
)

// DefaultLeaderboardLimit is the page size of the leaderboard tab.
const DefaultLeaderboardLimit = 10

// User is the authenticated account.
type User struct {
	ID             string   `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Score          int      `json:"score"`
	Avatar         string   `json:"avatar,omitempty"`
	FavoriteTopics []string `json:"favoriteTopics,omitempty"`
}

// UserStatistics summarises a user's play history.
type UserStatistics struct {
	QuizzesTaken   int     `json:"quizzesTaken"`
	CorrectAnswers int     `json:"correctAnswers"`
	TotalQuestions int     `json:"totalQuestions"`
	Accuracy       float64 `json:"accuracy"`
	Coins          int     `json:"coins"`
	XP             int     `json:"xp"`
	Rank           int     `json:"rank,omitempty"`
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Avatar   string `json:"avatar,omitempty"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Password       string   `json:"password,omitempty"`
	FavoriteTopics []string `json:"favoriteTopics"`
}

// UserUpdate carries the editable profile fields. Empty fields are left
// unchanged.
type UserUpdate struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// decodeUser accepts either a bare user or {"user": ...}.
func decodeUser(raw json.RawMessage) (*User, error) {
	var wrapped struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

func (c *Client) userCall(ctx context.Context, method, path string, in any) (*User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, method, path, in, &raw, nil); err != nil {
		return nil, err
	}
	return decodeUser(raw)
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	in := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{email, password}
	return c.userCall(ctx, http.MethodPost, "/api/auth/login", in)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.FavoriteTopics == nil {
		req.FavoriteTopics = []string{}
	}
	return c.userCall(ctx, http.MethodPost, "/api/users", req)
}

// GetUser fetches a user by ID.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	return c.userCall(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id), nil)
}

// UpdateUser edits profile fields.
func (c *Client) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*User, error) {
	return c.userCall(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id), upd)
}

// GetUserStatistics fetches a user's aggregate stats.
func (c *Client) GetUserStatistics(ctx context.Context, id string) (*UserStatistics, error) {
	var out UserStatistics
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(id)+"/statistics", nil, &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAvatar sets the avatar URL.
func (c *Client) UpdateAvatar(ctx context.Context, id, avatar string) (*User, error) {
	in := struct {
		Avatar string `json:"avatar"`
	}{avatar}
	return c.userCall(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/avatar", in)
}

// UpdateFavoriteTopics replaces the user's favourite topics.
func (c *Client) UpdateFavoriteTopics(ctx context.Context, id string, topics []string) error {
	if topics == nil {
		topics = []string{}
	}
	in := struct {
		Topics []string `json:"topics"`
		Action string   `json:"action"`
	}{topics, "replace"}
	return c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/favorite-topics", in, nil, nil)
}

// Leaderboard returns the top limit users by score.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	key := leaderboardKey(limit)
	return cache.Fetch(ctx, c.cache, key, func(ctx context.Context) ([]LeaderboardEntry, error) {
		var out []LeaderboardEntry
		path := "/api/leaderboard?limit=" + strconv.Itoa(limit)
		if err := c.do(ctx, http.MethodGet, path, nil, &out, nil); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// LeaderboardLimits are the page sizes the leaderboard screen cycles
// through. Their cache entries are dropped after a submission; other sizes
// expire by TTL.
var LeaderboardLimits = []int{3, DefaultLeaderboardLimit, 50, 100}

func leaderboardKey(limit int) string {
	return "leaderboard:" + strconv.Itoa(limit)
}

func leaderboardKeys() []string {
	keys := make([]string, len(LeaderboardLimits))
	for i, n := range LeaderboardLimits {
		keys[i] = leaderboardKey(n)
	}
	return keys
}
