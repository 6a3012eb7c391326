package youtube

import "time"

// Video is a video with its engagement counters. Counts and the publish time
// are nil when the API did not report them.
type Video struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  *time.Time
	ViewCount    *int64
	LikeCount    *int64
	CommentCount *int64
}

// API response types (private - implementation detail)

type searchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

type videosResponse struct {
	Items []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount    string `json:"viewCount"`
			LikeCount    string `json:"likeCount"`
			CommentCount string `json:"commentCount"`
		} `json:"statistics"`
	} `json:"items"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
