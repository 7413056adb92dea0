package models

// ChannelStats aggregates a channel's totals for the dashboard.
type ChannelStats struct {
	TotalVideos       int64 `json:"totalVideos"`
	TotalViews        int64 `json:"totalViews"`
	TotalSubscribers  int64 `json:"totalSubscribers"`
	TotalLikes        int64 `json:"totalLikes"`
	TotalVideoLikes   int64 `json:"totalVideoLikes"`
	TotalCommentLikes int64 `json:"totalCommentLikes"`
	TotalTweetLikes   int64 `json:"totalTweetLikes"`
}
