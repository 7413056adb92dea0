package main

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
)

// toggleSubscription subscribes the caller to a channel, or unsubscribes
// when already subscribed. Self-subscription is rejected.
func (api *API) toggleSubscription(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	channelID := c.Param("channelId")

	if channelID == user.ID {
		failBadRequest(c, "cannot subscribe to your own channel")
		return
	}

	if _, err := api.repo.GetUserByID(c.Request.Context(), channelID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "channel not found")
			return
		}
		failInternal(c, "failed to toggle subscription")
		return
	}

	subscribed, err := api.repo.ToggleSubscription(c.Request.Context(), user.ID, channelID)
	if err != nil {
		failInternal(c, "failed to toggle subscription")
		return
	}

	metrics.RecordSubscriptionToggle(subscribed)
	if api.cache != nil {
		if err := api.cache.DeleteChannelStats(c.Request.Context(), channelID); err != nil {
			api.log.ErrorWithErr("failed to invalidate channel stats", err)
		}
	}

	message := "unsubscribed successfully"
	if subscribed {
		message = "subscribed successfully"
	}
	respondOK(c, gin.H{"subscribed": subscribed}, message)
}

// channelSubscribers lists the users subscribed to a channel.
func (api *API) channelSubscribers(c *gin.Context) {
	channelID := c.Param("channelId")

	subscribers, err := api.repo.ListChannelSubscribers(c.Request.Context(), channelID)
	if err != nil {
		failInternal(c, "failed to fetch subscribers")
		return
	}

	respondOK(c, subscribers, "subscribers fetched successfully")
}

// subscribedChannels lists the channels a user follows.
func (api *API) subscribedChannels(c *gin.Context) {
	subscriberID := c.Param("subscriberId")

	channels, err := api.repo.ListSubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		failInternal(c, "failed to fetch subscribed channels")
		return
	}

	respondOK(c, channels, "subscribed channels fetched successfully")
}
