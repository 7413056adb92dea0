package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

// createPlaylist creates an empty named playlist for the caller.
func (api *API) createPlaylist(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		failBadRequest(c, "name is required")
		return
	}

	playlist := &models.Playlist{
		ID:          uuid.New().String(),
		OwnerID:     user.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}

	if err := api.repo.CreatePlaylist(c.Request.Context(), playlist); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			failConflict(c, "a playlist with this name already exists")
			return
		}
		failInternal(c, "failed to create playlist")
		return
	}

	respondCreated(c, playlist, "playlist created successfully")
}

// getPlaylist returns a playlist and its videos.
func (api *API) getPlaylist(c *gin.Context) {
	playlistID := c.Param("playlistId")

	playlist, err := api.repo.GetPlaylist(c.Request.Context(), playlistID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "playlist not found")
			return
		}
		failInternal(c, "failed to fetch playlist")
		return
	}

	respondOK(c, playlist, "playlist fetched successfully")
}

// userPlaylists returns all playlists owned by a user.
func (api *API) userPlaylists(c *gin.Context) {
	userID := c.Param("userId")

	playlists, err := api.repo.ListUserPlaylists(c.Request.Context(), userID)
	if err != nil {
		failInternal(c, "failed to fetch playlists")
		return
	}

	respondOK(c, playlists, "playlists fetched successfully")
}

// updatePlaylist renames a playlist or changes its description.
func (api *API) updatePlaylist(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	playlistID := c.Param("playlistId")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		failBadRequest(c, "name is required")
		return
	}

	playlist, err := api.repo.UpdatePlaylist(c.Request.Context(), playlistID, user.ID,
		strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		failStoreError(c, err, "playlist not found")
		return
	}

	respondOK(c, playlist, "playlist updated successfully")
}

// deletePlaylist removes a playlist. Its videos are untouched.
func (api *API) deletePlaylist(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	playlistID := c.Param("playlistId")

	if err := api.repo.DeletePlaylist(c.Request.Context(), playlistID, user.ID); err != nil {
		failStoreError(c, err, "playlist not found")
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID}, "playlist deleted successfully")
}

// addPlaylistVideo adds a video to an owned playlist. Adding a video twice
// reports a conflict.
func (api *API) addPlaylistVideo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	playlistID := c.Param("playlistId")
	videoID := c.Param("videoId")

	if _, err := api.repo.GetVideo(c.Request.Context(), videoID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "video not found")
			return
		}
		failInternal(c, "failed to add video to playlist")
		return
	}

	err := api.repo.AddVideoToPlaylist(c.Request.Context(), playlistID, user.ID, videoID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrNotFound):
			failNotFound(c, "playlist not found")
		case errors.Is(err, database.ErrDuplicate):
			failConflict(c, "video already in playlist")
		default:
			failInternal(c, "failed to add video to playlist")
		}
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID, "videoId": videoID},
		"video added to playlist")
}

// removePlaylistVideo removes a video from an owned playlist.
func (api *API) removePlaylistVideo(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	playlistID := c.Param("playlistId")
	videoID := c.Param("videoId")

	err := api.repo.RemoveVideoFromPlaylist(c.Request.Context(), playlistID, user.ID, videoID)
	if err != nil {
		failStoreError(c, err, "video not in playlist")
		return
	}

	respondOK(c, gin.H{"playlistId": playlistID, "videoId": videoID},
		"video removed from playlist")
}
