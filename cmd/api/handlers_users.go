package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sahilmalhotra/vidtube/internal/auth"
	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/internal/metrics"
	"github.com/sahilmalhotra/vidtube/internal/middleware"
	"github.com/sahilmalhotra/vidtube/internal/queue"
	"github.com/sahilmalhotra/vidtube/internal/tracing"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

const refreshTokenCookie = "refreshToken"

// setAuthCookies installs the token pair as httpOnly cookies. The SPA reads
// tokens from the response body; cookies cover same-site browser clients.
func (api *API) setAuthCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(api.tokens.AccessTokenTTL().Seconds()),
		"/", api.authCfg.CookieDomain, api.authCfg.SecureCookies, true)
	c.SetCookie(refreshTokenCookie, refreshToken,
		int(api.tokens.RefreshTokenTTL().Seconds()),
		"/", api.authCfg.CookieDomain, api.authCfg.SecureCookies, true)
}

func (api *API) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1,
		"/", api.authCfg.CookieDomain, api.authCfg.SecureCookies, true)
	c.SetCookie(refreshTokenCookie, "", -1,
		"/", api.authCfg.CookieDomain, api.authCfg.SecureCookies, true)
}

// uploadFormFile stores one multipart file under the given prefix and
// returns (publicURL, storageKey).
func (api *API) uploadFormFile(c *gin.Context, field, prefix string, required bool) (string, string, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		if required {
			failBadRequest(c, field+" file is required")
			return "", "", false
		}
		return "", "", true
	}

	file, err := header.Open()
	if err != nil {
		failInternal(c, "failed to read uploaded file")
		return "", "", false
	}
	defer file.Close()

	key, err := api.storage.Upload(c.Request.Context(), prefix, header.Filename, file, header.Size)
	if err != nil {
		api.log.ErrorWithErr("upload failed", err)
		metrics.RecordError("storage", "upload")
		failInternal(c, "failed to store uploaded file")
		return "", "", false
	}

	return api.storage.PublicURL(key), key, true
}

// registerUser creates an account from multipart form data. The avatar is
// required, the cover image optional.
func (api *API) registerUser(c *gin.Context) {
	fullName := strings.TrimSpace(c.PostForm("fullName"))
	email := strings.TrimSpace(c.PostForm("email"))
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if fullName == "" || email == "" || username == "" || password == "" {
		failBadRequest(c, "fullName, email, username and password are required")
		return
	}
	if !strings.Contains(email, "@") {
		failBadRequest(c, "invalid email address")
		return
	}
	if err := auth.ValidatePasswordComplexity(password); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	avatarURL, avatarKey, ok := api.uploadFormFile(c, "avatar", "avatars", true)
	if !ok {
		return
	}
	coverURL, coverKey, ok := api.uploadFormFile(c, "coverImage", "covers", false)
	if !ok {
		return
	}

	hash, err := auth.HashPassword(password, api.authCfg.BcryptCost)
	if err != nil {
		failInternal(c, "failed to create account")
		return
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		Avatar:        avatarURL,
		AvatarKey:     avatarKey,
		CoverImage:    coverURL,
		CoverImageKey: coverKey,
		PasswordHash:  hash,
	}

	if err := api.repo.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			failConflict(c, "username or email already exists")
			return
		}
		api.log.ErrorWithErr("failed to create user", err)
		failInternal(c, "failed to create account")
		return
	}

	metrics.RegistrationsTotal.Inc()
	api.log.LogAuthEvent("register", user.ID, c.ClientIP(), true)

	if api.queue != nil {
		if err := api.queue.Publish(c.Request.Context(), &queue.Event{
			Kind:   queue.EventUserRegistered,
			UserID: user.ID,
		}); err != nil {
			api.log.ErrorWithErr("failed to publish registration event", err)
		}
	}

	respondCreated(c, user, "user registered successfully")
}

// loginUser verifies credentials and issues the token pair. The refresh
// token is persisted on the account so it can be rotated and revoked.
func (api *API) loginUser(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, "password is required")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" {
		failBadRequest(c, "username or email is required")
		return
	}

	user, err := api.repo.GetUserCredentials(c.Request.Context(), identifier)
	if err != nil {
		metrics.RecordLogin(false)
		api.log.LogAuthEvent("login", "", c.ClientIP(), false)
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "user does not exist")
			return
		}
		failInternal(c, "failed to log in")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.RecordLogin(false)
		api.log.LogAuthEvent("login", user.ID, c.ClientIP(), false)
		failUnauthorized(c, "invalid credentials")
		return
	}

	accessToken, err := api.tokens.IssueAccessToken(user)
	if err != nil {
		failInternal(c, "failed to issue tokens")
		return
	}
	refreshToken, err := api.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		failInternal(c, "failed to issue tokens")
		return
	}

	if err := api.repo.SetRefreshToken(c.Request.Context(), user.ID, refreshToken); err != nil {
		api.log.ErrorWithErr("failed to persist refresh token", err)
		failInternal(c, "failed to issue tokens")
		return
	}

	metrics.RecordLogin(true)
	api.log.LogAuthEvent("login", user.ID, c.ClientIP(), true)
	api.setAuthCookies(c, accessToken, refreshToken)

	// Scrub credentials before echoing the account back.
	user.PasswordHash = ""
	user.RefreshToken = ""

	respondOK(c, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "user logged in successfully")
}

// logoutUser revokes the stored refresh token and clears the cookies.
func (api *API) logoutUser(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := api.repo.ClearRefreshToken(c.Request.Context(), user.ID); err != nil {
		api.log.ErrorWithErr("failed to clear refresh token", err)
		failInternal(c, "failed to log out")
		return
	}

	api.clearAuthCookies(c)
	api.log.LogAuthEvent("logout", user.ID, c.ClientIP(), true)
	respondOK(c, nil, "user logged out successfully")
}

// refreshAccessToken exchanges a valid refresh token for a fresh pair.
// Rotation is atomic against the stored token, so a replayed token fails
// even when it still verifies cryptographically.
func (api *API) refreshAccessToken(c *gin.Context) {
	span, ctx := tracing.StartSpan(c.Request.Context(), "auth.refresh")
	defer tracing.FinishSpan(span)
	c.Request = c.Request.WithContext(ctx)

	incoming, err := c.Cookie(refreshTokenCookie)
	if err != nil || incoming == "" {
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := c.ShouldBindJSON(&req); err == nil {
			incoming = req.RefreshToken
		}
	}
	if incoming == "" {
		metrics.RecordTokenRefresh(false)
		failUnauthorized(c, "refresh token is required")
		return
	}

	userID, err := api.tokens.VerifyRefreshToken(incoming)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		failUnauthorized(c, "invalid refresh token")
		return
	}

	user, err := api.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		metrics.RecordTokenRefresh(false)
		failUnauthorized(c, "invalid refresh token")
		return
	}

	accessToken, err := api.tokens.IssueAccessToken(user)
	if err != nil {
		failInternal(c, "failed to issue tokens")
		return
	}
	refreshToken, err := api.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		failInternal(c, "failed to issue tokens")
		return
	}

	if err := api.repo.RotateRefreshToken(c.Request.Context(), user.ID, incoming, refreshToken); err != nil {
		metrics.RecordTokenRefresh(false)
		tracing.LogError(span, err)
		if errors.Is(err, database.ErrTokenMismatch) {
			api.log.LogAuthEvent("refresh_replay", user.ID, c.ClientIP(), false)
			failUnauthorized(c, "refresh token is expired or already used")
			return
		}
		api.log.ErrorWithErr("failed to rotate refresh token", err)
		failInternal(c, "failed to refresh tokens")
		return
	}

	metrics.RecordTokenRefresh(true)
	api.setAuthCookies(c, accessToken, refreshToken)

	respondOK(c, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "access token refreshed")
}

// changePassword verifies the old password and the new password's
// confirmation before installing the new one.
func (api *API) changePassword(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req struct {
		OldPassword  string `json:"oldPassword" binding:"required"`
		NewPassword  string `json:"newPassword" binding:"required"`
		ConfPassword string `json:"confPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, "oldPassword, newPassword and confPassword are required")
		return
	}
	if req.NewPassword != req.ConfPassword {
		failBadRequest(c, "new password and confirmation do not match")
		return
	}

	hash, err := api.repo.GetPasswordHash(c.Request.Context(), user.ID)
	if err != nil {
		failInternal(c, "failed to change password")
		return
	}
	if !auth.CheckPassword(hash, req.OldPassword) {
		failBadRequest(c, "old password is incorrect")
		return
	}
	if err := auth.ValidatePasswordComplexity(req.NewPassword); err != nil {
		failBadRequest(c, err.Error())
		return
	}

	newHash, err := auth.HashPassword(req.NewPassword, api.authCfg.BcryptCost)
	if err != nil {
		failInternal(c, "failed to change password")
		return
	}
	if err := api.repo.UpdatePassword(c.Request.Context(), user.ID, newHash); err != nil {
		failInternal(c, "failed to change password")
		return
	}

	api.log.LogAuthEvent("change_password", user.ID, c.ClientIP(), true)
	respondOK(c, nil, "password changed successfully")
}

// currentUser echoes the authenticated account.
func (api *API) currentUser(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	respondOK(c, user, "current user fetched successfully")
}

// updateAccount changes full name and email.
func (api *API) updateAccount(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req struct {
		FullName string `json:"fullName" binding:"required"`
		Email    string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		failBadRequest(c, "fullName and email are required")
		return
	}

	updated, err := api.repo.UpdateAccountDetails(c.Request.Context(), user.ID, req.FullName, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			failConflict(c, "email already in use")
			return
		}
		failInternal(c, "failed to update account")
		return
	}

	respondOK(c, updated, "account details updated successfully")
}

// updateAvatar replaces the avatar image and deletes the previous object.
func (api *API) updateAvatar(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	url, key, ok := api.uploadFormFile(c, "avatar", "avatars", true)
	if !ok {
		return
	}

	if err := api.repo.UpdateAvatar(c.Request.Context(), user.ID, url, key); err != nil {
		failInternal(c, "failed to update avatar")
		return
	}

	if user.AvatarKey != "" {
		if err := api.storage.Delete(c.Request.Context(), user.AvatarKey); err != nil {
			api.log.ErrorWithErr("failed to delete old avatar", err)
		}
	}

	respondOK(c, gin.H{"avatar": url}, "avatar updated successfully")
}

// updateCoverImage replaces the cover image and deletes the previous object.
func (api *API) updateCoverImage(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	url, key, ok := api.uploadFormFile(c, "coverImage", "covers", true)
	if !ok {
		return
	}

	if err := api.repo.UpdateCoverImage(c.Request.Context(), user.ID, url, key); err != nil {
		failInternal(c, "failed to update cover image")
		return
	}

	if user.CoverImageKey != "" {
		if err := api.storage.Delete(c.Request.Context(), user.CoverImageKey); err != nil {
			api.log.ErrorWithErr("failed to delete old cover image", err)
		}
	}

	respondOK(c, gin.H{"coverImage": url}, "cover image updated successfully")
}

// channelProfile returns the public channel page for a username. When the
// request is authenticated the profile reports whether the viewer is
// subscribed.
func (api *API) channelProfile(c *gin.Context) {
	username := strings.TrimSpace(c.Param("username"))
	if username == "" {
		failBadRequest(c, "username is required")
		return
	}

	viewerID := ""
	if viewer, ok := middleware.CurrentUser(c); ok {
		viewerID = viewer.ID
	}

	profile, err := api.repo.GetChannelProfile(c.Request.Context(), username, viewerID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "channel does not exist")
			return
		}
		failInternal(c, "failed to fetch channel profile")
		return
	}

	respondOK(c, profile, "channel profile fetched successfully")
}

// watchHistory returns the viewer's watch history, most recent first.
func (api *API) watchHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	history, err := api.repo.GetWatchHistory(c.Request.Context(), user.ID)
	if err != nil {
		failInternal(c, "failed to fetch watch history")
		return
	}

	respondOK(c, history, "watch history fetched successfully")
}

// addWatchHistory records a video in the viewer's watch history. Watching
// the same video again only refreshes its timestamp.
func (api *API) addWatchHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	videoID := c.Param("videoId")

	video, err := api.repo.GetVideo(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			failNotFound(c, "video not found")
			return
		}
		failInternal(c, "failed to update watch history")
		return
	}
	if !video.IsPublished && video.OwnerID != user.ID {
		failNotFound(c, "video not found")
		return
	}

	if err := api.repo.AddToWatchHistory(c.Request.Context(), user.ID, videoID); err != nil {
		api.log.WithVideoID(videoID).ErrorWithErr("failed to record watch history", err)
		failInternal(c, "failed to update watch history")
		return
	}

	respondOK(c, nil, "video added to watch history")
}
