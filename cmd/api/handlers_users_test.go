package main

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sahilmalhotra/vidtube/internal/database"
	"github.com/sahilmalhotra/vidtube/pkg/models"
)

func TestRegisterUser_Validation(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]string
		errMsg string
	}{
		{
			name:   "missing fields",
			fields: map[string]string{"username": "sahil"},
			errMsg: "fullName, email, username and password are required",
		},
		{
			name: "invalid email",
			fields: map[string]string{
				"fullName": "Sahil Malhotra",
				"email":    "not-an-email",
				"username": "sahil",
				"password": "Str0ng!pass",
			},
			errMsg: "invalid email address",
		},
		{
			name: "weak password",
			fields: map[string]string{
				"fullName": "Sahil Malhotra",
				"email":    "sahil@example.com",
				"username": "sahil",
				"password": "weakpass",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t, new(MockStore))
			router := gin.New()
			router.POST("/register", api.registerUser)

			var buf bytes.Buffer
			writer := multipart.NewWriter(&buf)
			for k, v := range tt.fields {
				require.NoError(t, writer.WriteField(k, v))
			}
			require.NoError(t, writer.Close())

			req := httptest.NewRequest(http.MethodPost, "/register", &buf)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			if tt.errMsg != "" {
				body := decodeBody(t, w)
				assert.Equal(t, tt.errMsg, body["message"])
			}
		})
	}
}

func registrationForm(t *testing.T, withAvatar bool) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("fullName", "Sahil Malhotra"))
	require.NoError(t, writer.WriteField("email", "sahil@example.com"))
	require.NoError(t, writer.WriteField("username", "sahil"))
	require.NoError(t, writer.WriteField("password", "Str0ng!pass"))
	if withAvatar {
		part, err := writer.CreateFormFile("avatar", "avatar.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake png bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestRegisterUser_Success(t *testing.T) {
	mockRepo := new(MockStore)
	mockRepo.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	mockStorage := new(MockMediaStore)
	mockStorage.On("Upload", mock.Anything, "avatars", "avatar.png", mock.Anything, mock.Anything).
		Return("avatars/abc.png", nil)
	mockStorage.On("PublicURL", "avatars/abc.png").
		Return("http://localhost:9000/vidtube/avatars/abc.png")

	api := newTestAPI(t, mockRepo)
	api.storage = mockStorage

	router := gin.New()
	router.POST("/register", api.registerUser)

	buf, contentType := registrationForm(t, true)
	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "user registered successfully", body["message"])

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "sahil", data["username"])
	// Credentials must never leave the server.
	assert.NotContains(t, data, "passwordHash")
	assert.NotContains(t, data, "password_hash")

	mockRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestRegisterUser_MissingAvatar(t *testing.T) {
	api := newTestAPI(t, new(MockStore))
	router := gin.New()
	router.POST("/register", api.registerUser)

	buf, contentType := registrationForm(t, false)
	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "avatar file is required", body["message"])
}

func TestRegisterUser_DuplicateAccount(t *testing.T) {
	mockRepo := new(MockStore)
	mockRepo.On("CreateUser", mock.Anything, mock.Anything).Return(database.ErrDuplicate)

	mockStorage := new(MockMediaStore)
	mockStorage.On("Upload", mock.Anything, "avatars", "avatar.png", mock.Anything, mock.Anything).
		Return("avatars/abc.png", nil)
	mockStorage.On("PublicURL", "avatars/abc.png").Return("http://example.com/abc.png")

	api := newTestAPI(t, mockRepo)
	api.storage = mockStorage

	router := gin.New()
	router.POST("/register", api.registerUser)

	buf, contentType := registrationForm(t, true)
	req := httptest.NewRequest(http.MethodPost, "/register", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "username or email already exists", body["message"])
}

func TestLoginUser_Success(t *testing.T) {
	user := testUser()
	user.PasswordHash = mustHash(t, "Str0ng!pass")

	mockRepo := new(MockStore)
	mockRepo.On("GetUserCredentials", mock.Anything, "sahil").Return(user, nil)
	mockRepo.On("SetRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/login", api.loginUser)

	w := performJSON(t, router, http.MethodPost, "/login", gin.H{
		"username": "sahil",
		"password": "Str0ng!pass",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	loggedIn := data["user"].(map[string]interface{})
	assert.Equal(t, user.ID, loggedIn["id"])

	// The issued access token must verify and name the right account.
	claims, err := api.tokens.VerifyAccessToken(data["accessToken"].(string))
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	// Both tokens also travel as httpOnly cookies.
	cookies := w.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = ck.HttpOnly
	}
	assert.True(t, names["accessToken"])
	assert.True(t, names["refreshToken"])

	mockRepo.AssertExpectations(t)
}

func TestLoginUser_ByEmail(t *testing.T) {
	user := testUser()
	user.PasswordHash = mustHash(t, "Str0ng!pass")

	mockRepo := new(MockStore)
	mockRepo.On("GetUserCredentials", mock.Anything, "sahil@example.com").Return(user, nil)
	mockRepo.On("SetRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/login", api.loginUser)

	w := performJSON(t, router, http.MethodPost, "/login", gin.H{
		"email":    "sahil@example.com",
		"password": "Str0ng!pass",
	})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginUser_Failures(t *testing.T) {
	user := testUser()
	user.PasswordHash = mustHash(t, "Str0ng!pass")

	t.Run("unknown user", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetUserCredentials", mock.Anything, "ghost").Return(nil, database.ErrNotFound)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/login", api.loginUser)

		w := performJSON(t, router, http.MethodPost, "/login", gin.H{
			"username": "ghost",
			"password": "Str0ng!pass",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "user does not exist", body["message"])
	})

	t.Run("lookup failure", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetUserCredentials", mock.Anything, "sahil").
			Return(nil, errors.New("connection reset"))

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/login", api.loginUser)

		w := performJSON(t, router, http.MethodPost, "/login", gin.H{
			"username": "sahil",
			"password": "Str0ng!pass",
		})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetUserCredentials", mock.Anything, "sahil").Return(user, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/login", api.loginUser)

		w := performJSON(t, router, http.MethodPost, "/login", gin.H{
			"username": "sahil",
			"password": "not-the-password",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "invalid credentials", body["message"])
	})

	t.Run("missing identifier", func(t *testing.T) {
		api := newTestAPI(t, new(MockStore))
		router := gin.New()
		router.POST("/login", api.loginUser)

		w := performJSON(t, router, http.MethodPost, "/login", gin.H{
			"password": "Str0ng!pass",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogoutUser(t *testing.T) {
	user := testUser()

	mockRepo := new(MockStore)
	mockRepo.On("ClearRefreshToken", mock.Anything, user.ID).Return(nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/logout", asUser(user), api.logoutUser)

	w := performJSON(t, router, http.MethodPost, "/logout", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "user logged out successfully", body["message"])
	mockRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	user := testUser()

	mockRepo := new(MockStore)
	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	mockRepo.On("RotateRefreshToken", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/refresh-token", api.refreshAccessToken)

	incoming, err := api.tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	w := performJSON(t, router, http.MethodPost, "/refresh-token", gin.H{
		"refreshToken": incoming,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
	mockRepo.AssertExpectations(t)
}

func TestRefreshAccessToken_FromCookie(t *testing.T) {
	user := testUser()

	mockRepo := new(MockStore)
	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	mockRepo.On("RotateRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).Return(nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/refresh-token", api.refreshAccessToken)

	incoming, err := api.tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: incoming})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

// A refresh token that verifies cryptographically but no longer matches the
// stored one has already been used. The exchange must be refused.
func TestRefreshAccessToken_ReplayRejected(t *testing.T) {
	user := testUser()

	mockRepo := new(MockStore)
	mockRepo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil)
	mockRepo.On("RotateRefreshToken", mock.Anything, user.ID, mock.Anything, mock.Anything).
		Return(database.ErrTokenMismatch)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.POST("/refresh-token", api.refreshAccessToken)

	replayed, err := api.tokens.IssueRefreshToken(user.ID)
	require.NoError(t, err)

	w := performJSON(t, router, http.MethodPost, "/refresh-token", gin.H{
		"refreshToken": replayed,
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "refresh token is expired or already used", body["message"])
}

func TestRefreshAccessToken_Rejections(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		api := newTestAPI(t, new(MockStore))
		router := gin.New()
		router.POST("/refresh-token", api.refreshAccessToken)

		w := performJSON(t, router, http.MethodPost, "/refresh-token", gin.H{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		api := newTestAPI(t, new(MockStore))
		router := gin.New()
		router.POST("/refresh-token", api.refreshAccessToken)

		w := performJSON(t, router, http.MethodPost, "/refresh-token", gin.H{
			"refreshToken": "not.a.jwt",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted account", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetUserByID", mock.Anything, "user-123").Return(nil, database.ErrNotFound)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/refresh-token", api.refreshAccessToken)

		token, err := api.tokens.IssueRefreshToken("user-123")
		require.NoError(t, err)

		w := performJSON(t, router, http.MethodPost, "/refresh-token", gin.H{
			"refreshToken": token,
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestChangePassword(t *testing.T) {
	user := testUser()
	oldHash := mustHash(t, "OldSecr3t!")

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetPasswordHash", mock.Anything, user.ID).Return(oldHash, nil)
		mockRepo.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/change-password", asUser(user), api.changePassword)

		w := performJSON(t, router, http.MethodPost, "/change-password", gin.H{
			"oldPassword":  "OldSecr3t!",
			"newPassword":  "NewSecr3t!",
			"confPassword": "NewSecr3t!",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetPasswordHash", mock.Anything, user.ID).Return(oldHash, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/change-password", asUser(user), api.changePassword)

		w := performJSON(t, router, http.MethodPost, "/change-password", gin.H{
			"oldPassword":  "OldSecr3t!",
			"newPassword":  "NewSecr3t!",
			"confPassword": "Different9$",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "new password and confirmation do not match", body["message"])
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wrong old password", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetPasswordHash", mock.Anything, user.ID).Return(oldHash, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/change-password", asUser(user), api.changePassword)

		w := performJSON(t, router, http.MethodPost, "/change-password", gin.H{
			"oldPassword":  "wrong",
			"newPassword":  "NewSecr3t!",
			"confPassword": "NewSecr3t!",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "old password is incorrect", body["message"])
		mockRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("weak new password", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetPasswordHash", mock.Anything, user.ID).Return(oldHash, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/change-password", asUser(user), api.changePassword)

		w := performJSON(t, router, http.MethodPost, "/change-password", gin.H{
			"oldPassword":  "OldSecr3t!",
			"newPassword":  "short",
			"confPassword": "short",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCurrentUser(t *testing.T) {
	user := testUser()

	api := newTestAPI(t, new(MockStore))
	router := gin.New()
	router.GET("/current-user", asUser(user), api.currentUser)

	w := performJSON(t, router, http.MethodGet, "/current-user", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, user.ID, data["id"])
	assert.Equal(t, user.Username, data["username"])
}

func TestUpdateAccount(t *testing.T) {
	user := testUser()

	t.Run("success", func(t *testing.T) {
		updated := testUser()
		updated.FullName = "Sahil M."
		updated.Email = "new@example.com"

		mockRepo := new(MockStore)
		mockRepo.On("UpdateAccountDetails", mock.Anything, user.ID, "Sahil M.", "new@example.com").
			Return(updated, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.PATCH("/update-account", asUser(user), api.updateAccount)

		w := performJSON(t, router, http.MethodPatch, "/update-account", gin.H{
			"fullName": "Sahil M.",
			"email":    "new@example.com",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "Sahil M.", data["fullName"])
	})

	t.Run("email taken", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("UpdateAccountDetails", mock.Anything, user.ID, "Sahil M.", "taken@example.com").
			Return(nil, database.ErrDuplicate)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.PATCH("/update-account", asUser(user), api.updateAccount)

		w := performJSON(t, router, http.MethodPatch, "/update-account", gin.H{
			"fullName": "Sahil M.",
			"email":    "taken@example.com",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		api := newTestAPI(t, new(MockStore))
		router := gin.New()
		router.PATCH("/update-account", asUser(user), api.updateAccount)

		w := performJSON(t, router, http.MethodPatch, "/update-account", gin.H{
			"fullName": "Sahil M.",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChannelProfile(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		profile := &models.ChannelProfile{
			ID:              "user-456",
			Username:        "creator",
			SubscriberCount: 42,
		}

		mockRepo := new(MockStore)
		mockRepo.On("GetChannelProfile", mock.Anything, "creator", "").Return(profile, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.GET("/users/c/:username", api.channelProfile)

		w := performJSON(t, router, http.MethodGet, "/users/c/creator", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, "creator", data["username"])
		assert.Equal(t, float64(42), data["subscribersCount"])
	})

	t.Run("viewer subscription state", func(t *testing.T) {
		viewer := testUser()
		profile := &models.ChannelProfile{ID: "user-456", Username: "creator", IsSubscribed: true}

		mockRepo := new(MockStore)
		mockRepo.On("GetChannelProfile", mock.Anything, "creator", viewer.ID).Return(profile, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.GET("/users/c/:username", asUser(viewer), api.channelProfile)

		w := performJSON(t, router, http.MethodGet, "/users/c/creator", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]interface{})
		assert.Equal(t, true, data["isSubscribed"])
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetChannelProfile", mock.Anything, "ghost", "").Return(nil, database.ErrNotFound)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.GET("/users/c/:username", api.channelProfile)

		w := performJSON(t, router, http.MethodGet, "/users/c/ghost", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "channel does not exist", body["message"])
	})
}

func TestWatchHistory(t *testing.T) {
	user := testUser()
	history := []*models.WatchHistoryEntry{
		{VideoID: "video-1", Title: "First watch"},
		{VideoID: "video-2", Title: "Second watch"},
	}

	mockRepo := new(MockStore)
	mockRepo.On("GetWatchHistory", mock.Anything, user.ID).Return(history, nil)

	api := newTestAPI(t, mockRepo)
	router := gin.New()
	router.GET("/history", asUser(user), api.watchHistory)

	w := performJSON(t, router, http.MethodGet, "/history", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	entries := body["data"].([]interface{})
	assert.Len(t, entries, 2)
}

func TestAddWatchHistory(t *testing.T) {
	user := testUser()

	t.Run("success", func(t *testing.T) {
		video := testVideo("user-456", true)

		mockRepo := new(MockStore)
		mockRepo.On("GetVideo", mock.Anything, video.ID).Return(video, nil)
		mockRepo.On("AddToWatchHistory", mock.Anything, user.ID, video.ID).Return(nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/watch-history/:videoId", asUser(user), api.addWatchHistory)

		w := performJSON(t, router, http.MethodPost, "/watch-history/"+video.ID, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockRepo.AssertExpectations(t)
	})

	t.Run("video not found", func(t *testing.T) {
		mockRepo := new(MockStore)
		mockRepo.On("GetVideo", mock.Anything, "ghost").Return(nil, database.ErrNotFound)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/watch-history/:videoId", asUser(user), api.addWatchHistory)

		w := performJSON(t, router, http.MethodPost, "/watch-history/ghost", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "video not found", body["message"])
		mockRepo.AssertNotCalled(t, "AddToWatchHistory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unpublished video of another channel", func(t *testing.T) {
		video := testVideo("user-456", false)

		mockRepo := new(MockStore)
		mockRepo.On("GetVideo", mock.Anything, video.ID).Return(video, nil)

		api := newTestAPI(t, mockRepo)
		router := gin.New()
		router.POST("/watch-history/:videoId", asUser(user), api.addWatchHistory)

		w := performJSON(t, router, http.MethodPost, "/watch-history/"+video.ID, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockRepo.AssertNotCalled(t, "AddToWatchHistory", mock.Anything, mock.Anything, mock.Anything)
	})
}
