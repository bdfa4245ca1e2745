package acceptance

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/studorg/portal-api/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.NotZero(authResp.ExpiresIn)
	s.Equal("test@example.com", authResp.User.Email)
	s.Equal("Test User", authResp.User.Name)
	s.Equal("member", string(authResp.User.Role))
	s.NotEmpty(authResp.User.ID)

	cookies := resp.Cookies()
	access := cookieByName(cookies, "accessToken")
	refresh := cookieByName(cookies, "refreshToken")
	s.Require().NotNil(access, "Should set access token cookie")
	s.Require().NotNil(refresh, "Should set refresh token cookie")
	s.True(access.HttpOnly)
	s.True(refresh.HttpOnly)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("First", "duplicate@example.com", "Password123")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Second",
		Email:    "duplicate@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "invalid-email",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_ShortPassword() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "short",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.register("Login User", "login@example.com", "Password123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	s.NotEmpty(authResp.AccessToken)
	s.Equal("Bearer", authResp.TokenType)
	s.Equal("login@example.com", authResp.User.Email)

	s.NotNil(cookieByName(resp.Cookies(), "accessToken"))
	s.NotNil(cookieByName(resp.Cookies(), "refreshToken"))
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "wrongpassword",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Unauthorized", errResp.Error)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("Wrong Pass", "wrongpass@example.com", "CorrectPassword123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestMe_WithCookie() {
	_, cookies := s.register("Get Me", "getme@example.com", "Password123")

	resp := s.request("GET", "/api/v1/auth/me", nil, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))

	s.NotEmpty(userResp.ID)
	s.Equal("getme@example.com", userResp.Email)
	s.Equal("Get Me", userResp.Name)
	s.False(userResp.IsEmailVerified)
	s.Require().NotNil(userResp.Profile)
	s.NotNil(userResp.Profile.Skills)
}

func (s *Suite) TestMe_WithBearerHeader() {
	authResp, _ := s.register("Bearer User", "bearer@example.com", "Password123")

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", authResp.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestMe_NoToken() {
	resp := s.request("GET", "/api/v1/auth/me", nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("NO_TOKEN", errResp.Code)
}

func (s *Suite) TestMe_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("TOKEN_INVALID", errResp.Code)
}

func (s *Suite) TestStatus() {
	resp := s.request("GET", "/api/v1/auth/status", nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var statusResp dto.StatusResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&statusResp))
	s.False(statusResp.IsAuthenticated)
	s.Nil(statusResp.User)

	_, cookies := s.register("Status User", "status@example.com", "Password123")

	resp2 := s.request("GET", "/api/v1/auth/status", nil, cookies)
	defer resp2.Body.Close()

	s.Equal(http.StatusOK, resp2.StatusCode)

	var statusResp2 dto.StatusResponse
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&statusResp2))
	s.True(statusResp2.IsAuthenticated)
	s.Require().NotNil(statusResp2.User)
	s.Equal("status@example.com", statusResp2.User.Email)
}

func (s *Suite) TestMe_DeactivatedAccount() {
	_, cookies := s.register("Gone User", "gone@example.com", "Password123")

	_, err := s.Postgres.DB.Exec(`UPDATE users SET is_active = FALSE WHERE email = $1`, "gone@example.com")
	s.Require().NoError(err)

	resp := s.request("GET", "/api/v1/auth/me", nil, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp2 := s.request("GET", "/api/v1/auth/status", nil, cookies)
	defer resp2.Body.Close()

	s.Equal(http.StatusOK, resp2.StatusCode)

	var statusResp dto.StatusResponse
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&statusResp))
	s.False(statusResp.IsAuthenticated)
	s.Nil(statusResp.User)
}

func (s *Suite) TestRefresh_RotatesToken() {
	_, cookies := s.register("Refresh User", "refresh@example.com", "Password123")
	oldRefresh := cookieByName(cookies, "refreshToken")
	s.Require().NotNil(oldRefresh)

	resp := s.request("POST", "/api/v1/auth/refresh", nil, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var refreshResp dto.RefreshResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&refreshResp))
	s.NotEmpty(refreshResp.AccessToken)
	s.Equal("Bearer", refreshResp.TokenType)

	newRefresh := cookieByName(resp.Cookies(), "refreshToken")
	s.Require().NotNil(newRefresh, "Rotation should set a new refresh cookie")
	s.NotEqual(oldRefresh.Value, newRefresh.Value)

	// The rotated-out token is no longer accepted.
	resp2 := s.request("POST", "/api/v1/auth/refresh", nil, []*http.Cookie{oldRefresh})
	defer resp2.Body.Close()

	s.Equal(http.StatusUnauthorized, resp2.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp2.Body).Decode(&errResp)
	s.Equal("TOKEN_INVALID", errResp.Code)
}

func (s *Suite) TestRefresh_NoCookie() {
	resp := s.request("POST", "/api/v1/auth/refresh", nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("NO_TOKEN", errResp.Code)
}

func (s *Suite) TestLogout_InvalidatesRefresh() {
	_, cookies := s.register("Logout User", "logout@example.com", "Password123")
	refresh := cookieByName(cookies, "refreshToken")
	s.Require().NotNil(refresh)

	resp := s.request("POST", "/api/v1/auth/logout", nil, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	json.NewDecoder(resp.Body).Decode(&successResp)
	s.NotEmpty(successResp.Message)

	for _, name := range []string{"accessToken", "refreshToken"} {
		cleared := cookieByName(resp.Cookies(), name)
		s.Require().NotNil(cleared)
		s.Empty(cleared.Value)
	}

	// The stored refresh hash is gone, so the old cookie cannot rotate.
	resp2 := s.request("POST", "/api/v1/auth/refresh", nil, []*http.Cookie{refresh})
	defer resp2.Body.Close()

	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *Suite) TestLogout_WithoutSession() {
	resp := s.request("POST", "/api/v1/auth/logout", nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestChangePassword() {
	_, cookies := s.register("Rotate Pass", "rotate@example.com", "OldPassword123")

	resp := s.request("POST", "/api/v1/auth/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "OldPassword123",
		NewPassword:     "NewPassword456",
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	oldResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "rotate@example.com",
		Password: "OldPassword123",
	})
	defer oldResp.Body.Close()
	s.Equal(http.StatusUnauthorized, oldResp.StatusCode)

	newResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "rotate@example.com",
		Password: "NewPassword456",
	})
	defer newResp.Body.Close()
	s.Equal(http.StatusOK, newResp.StatusCode)
}

func (s *Suite) TestChangePassword_WrongCurrent() {
	_, cookies := s.register("Wrong Current", "wrongcurrent@example.com", "Password123")

	resp := s.request("POST", "/api/v1/auth/change-password", dto.ChangePasswordRequest{
		CurrentPassword: "NotThePassword1",
		NewPassword:     "NewPassword456",
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestUpdateProfile() {
	_, cookies := s.register("Profile User", "profile@example.com", "Password123")

	bio := "Organizer of things"
	location := "Berlin"
	skills := []string{"go", "sql"}
	resp := s.request("PUT", "/api/v1/auth/profile", dto.UpdateProfileRequest{
		Bio:      &bio,
		Location: &location,
		Skills:   &skills,
	}, cookies)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))
	s.Require().NotNil(userResp.Profile)
	s.Equal("Organizer of things", userResp.Profile.Bio)
	s.Equal("Berlin", userResp.Profile.Location)
	s.Equal([]string{"go", "sql"}, userResp.Profile.Skills)
}

func (s *Suite) TestPublicProfile() {
	authResp, _ := s.register("Public User", "public@example.com", "Password123")

	resp := s.request("GET", "/api/v1/auth/profile/"+authResp.User.ID, nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.PublicProfileResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&profile))
	s.Equal(authResp.User.ID, profile.ID)
	s.Equal("Public User", profile.Name)

	raw, err := json.Marshal(profile)
	s.Require().NoError(err)
	s.NotContains(string(raw), "public@example.com")
}

func (s *Suite) TestPublicProfile_NotFound() {
	resp := s.request("GET", "/api/v1/auth/profile/00000000-0000-0000-0000-000000000000", nil, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}
