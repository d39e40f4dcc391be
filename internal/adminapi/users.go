package adminapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/auth"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerUserRoutes() {
	webserver.PubPOST("/auth/register", register)
	webserver.PubPOST("/auth/login", login)
	webserver.PubPOST("/auth/verify-email", verifyEmail)
	webserver.PubPOST("/auth/forgot-password", forgotPassword)
	webserver.PubPOST("/auth/reset-password", resetPassword)

	webserver.ApiGET("/profile", getProfile)
	webserver.ApiPUT("/profile", updateProfile)
	webserver.ApiPOST("/auth/change-password", changePassword)
	webserver.ApiPOST("/auth/otp", issueOtp)
	webserver.ApiPOST("/auth/otp/verify", verifyOtp)

	webserver.AdminGET("/roles", listRoles)
	webserver.AdminPOST("/roles", createRole)
	webserver.AdminDELETE("/roles/:id", deleteRole)
}

func register(c echo.Context) error {
	var in auth.RegisterInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration parameters", nil)
	}
	user, err := svc.Auth.Register(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, user)
}

func login(c echo.Context) error {
	var payload struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	token, user, err := svc.Auth.Login(c.Request().Context(), payload.Login, payload.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid login or password", nil)
	}
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"token": token, "user": user})
}

func verifyEmail(c echo.Context) error {
	var payload struct {
		Token string `json:"token"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse token", nil)
	}
	if err := svc.Auth.VerifyEmail(c.Request().Context(), payload.Token); err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func forgotPassword(c echo.Context) error {
	var payload struct {
		EmailID string `json:"email_id"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse email", nil)
	}
	if err := svc.Auth.ForgotPassword(c.Request().Context(), payload.EmailID); err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func resetPassword(c echo.Context) error {
	var payload struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse reset parameters", nil)
	}
	if err := svc.Auth.ResetPassword(c.Request().Context(), payload.Token, payload.Password); err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func getProfile(c echo.Context) error {
	user, err := svc.Auth.GetUser(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, user)
}

func updateProfile(c echo.Context) error {
	var in auth.UpdateProfileInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse profile parameters", nil)
	}
	user, err := svc.Auth.UpdateProfile(c.Request().Context(), webserver.CurrentUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, user)
}

func changePassword(c echo.Context) error {
	var payload struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse password parameters", nil)
	}
	err := svc.Auth.ChangePassword(c.Request().Context(), webserver.CurrentUserID(c), payload.OldPassword, payload.NewPassword)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Current password does not match", nil)
	}
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func issueOtp(c echo.Context) error {
	otp, err := svc.Auth.IssueOtp(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return handleError(c, err)
	}
	// The code itself travels by mail, never over this response.
	return ok(c, map[string]interface{}{"expire_time": otp.ExpireTime})
}

func verifyOtp(c echo.Context) error {
	var payload struct {
		Otp string `json:"otp"`
	}
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse otp", nil)
	}
	if err := svc.Auth.VerifyOtp(c.Request().Context(), webserver.CurrentUserID(c), payload.Otp); err != nil {
		return handleError(c, err)
	}
	return ok(c, nil)
}

func listRoles(c echo.Context) error {
	roles, err := svc.Auth.ListRoles(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, roles)
}

func createRole(c echo.Context) error {
	var in auth.CreateRoleInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse role parameters", nil)
	}
	in.CreatedBy = webserver.CurrentUserID(c)
	role, err := svc.Auth.CreateRole(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, role)
}

func deleteRole(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid role ID", nil)
	}
	if err := svc.Auth.DeleteRole(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
