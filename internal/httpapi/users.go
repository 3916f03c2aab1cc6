package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"itembuildup/internal/apperr"
	"itembuildup/internal/audit"
	"itembuildup/internal/auth"
	"itembuildup/internal/users"

	"github.com/gin-gonic/gin"
)

func (h Handlers) GetUsers(c *gin.Context) {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []users.User{}
	}
	c.JSON(http.StatusOK, list)
}

// UpdateUser is the admin edit form. Editing yourself also returns a fresh
// access token so the caller's claims follow the stored record.
func (h Handlers) UpdateUser(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	req, closeImage, err := parseUpdateForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	if req.EmployeeID == "" {
		respondError(c, apperr.BadRequest("Employee ID is required."))
		return
	}
	if !h.canModify(c, me, req.EmployeeID) {
		return
	}

	if raw := strings.TrimSpace(c.PostForm("account_type")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, apperr.BadRequest("Invalid account type."))
			return
		}
		at := users.AccountType(n)
		if at.Valid() && at < me.AccountType {
			respondError(c, apperr.Forbidden("Cannot grant a higher account type than your own."))
			return
		}
		req.AccountType = &at
	}
	req.EditedBy = me.EmployeeID

	h.applyUpdate(c, me, req, audit.EventUserUpdated, req.EmployeeID == me.EmployeeID)
}

// UpdateProfile lets any authenticated user edit their own record.
func (h Handlers) UpdateProfile(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}

	req, closeImage, err := parseUpdateForm(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer closeImage()

	if req.EmployeeID == "" {
		req.EmployeeID = me.EmployeeID
	}
	if req.EmployeeID != me.EmployeeID {
		respondError(c, apperr.Forbidden("You can only update your own profile."))
		return
	}
	req.EditedBy = me.EmployeeID

	h.applyUpdate(c, me, req, audit.EventProfileUpdated, true)
}

func (h Handlers) applyUpdate(c *gin.Context, me auth.UserClaims, req users.UpdateRequest, event audit.EventType, reissue bool) {
	u, err := h.Users.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{"message": "User updated successfully."}
	if req.Image != nil {
		resp["image"] = u.ProfileImage
	}
	if reissue {
		tok, err := h.Auth.ReissueAccessToken(u)
		if err != nil {
			respondError(c, err)
			return
		}
		resp["accessToken"] = tok
	}

	h.record(c, audit.Event{Type: event, EmployeeID: u.EmployeeID, ActorID: me.EmployeeID})
	c.JSON(http.StatusOK, resp)
}

func (h Handlers) DeleteUser(c *gin.Context) {
	me, ok := caller(c)
	if !ok {
		return
	}
	id := strings.TrimSpace(c.Param("employee_id"))
	if id == "" {
		respondError(c, apperr.BadRequest("Employee ID is required."))
		return
	}
	if !h.canModify(c, me, id) {
		return
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	h.record(c, audit.Event{Type: audit.EventUserDeleted, EmployeeID: id, ActorID: me.EmployeeID})
	c.Status(http.StatusNoContent)
}

// canModify loads the target of an admin edit or delete and rejects it when the
// target is more privileged than the caller.
func (h Handlers) canModify(c *gin.Context, me auth.UserClaims, employeeID string) bool {
	target, err := h.Users.Get(c.Request.Context(), employeeID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if target.AccountType < me.AccountType {
		respondError(c, apperr.Forbidden("Cannot modify a user with a higher account type than your own."))
		return false
	}
	return true
}

// parseUpdateForm reads the multipart (or urlencoded) edit form. The returned
// close func is always safe to call.
func parseUpdateForm(c *gin.Context) (users.UpdateRequest, func(), error) {
	noop := func() {}
	req := users.UpdateRequest{
		EmployeeID: strings.TrimSpace(c.PostForm("employee_id")),
		FirstName:  c.PostForm("first_name"),
		LastName:   c.PostForm("last_name"),
		JobTitle:   c.PostForm("job_title"),
		Department: c.PostForm("department"),
		Email:      c.PostForm("email"),
		Password:   c.PostForm("password"),
	}

	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, noop, nil
		}
		return req, noop, apperr.BadRequest("Invalid image upload.")
	}
	f, err := fh.Open()
	if err != nil {
		return req, noop, fmt.Errorf("open upload: %w", err)
	}
	req.Image = &users.Upload{Name: fh.Filename, Body: f}
	return req, func() { _ = f.Close() }, nil
}
