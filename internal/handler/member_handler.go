package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"clubdirectory/internal/errors"
	"clubdirectory/internal/model"
	"clubdirectory/internal/repository"
	"clubdirectory/internal/service"
)

// MemberHandler handles member endpoints.
type MemberHandler struct {
	memberService service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// MemberPayload holds the member fields a client may send. Absent fields are nil.
type MemberPayload struct {
	Name       *string   `json:"name,omitempty" example:"Ann Smith"`
	Age        *int      `json:"age,omitempty" validate:"omitempty,min=0" example:"31"`
	Rating     *int      `json:"rating,omitempty" validate:"omitempty,min=1,max=5" example:"4"`
	Activities *[]string `json:"activities,omitempty"`
}

// MemberRequest is the envelope create and update requests arrive in.
type MemberRequest struct {
	Body *MemberPayload `json:"body" validate:"required"`
}

func (p MemberPayload) patch() model.MemberPatch {
	patch := model.MemberPatch{
		Name:   p.Name,
		Age:    p.Age,
		Rating: p.Rating,
	}
	if p.Activities != nil {
		acts := model.Activities(*p.Activities)
		patch.Activities = &acts
	}
	return patch
}

func invalidRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  "INVALID_REQUEST",
	})
}

func mapError(err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func (h *MemberHandler) validate(c echo.Context, req *MemberRequest) error {
	if req.Body == nil {
		return invalidRequest("request body must be wrapped in a \"body\" object")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}
	return nil
}

// ListMembers godoc
// @Summary List, search and sort members
// @Tags members
// @Produce json
// @Param query query string false "Case-insensitive substring of the name"
// @Param rating query int false "Exact rating"
// @Param activity query string false "Activity the member takes part in"
// @Param sortField query string false "Field to sort by" Enums(id, name, age, rating, activities)
// @Param sortDirection query string false "Sort direction" Enums(asc, desc)
// @Success 200 {array} model.Member
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return mapError(err)
	}

	members, err := h.memberService.ListMembers(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("list members: %v", err)
		return mapError(err)
	}
	return c.JSON(http.StatusOK, members)
}

func filterFromQuery(c echo.Context) (repository.Filter, error) {
	filter := repository.Filter{
		Query:         c.QueryParam("query"),
		Activity:      c.QueryParam("activity"),
		SortField:     c.QueryParam("sortField"),
		SortDirection: c.QueryParam("sortDirection"),
	}
	if raw := c.QueryParam("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("%w: rating must be an integer", errors.ErrInvalidQuery)
		}
		filter.Rating = &rating
	}
	return filter, nil
}

// CreateMember godoc
// @Summary Create a member
// @Tags members
// @Accept json
// @Produce json
// @Param request body MemberRequest true "Member data"
// @Success 200 {object} model.Member
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members [post]
func (h *MemberHandler) CreateMember(c echo.Context) error {
	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest("invalid request body")
	}
	if err := h.validate(c, &req); err != nil {
		return err
	}

	input := service.MemberInput{
		Age:    req.Body.Age,
		Rating: req.Body.Rating,
	}
	if req.Body.Name != nil {
		input.Name = *req.Body.Name
	}
	if req.Body.Activities != nil {
		input.Activities = model.Activities(*req.Body.Activities)
	}

	member, err := h.memberService.CreateMember(c.Request().Context(), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateMember godoc
// @Summary Partially update a member
// @Description Fields present in the body replace the stored values. An unknown id is ignored. The response echoes the request body.
// @Tags members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param request body MemberRequest true "Fields to change"
// @Success 200 {object} MemberRequest
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members/{id} [patch]
func (h *MemberHandler) UpdateMember(c echo.Context) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return invalidRequest("invalid request body")
	}
	var req MemberRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return invalidRequest("invalid request body")
	}
	if err := h.validate(c, &req); err != nil {
		return err
	}
	if req.Body.Name != nil && *req.Body.Name == "" {
		return mapError(errors.ErrNameRequired)
	}

	if _, err := h.memberService.UpdateMember(c.Request().Context(), c.Param("id"), req.Body.patch()); err != nil {
		return mapError(err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// DeleteMember godoc
// @Summary Delete a member
// @Tags members
// @Produce plain
// @Param id path string true "Member ID"
// @Success 200 {string} string "Member removed successfully"
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /members/{id} [delete]
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	if err := h.memberService.DeleteMember(c.Request().Context(), c.Param("id")); err != nil {
		return mapError(err)
	}
	return c.String(http.StatusOK, "Member removed successfully")
}
