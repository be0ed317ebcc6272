package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-demo/meet/internal/dto/request"
	"github.com/go-demo/meet/internal/dto/response"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile godoc
// @Summary 獲取用戶資料
// @Description 獲取指定用戶的公開資料
// @Tags 用戶
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用戶 ID"
// @Success 200 {object} response.Response{data=response.ProfileResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID := c.Param("id")

	if !utils.ValidateUUID(userID) {
		response.BadRequest(c, "無效的用戶 ID")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewProfileResponse(profile))
}

// GetByUsername godoc
// @Summary 根據用戶名獲取用戶
// @Description 根據用戶名獲取用戶的公開資料
// @Tags 用戶
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "用戶名稱"
// @Success 200 {object} response.Response{data=response.ProfileResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/username/{username} [get]
func (h *UserHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")

	v := utils.NewValidator()
	v.ValidateUsername("username", username)
	if v.HasErrors() {
		response.ValidationError(c, v.Errors())
		return
	}

	user, err := h.userService.GetByUsername(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewProfileResponse(user.ToProfile()))
}

// Search godoc
// @Summary 搜尋用戶
// @Description 根據用戶名或顯示名稱搜尋用戶
// @Tags 用戶
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜尋關鍵字"
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁數量" default(20)
// @Success 200 {object} response.Response{data=[]response.ProfileResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/users/search [get]
func (h *UserHandler) Search(c *gin.Context) {
	var req request.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "請求格式錯誤")
		return
	}

	query := utils.SanitizeString(req.Query)
	users, err := h.userService.Search(c.Request.Context(), query, req.Limit, req.Offset())
	if err != nil {
		response.Error(c, err)
		return
	}

	profileResponses := make([]*response.ProfileResponse, len(users))
	for i, u := range users {
		profileResponses[i] = response.NewProfileResponse(u.ToProfile())
	}

	response.Success(c, profileResponses)
}
