package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-demo/meet/internal/dto/request"
	"github.com/go-demo/meet/internal/dto/response"
	"github.com/go-demo/meet/internal/middleware"
	"github.com/go-demo/meet/internal/pkg/utils"
	"github.com/go-demo/meet/internal/service"
)

type RoomHandler struct {
	roomService *service.RoomService
	userService *service.UserService
}

func NewRoomHandler(roomService *service.RoomService, userService *service.UserService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		userService: userService,
	}
}

// Create godoc
// @Summary 創建房間
// @Description 創建新的活動房間，創建者不屬於成員列表
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateRoomRequest true "房間資料"
// @Success 201 {object} response.Response{data=response.RoomDetailResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/rooms [post]
func (h *RoomHandler) Create(c *gin.Context) {
	var req request.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "請求格式錯誤")
		return
	}

	userID := middleware.GetUserID(c)

	// Validate room name and description
	v := utils.NewValidator()
	v.ValidateRoomName("name", req.Name)
	v.ValidateRoomDescription("description", req.Description)
	if v.HasErrors() {
		response.ValidationError(c, v.Errors())
		return
	}

	room, err := h.roomService.Create(c.Request.Context(), &service.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Interests:   req.Interests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.roomService.GetDetail(c.Request.Context(), room.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, response.NewRoomDetailResponse(detail))
}

// GetByID godoc
// @Summary 獲取房間詳情
// @Description 獲取指定房間的詳細資訊，包含創建者與成員列表
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Success 200 {object} response.Response{data=response.RoomDetailResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{id} [get]
func (h *RoomHandler) GetByID(c *gin.Context) {
	roomID := c.Param("id")

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	detail, err := h.roomService.GetDetail(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewRoomDetailResponse(detail))
}

// Update godoc
// @Summary 更新房間
// @Description 更新房間資訊（僅創建者可操作），開始時間僅在提供結束時間時生效
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Param request body request.UpdateRoomRequest true "更新資料"
// @Success 200 {object} response.Response{data=response.RoomDetailResponse}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{id} [put]
func (h *RoomHandler) Update(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.GetUserID(c)

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	var req request.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "請求格式錯誤")
		return
	}

	_, err := h.roomService.Update(c.Request.Context(), &service.UpdateRoomInput{
		RoomID:      roomID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Interests:   req.Interests,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	detail, err := h.roomService.GetDetail(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, response.NewRoomDetailResponse(detail))
}

// Delete godoc
// @Summary 刪除房間
// @Description 刪除房間（僅創建者可操作）
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Success 204
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{id} [delete]
func (h *RoomHandler) Delete(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.GetUserID(c)

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	if err := h.roomService.Delete(c.Request.Context(), roomID, userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Join godoc
// @Summary 加入房間
// @Description 加入房間成為成員，創建者無法加入自己的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Success 200 {object} response.Response{data=response.MembershipResponse}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/rooms/{id}/join [post]
func (h *RoomHandler) Join(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.GetUserID(c)

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	user, err := h.roomService.Join(c.Request.Context(), roomID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	joined, err := h.userService.JoinedRoomIDs(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "已加入房間", &response.MembershipResponse{
		User:        response.NewUserResponse(user, false),
		JoinedRooms: joined,
	})
}

// Leave godoc
// @Summary 離開房間
// @Description 離開已加入的房間，創建者無法離開自己的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Success 200 {object} response.Response{data=response.MembershipResponse}
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/rooms/{id}/leave [post]
func (h *RoomHandler) Leave(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.GetUserID(c)

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	user, err := h.roomService.Leave(c.Request.Context(), roomID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	joined, err := h.userService.JoinedRoomIDs(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "已離開房間", &response.MembershipResponse{
		User:        response.NewUserResponse(user, false),
		JoinedRooms: joined,
	})
}

// RemoveMember godoc
// @Summary 移除成員
// @Description 將指定用戶移出房間（僅創建者可操作，無法移除創建者）
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Param username path string true "用戶名稱"
// @Success 200 {object} response.Response{data=response.RoomDetailResponse}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/rooms/{id}/members/{username} [delete]
func (h *RoomHandler) RemoveMember(c *gin.Context) {
	roomID := c.Param("id")
	targetUsername := c.Param("username")
	userID := middleware.GetUserID(c)

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	v := utils.NewValidator()
	v.ValidateUsername("username", targetUsername)
	if v.HasErrors() {
		response.ValidationError(c, v.Errors())
		return
	}

	detail, err := h.roomService.RemoveMember(c.Request.Context(), roomID, userID, targetUsername)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithMessage(c, "成員已被移除", response.NewRoomDetailResponse(detail))
}

// ListActive godoc
// @Summary 獲取進行中的房間列表
// @Description 獲取所有尚未過期的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁數量" default(20)
// @Success 200 {object} response.Response{data=[]response.RoomResponse}
// @Router /api/v1/rooms [get]
func (h *RoomHandler) ListActive(c *gin.Context) {
	var req request.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req = request.PaginationRequest{Page: 1, Limit: 20}
	}

	rooms, err := h.roomService.ListActive(c.Request.Context(), req.Limit, req.Offset())
	if err != nil {
		response.Error(c, err)
		return
	}

	roomResponses := make([]*response.RoomResponse, len(rooms))
	for i, r := range rooms {
		roomResponses[i] = response.NewRoomResponse(r)
	}

	response.Success(c, roomResponses)
}

// ListMyRooms godoc
// @Summary 獲取我的房間
// @Description 獲取當前用戶加入的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁數量" default(20)
// @Success 200 {object} response.Response{data=[]response.RoomResponse}
// @Router /api/v1/rooms/me [get]
func (h *RoomHandler) ListMyRooms(c *gin.Context) {
	var req request.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req = request.PaginationRequest{Page: 1, Limit: 20}
	}

	userID := middleware.GetUserID(c)

	rooms, err := h.roomService.ListJoined(c.Request.Context(), userID, req.Limit, req.Offset())
	if err != nil {
		response.Error(c, err)
		return
	}

	roomResponses := make([]*response.RoomResponse, len(rooms))
	for i, r := range rooms {
		roomResponses[i] = response.NewRoomResponse(r)
	}

	response.Success(c, roomResponses)
}

// ListCreated godoc
// @Summary 獲取我創建的房間
// @Description 獲取當前用戶創建的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁數量" default(20)
// @Success 200 {object} response.Response{data=[]response.RoomResponse}
// @Router /api/v1/rooms/created [get]
func (h *RoomHandler) ListCreated(c *gin.Context) {
	var req request.PaginationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		req = request.PaginationRequest{Page: 1, Limit: 20}
	}

	userID := middleware.GetUserID(c)

	rooms, err := h.roomService.ListCreated(c.Request.Context(), userID, req.Limit, req.Offset())
	if err != nil {
		response.Error(c, err)
		return
	}

	roomResponses := make([]*response.RoomResponse, len(rooms))
	for i, r := range rooms {
		roomResponses[i] = response.NewRoomResponse(r)
	}

	response.Success(c, roomResponses)
}

// Search godoc
// @Summary 搜尋房間
// @Description 根據名稱搜尋尚未過期的房間
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param q query string true "搜尋關鍵字"
// @Param page query int false "頁碼" default(1)
// @Param limit query int false "每頁數量" default(20)
// @Success 200 {object} response.Response{data=[]response.RoomResponse}
// @Failure 400 {object} response.Response
// @Router /api/v1/rooms/search [get]
func (h *RoomHandler) Search(c *gin.Context) {
	var req request.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "請求格式錯誤")
		return
	}

	query := utils.SanitizeString(req.Query)
	rooms, err := h.roomService.Search(c.Request.Context(), query, req.Limit, req.Offset())
	if err != nil {
		response.Error(c, err)
		return
	}

	roomResponses := make([]*response.RoomResponse, len(rooms))
	for i, r := range rooms {
		roomResponses[i] = response.NewRoomResponse(r)
	}

	response.Success(c, roomResponses)
}

// ListMembers godoc
// @Summary 獲取成員列表
// @Description 獲取房間成員列表（不含創建者）
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "房間 ID"
// @Success 200 {object} response.Response{data=[]response.RoomMemberResponse}
// @Failure 404 {object} response.Response
// @Router /api/v1/rooms/{id}/members [get]
func (h *RoomHandler) ListMembers(c *gin.Context) {
	roomID := c.Param("id")

	if !utils.ValidateUUID(roomID) {
		response.BadRequest(c, "無效的房間 ID")
		return
	}

	members, err := h.roomService.ListMembers(c.Request.Context(), roomID)
	if err != nil {
		response.Error(c, err)
		return
	}

	memberResponses := make([]*response.RoomMemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = response.NewRoomMemberResponse(m)
	}

	response.Success(c, memberResponses)
}

// ListInterests godoc
// @Summary 獲取興趣標籤列表
// @Description 獲取房間可用的興趣標籤分類
// @Tags 房間
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]string}
// @Router /api/v1/rooms/interests [get]
func (h *RoomHandler) ListInterests(c *gin.Context) {
	response.Success(c, utils.RoomInterestCategories())
}
