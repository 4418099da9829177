package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messagely-api/internal/core/ports"
)

// MessageHandler handles HTTP requests for message operations.
// Ownership rules live in the service; the handler only supplies the caller.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// Get handles GET /messages/:id.
//
// @Summary      Get a message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  messageDetailResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id} [get]
func (h *MessageHandler) Get(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	msg, err := h.service.View(c.Request().Context(), c.Param("id"), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageDetailResponse{Message: toMessageDetail(msg)})
}

// Create handles POST /messages.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      sendMessageRequest  true  "Recipient and body"
// @Success      201   {object}  sentMessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Create(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	msg, err := h.service.Send(c.Request().Context(), ports.SendMessageInput{
		FromUsername: username,
		ToUsername:   req.ToUsername,
		Body:         req.Body,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, sentMessageResponse{Message: toSentMessage(msg)})
}

// MarkRead handles POST /messages/:id/read.
//
// @Summary      Mark a message read
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Message id"
// @Success      200  {object}  readReceiptResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages/{id}/read [post]
func (h *MessageHandler) MarkRead(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	receipt, err := h.service.MarkRead(c.Request().Context(), c.Param("id"), username)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, readReceiptResponse{Message: readReceipt{ID: receipt.ID, ReadAt: receipt.ReadAt}})
}
