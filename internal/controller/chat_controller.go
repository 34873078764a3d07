package controller

import (
	"bufio"
	"context"
	"encoding/json"

	"ai-places-be/internal/dto"
	"ai-places-be/internal/pkg/serverutils"
	"ai-places-be/internal/service"
	"ai-places-be/pkg/pipeline"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ChatStream(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ai/v1")
	h.Post("chat", c.Chat)
	h.Post("chat/stream", c.ChatStream)
	h.Post("session", c.CreateSession)
	h.Delete("session/:id", c.ClearSession)
	h.Get("stats", c.Stats)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

// ChatStream serves the answer over SSE. Pipeline progress arrives as
// status events, the ranked places as one places event, the answer as
// incremental answer events, then a final done event with the full
// response body.
func (c *chatController) ChatStream(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	// The fiber ctx is recycled once the handler returns, so the stream
	// writer must not touch it. Copy what it needs up front. The pipeline
	// puts its own deadline on the background context, so a stalled model
	// stream cannot hold the connection open.
	chatService := c.chatService

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		chatService.ChatStream(context.Background(), &req, newSSEEmitter(w))
	}))

	return nil
}

func (c *chatController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.chatService.CreateSession(req.UserId)
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatController) ClearSession(ctx *fiber.Ctx) error {
	c.chatService.ClearSession(ctx.Params("id"))
	return ctx.JSON(serverutils.SuccessResponse("Success clear session", nil))
}

func (c *chatController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get stats", c.chatService.Stats()))
}

// sseEmitter writes pipeline stream events in SSE wire format.
type sseEmitter struct {
	w *bufio.Writer
}

func newSSEEmitter(w *bufio.Writer) *sseEmitter {
	return &sseEmitter{w: w}
}

func (e *sseEmitter) Status(stage string) {
	e.send("status", fiber.Map{"stage": stage})
}

func (e *sseEmitter) Places(places []pipeline.Place) {
	e.send("places", fiber.Map{"places": places})
}

func (e *sseEmitter) Delta(text string) error {
	return e.send("answer", fiber.Map{"delta": text})
}

func (e *sseEmitter) Done(resp *pipeline.Response) {
	e.send("done", resp)
}

func (e *sseEmitter) Error(err *pipeline.Error) {
	e.send("error", fiber.Map{
		"kind":          err.Kind,
		"message":       err.Message,
		"correlationId": err.CorrelationID,
	})
}

func (e *sseEmitter) send(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := e.w.WriteString("event: " + event + "\ndata: " + string(data) + "\n\n"); err != nil {
		return err
	}
	return e.w.Flush()
}
