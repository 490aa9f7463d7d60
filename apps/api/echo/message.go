package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/message"
)

type messageApi struct {
	deps *Deps
}

func registerMessageAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := messageApi{deps: deps}

	mg := g.Group("/messages", jwt)
	mg.POST("", api.send)
	mg.GET("", api.query)
	mg.GET("/conversations", api.conversations)
	mg.GET("/thread/:partnerID", api.thread)
	mg.GET("/unread", api.unread)
	mg.PUT("/:id/read", api.markRead)
}

// Handlers

func (api *messageApi) send(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data message.NewMessage
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMessage")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	msg, err := api.deps.MessageSvc.Send(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, msg)
}

func (api *messageApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	convs, err := api.deps.MessageSvc.Conversations(usr)
	if err != nil {
		return errors.Wrap(err, "querying conversations")
	}
	if convs == nil {
		convs = []message.Conversation{}
	}
	return ctx.JSON(http.StatusOK, convs)
}

func (api *messageApi) conversations(ctx echo.Context) error {
	return api.query(ctx)
}

func (api *messageApi) thread(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	thread, err := api.deps.MessageSvc.GetThread(usr, ctx.Param("partnerID"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, thread)
}

func (api *messageApi) unread(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	count, err := api.deps.MessageSvc.CountUnread(usr)
	if err != nil {
		return errors.Wrap(err, "counting unread")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"unread": count})
}

func (api *messageApi) markRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.deps.MessageSvc.MarkRead(usr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Message marked as read"})
}
