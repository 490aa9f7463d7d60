package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/requirement"
)

type requirementApi struct {
	deps *Deps
}

func registerRequirementAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := requirementApi{deps: deps}

	rg := g.Group("/requirements", jwt)
	rg.POST("", api.create)
	rg.GET("", api.query)
	rg.GET("/my", api.queryMine)
	rg.DELETE("/:id", api.close)
}

// Handlers

func (api *requirementApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data requirement.NewRequirement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequirement")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	r, err := api.deps.RequirementSvc.Create(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *requirementApi) query(ctx echo.Context) error {
	filter := new(requirement.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	reqs, err := api.deps.RequirementSvc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "querying requirements")
	}
	if reqs == nil {
		reqs = []requirement.Requirement{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *requirementApi) queryMine(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	reqs, err := api.deps.RequirementSvc.QueryMine(usr)
	if err != nil {
		return errors.Wrap(err, "querying requirements")
	}
	if reqs == nil {
		reqs = []requirement.Requirement{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

// close marks a requirement closed; records are never deleted.
func (api *requirementApi) close(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err = api.deps.RequirementSvc.Close(usr, ctx.Param("id")); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Requirement closed"})
}
