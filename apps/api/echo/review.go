package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/review"
)

type reviewApi struct {
	deps *Deps
}

func registerReviewAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := reviewApi{deps: deps}

	g.POST("/reviews", api.submit, jwt)
	g.GET("/reviews/:tutorID", api.queryByTutor)
}

// Handlers

func (api *reviewApi) submit(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data review.NewReview
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	rev, err := api.deps.ReviewSvc.Submit(usr, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, rev)
}

func (api *reviewApi) queryByTutor(ctx echo.Context) error {
	revs, err := api.deps.ReviewSvc.QueryByTutor(ctx.Param("tutorID"))
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	if revs == nil {
		revs = []review.Review{}
	}
	return ctx.JSON(http.StatusOK, revs)
}
