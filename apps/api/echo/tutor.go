package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tricitytutors/backend/core/tutor"
)

type tutorApi struct {
	deps *Deps
}

func registerTutorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := tutorApi{deps: deps}

	// public directory
	g.GET("/tutors", api.search)
	g.GET("/tutors/:id", api.retrieve)

	// own profile
	tg := g.Group("/tutor", jwt)
	tg.GET("/profile", api.getProfile)
	tg.PUT("/profile", api.updateProfile)
	tg.POST("/profile/photo", api.setPhoto)
	tg.GET("/stats", api.stats)
}

// Handlers

func (api *tutorApi) search(ctx echo.Context) error {
	filter := new(tutor.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	profiles, err := api.deps.TutorSvc.Search(*filter)
	if err != nil {
		return errors.Wrap(err, "searching tutors")
	}
	if profiles == nil {
		profiles = []tutor.Profile{}
	}
	return ctx.JSON(http.StatusOK, profiles)
}

func (api *tutorApi) retrieve(ctx echo.Context) error {
	p, err := api.deps.TutorSvc.Retrieve(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *tutorApi) getProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	p, err := api.deps.TutorSvc.Get(usr.ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *tutorApi) updateProfile(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data tutor.UpdateProfile
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}

	if _, err = api.deps.TutorSvc.Update(usr.ID, data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Profile updated successfully"})
}

func (api *tutorApi) setPhoto(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var data PhotoRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to PhotoRequest")
	}
	if err = data.Validate(api.deps.Validate); err != nil {
		return err
	}

	if err = api.deps.TutorSvc.SetPhoto(usr.ID, data.PhotoURL); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Profile photo updated"})
}

func (api *tutorApi) stats(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	p, err := api.deps.TutorSvc.Get(usr.ID)
	if err != nil {
		return err
	}
	revs, err := api.deps.ReviewSvc.QueryByTutor(usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	applications, err := api.deps.MessageSvc.CountReceived(usr.ID)
	if err != nil {
		return errors.Wrap(err, "counting applications")
	}

	return ctx.JSON(http.StatusOK, tutor.Stats{
		ProfileViews: p.ProfileViews,
		Applications: applications,
		Rating:       p.AverageRating,
		ReviewsCount: len(revs),
		Coins:        usr.Coins,
	})
}

// Bindings

type PhotoRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

func (r *PhotoRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(r)
}
