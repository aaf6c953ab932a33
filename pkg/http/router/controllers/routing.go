package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/vrpdatasetgen/pkg/engine/routing"
	helper "github.com/lintang-b-s/vrpdatasetgen/pkg/http/router/routerhelper"
	"go.uber.org/zap"
)

type routingAPI struct {
	routingService RoutingService
	validate       *validator.Validate
	trans          ut.Translator
	log            *zap.Logger
}

func New(routingService RoutingService, log *zap.Logger) *routingAPI {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, trans)

	return &routingAPI{
		routingService: routingService,
		validate:       validate,
		trans:          trans,
		log:            log,
	}
}

func (api *routingAPI) Routes(group *helper.RouteGroup) {
	group.GET("/route", api.route)
}

func parseQueryFloat(r *http.Request, key string) (float64, error) {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil {
		return 0, fmt.Errorf("%s is required and must be a valid float", key)
	}
	return v, nil
}

func (api *routingAPI) route(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var (
		request routeRequest
		err     error
	)

	params := []struct {
		key string
		dst *float64
	}{
		{"from_lat", &request.FromLat},
		{"from_lon", &request.FromLon},
		{"to_lat", &request.ToLat},
		{"to_lon", &request.ToLon},
	}
	for _, param := range params {
		if *param.dst, err = parseQueryFloat(r, param.key); err != nil {
			api.BadRequestResponse(w, r, err)
			return
		}
	}
	request.Weighting = r.URL.Query().Get("weighting")

	if err := api.validate.Struct(request); err != nil {
		vv := translateError(err, api.trans)
		vvString := []string{}
		for _, v := range vv {
			vvString = append(vvString, v.Error())
		}
		api.BadRequestResponse(w, r, fmt.Errorf("validation error: %v", vvString))
		return
	}

	weighting, err := routing.ParseWeighting(request.Weighting)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	route, points, err := api.routingService.Route(r.Context(), request.FromLat, request.FromLon,
		request.ToLat, request.ToLon, weighting)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewRouteResponse(route.DistanceMeters,
		route.TimeMillis, points)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
