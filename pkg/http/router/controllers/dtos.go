package controllers

type routeRequest struct {
	FromLat   float64 `json:"from_lat" validate:"min=-90,max=90"`
	FromLon   float64 `json:"from_lon" validate:"min=-180,max=180"`
	ToLat     float64 `json:"to_lat" validate:"min=-90,max=90"`
	ToLon     float64 `json:"to_lon" validate:"min=-180,max=180"`
	Weighting string  `json:"weighting" validate:"omitempty,oneof=shortest fastest"`
}

type routeResponse struct {
	// meters
	Distance float64 `json:"distance"`
	// milliseconds
	Time   int64  `json:"time"`
	Points string `json:"points"`
}

func NewRouteResponse(distance float64, timeMillis int64, points string) routeResponse {
	return routeResponse{
		Distance: distance,
		Time:     timeMillis,
		Points:   points,
	}
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
