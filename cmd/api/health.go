package main

import "net/http"

type healthResponse struct {
	Status  string `json:"status"`
	Env     string `json:"env"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

// healthCheckHandler godoc
//
//	@Summary		Healthcheck
//	@Description	Reports service status, environment, version and the active payment store
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/health [get]
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	data := healthResponse{
		Status:  "ok",
		Env:     app.config.Env,
		Version: version,
		Storage: app.storage,
	}

	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}
