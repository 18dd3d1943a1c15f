package restserver

import (
	htmltemplate "html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/chrissnell/climatequery/internal/database"
	"github.com/chrissnell/climatequery/internal/log"
	"github.com/chrissnell/climatequery/pkg/responseformat"
)

var welcomeTemplate = htmltemplate.Must(htmltemplate.New("welcome").Parse(
	`<b>Welcome to Honolulu, Hawaii Climate API</b><br/></br>` +
		`Available Routes:<br/>` +
		`{{range .}}{{.}}<br/>{{end}}</br>` +
		`You can change the dates to your liking while keeping them in the yyyy-mm-dd format`))

var welcomeRoutes = []string{
	"/api/v1.0/precipitation",
	"/api/v1.0/stations",
	"/api/v1.0/tobs",
	"/api/v1.0/start/2016-08-23",
	"/api/v1.0/start/2016-08-23/end/2017-05-31",
}

// Handlers contains all HTTP handlers for the REST server
type Handlers struct {
	controller *Controller
	formatter  *responseformat.Formatter
}

// NewHandlers creates a new handlers instance
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{
		controller: ctrl,
		formatter:  responseformat.NewFormatter(),
	}
}

// ServeWelcome lists the available routes
func (h *Handlers) ServeWelcome(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := welcomeTemplate.Execute(w, welcomeRoutes); err != nil {
		log.Error("error executing welcome template:", err)
	}
}

// GetPrecipitation returns every precipitation reading after 2016-08-22
func (h *Handlers) GetPrecipitation(w http.ResponseWriter, req *http.Request) {
	readings, err := h.controller.Store.Precipitation(req.Context())
	if err != nil {
		log.Errorf("error fetching precipitation: %v", err)
		http.Error(w, "error fetching precipitation data", http.StatusInternalServerError)
		return
	}

	h.writeResponse(w, req, readings)
}

// GetStations returns the distinct station identifiers
func (h *Handlers) GetStations(w http.ResponseWriter, req *http.Request) {
	ids, err := h.controller.Store.StationIDs(req.Context())
	if err != nil {
		log.Errorf("error fetching stations: %v", err)
		http.Error(w, "error fetching station data", http.StatusInternalServerError)
		return
	}

	h.writeResponse(w, req, ids)
}

// GetTemperatureObservations returns the temperature observations of the
// most active station
func (h *Handlers) GetTemperatureObservations(w http.ResponseWriter, req *http.Request) {
	observations, err := h.controller.Store.TemperatureObservations(req.Context())
	if err != nil {
		log.Errorf("error fetching temperature observations: %v", err)
		http.Error(w, "error fetching temperature observations", http.StatusInternalServerError)
		return
	}

	h.writeResponse(w, req, observations)
}

// GetTemperatureSummary returns [min, max, avg] of tobs from {start} through
// the optional {end}. Outside strict mode a bound that is not NNNN-NN-NN
// shaped (not only comma forms) answers [null, null, null].
func (h *Handlers) GetTemperatureSummary(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	r := database.DateRange{Start: vars["start"], End: vars["end"]}

	if h.controller.queryConfig.StrictDates {
		for _, bound := range []string{r.Start, r.End} {
			if bound == "" {
				continue
			}
			if _, err := time.Parse(time.DateOnly, bound); err != nil {
				log.Debugf("invalid request: unable to parse date: %v", bound)
				http.Error(w, "error: dates must be in yyyy-mm-dd format", http.StatusBadRequest)
				return
			}
		}
	}

	summary, err := h.controller.Store.TemperatureSummary(req.Context(), r)
	if err != nil {
		log.Errorf("error fetching temperature summary: %v", err)
		http.Error(w, "error fetching temperature summary", http.StatusInternalServerError)
		return
	}

	h.writeResponse(w, req, summary.Values())
}

func (h *Handlers) writeResponse(w http.ResponseWriter, req *http.Request, data any) {
	if err := h.formatter.WriteResponse(w, req, data, nil); err != nil {
		log.Error("error encoding response:", err)
	}
}
