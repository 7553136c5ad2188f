package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wcsec/go-venue-intel/internal/analysis"
	"github.com/wcsec/go-venue-intel/internal/models"
	"github.com/wcsec/go-venue-intel/internal/repository"
)

const (
	defaultLimit = 500
	maxLimit     = 5000
)

type Handler struct {
	store    repository.Store
	analyzer *analysis.Analyzer
}

func NewHandler(store repository.Store, analyzer *analysis.Analyzer) *Handler {
	return &Handler{
		store:    store,
		analyzer: analyzer,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", h.health)
	r.GET("/api/venues", h.getVenues)
	r.GET("/api/venues/:id/nearby", h.getVenueNearby)
	r.GET("/api/incidents", h.getIncidents)
	r.GET("/api/seizures", h.getSeizures)
	r.GET("/api/crime", h.getCrime)
	r.GET("/api/statistics", h.getStatistics)
	r.GET("/api/heatmap", h.getHeatMap)
	r.GET("/api/hotspots", h.getHotspots)
	r.GET("/api/risk-assessment", h.getRiskAssessment)
	r.GET("/api/trends", h.getTrends)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getVenues(c *gin.Context) {
	venues, err := h.store.ListVenues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch venues",
		})
		return
	}

	out := make([]gin.H, 0, len(venues))
	for i := range venues {
		out = append(out, venueJSON(&venues[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "venues": out})
}

func (h *Handler) getVenueNearby(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid venue id"})
		return
	}
	radius := queryFloat(c, "radius", analysis.DefaultRadiusKM)

	venue, matches, err := h.analyzer.NearbyIncidents(c.Request.Context(), id, radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch nearby incidents",
		})
		return
	}
	if venue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		return
	}

	incidents := make([]gin.H, 0, len(matches))
	for _, m := range matches {
		j := incidentJSON(&m.Incident)
		j["distance_km"] = m.DistanceKM
		incidents = append(incidents, j)
	}
	c.JSON(http.StatusOK, gin.H{
		"venue":     venueJSON(venue),
		"radius_km": radius,
		"count":     len(incidents),
		"incidents": incidents,
	})
}

func (h *Handler) getIncidents(c *gin.Context) {
	filter := repository.IncidentFilter{
		Limit: queryLimit(c),
	}
	if r := c.Query("region"); r != "" {
		filter.Region = &r
	}
	if s := c.Query("since"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.Since = &t
		}
	}
	if u := c.Query("until"); u != "" {
		if t, err := time.Parse("2006-01-02", u); err == nil {
			filter.Until = &t
		}
	}

	incidents, err := h.store.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch incidents",
		})
		return
	}

	fc := incidentsToGeoJSON(incidents)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getSeizures(c *gin.Context) {
	filter := repository.SeizureFilter{
		Limit: queryLimit(c),
	}
	if d := c.Query("drug_type"); d != "" {
		filter.DrugType = &d
	}
	if y := c.Query("year"); y != "" {
		if fy, err := strconv.Atoi(y); err == nil {
			filter.FiscalYear = &fy
		}
	}
	if o := c.Query("office"); o != "" {
		filter.FieldOffice = &o
	}

	seizures, err := h.store.ListSeizures(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch seizures",
		})
		return
	}

	fc := seizuresToGeoJSON(seizures)
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

func (h *Handler) getCrime(c *gin.Context) {
	filter := repository.CrimeFilter{
		Limit: queryLimit(c),
	}
	if y := c.Query("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil {
			filter.Year = &year
		}
	}
	if s := c.Query("state"); s != "" {
		filter.State = &s
	}
	if m := c.Query("min_risk"); m != "" {
		if risk, err := strconv.ParseFloat(m, 64); err == nil {
			filter.MinRisk = &risk
		}
	}

	records, err := h.store.ListCrimeRecords(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch crime records",
		})
		return
	}

	out := make([]gin.H, 0, len(records))
	for i := range records {
		out = append(out, crimeJSON(&records[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "records": out})
}

func (h *Handler) getStatistics(c *gin.Context) {
	summary, err := h.analyzer.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to compute statistics",
		})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) getHeatMap(c *gin.Context) {
	gridSize := queryFloat(c, "grid_size", 1.0)

	cells, err := h.analyzer.HeatMap(c.Request.Context(), gridSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to compute heat map",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"grid_size": gridSize,
		"count":     len(cells),
		"cells":     cells,
	})
}

func (h *Handler) getHotspots(c *gin.Context) {
	minIncidents := queryInt(c, "min_incidents", analysis.DefaultMinIncidents)

	cells, err := h.analyzer.Hotspots(c.Request.Context(), minIncidents)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to compute hotspots",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"min_incidents": minIncidents,
		"count":         len(cells),
		"hotspots":      cells,
	})
}

func (h *Handler) getRiskAssessment(c *gin.Context) {
	radius := queryFloat(c, "radius", analysis.DefaultRadiusKM)

	risks, err := h.analyzer.RiskAssessment(c.Request.Context(), radius)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to compute risk assessment",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"radius_km":   radius,
		"count":       len(risks),
		"assessments": risks,
	})
}

func (h *Handler) getTrends(c *gin.Context) {
	var start, end time.Time
	if s := c.Query("start"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = t
		}
	}
	if e := c.Query("end"); e != "" {
		if t, err := time.Parse("2006-01-02", e); err == nil {
			end = t
		}
	}

	points, err := h.analyzer.Trends(c.Request.Context(), start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to compute trends",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(points), "trends": points})
}

func venueJSON(v *models.Venue) gin.H {
	return gin.H{
		"id":             v.ID,
		"name":           v.Name,
		"city":           v.City,
		"state_province": v.StateProvince,
		"country":        v.Country,
		"latitude":       v.Latitude,
		"longitude":      v.Longitude,
		"capacity":       v.Capacity,
		"host_matches":   v.HostMatches,
	}
}

func incidentJSON(in *models.Incident) gin.H {
	return gin.H{
		"id":             in.ID,
		"type":           in.Type,
		"date":           in.Date,
		"latitude":       in.Latitude,
		"longitude":      in.Longitude,
		"location":       in.LocationDescription,
		"region":         in.Region,
		"dead":           in.Dead,
		"missing":        in.Missing,
		"survivors":      in.Survivors,
		"cause_of_death": in.CauseOfDeath,
		"source_quality": in.SourceQuality,
	}
}

func crimeJSON(r *models.CrimeRecord) gin.H {
	return gin.H{
		"id":                 r.ID,
		"agency_name":        r.AgencyName,
		"city":               r.City,
		"state":              r.State,
		"year":               r.Year,
		"latitude":           r.Latitude,
		"longitude":          r.Longitude,
		"total_offenses":     r.TotalOffenses,
		"homicides":          r.Homicides,
		"aggravated_assault": r.AggravatedAssault,
		"rape":               r.Rape,
		"robbery":            r.Robbery,
		"kidnapping":         r.Kidnapping,
		"human_trafficking":  r.HumanTrafficking,
		"drug_narcotic":      r.DrugNarcotic,
		"burglary":           r.Burglary,
		"risk_score":         r.RiskScore,
	}
}

// Query coercion keeps the original behavior: malformed values silently
// fall back to the default instead of erroring.
func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	if v := c.Query(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v := c.Query(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func queryLimit(c *gin.Context) int {
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= maxLimit {
			return lim
		}
	}
	return defaultLimit
}
