package api

import (
	"github.com/wcsec/go-venue-intel/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// incidentsToGeoJSON builds the map layer for migration incidents.
// Ungeocoded rows carry no point and are left out of the collection.
func incidentsToGeoJSON(incidents []models.Incident) FeatureCollection {
	features := make([]Feature, 0, len(incidents))

	for i := range incidents {
		in := &incidents[i]
		lat, lon, ok := in.Coordinates()
		if !ok {
			continue
		}
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{lon, lat},
			},
			Properties: map[string]any{
				"id":             in.ID,
				"type":           in.Type,
				"date":           in.Date,
				"region":         in.Region,
				"location":       in.LocationDescription,
				"dead":           in.Dead,
				"missing":        in.Missing,
				"survivors":      in.Survivors,
				"cause_of_death": in.CauseOfDeath,
				"source_quality": in.SourceQuality,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// seizuresToGeoJSON builds the map layer for drug seizures. Points come
// from the field-office table, so offices missing from it are left out.
func seizuresToGeoJSON(seizures []models.Seizure) FeatureCollection {
	features := make([]Feature, 0, len(seizures))

	for i := range seizures {
		s := &seizures[i]
		lat, lon, ok := s.Coordinates()
		if !ok {
			continue
		}
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{lon, lat},
			},
			Properties: map[string]any{
				"id":           s.ID,
				"fiscal_year":  s.FiscalYear,
				"month":        s.Month,
				"component":    s.Component,
				"field_office": s.FieldOffice,
				"drug_type":    s.DrugType,
				"event_count":  s.EventCount,
				"quantity_lbs": s.QuantityLbs,
				"city":         s.City,
				"state":        s.State,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
