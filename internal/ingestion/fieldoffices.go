package ingestion

type officeLocation struct {
	City  string
	State string
	Lat   float64
	Lon   float64
}

// fieldOfficeLocations maps CBP field office names (as published in the
// "Area of Responsibility" column) to their headquarters coordinates.
var fieldOfficeLocations = map[string]officeLocation{
	"ATLANTA FIELD OFFICE":       {City: "Atlanta", State: "GA", Lat: 33.7490, Lon: -84.3880},
	"BALTIMORE FIELD OFFICE":     {City: "Baltimore", State: "MD", Lat: 39.2904, Lon: -76.6122},
	"BOSTON FIELD OFFICE":        {City: "Boston", State: "MA", Lat: 42.3601, Lon: -71.0589},
	"BUFFALO FIELD OFFICE":       {City: "Buffalo", State: "NY", Lat: 42.8864, Lon: -78.8784},
	"CHICAGO FIELD OFFICE":       {City: "Chicago", State: "IL", Lat: 41.8781, Lon: -87.6298},
	"DETROIT FIELD OFFICE":       {City: "Detroit", State: "MI", Lat: 42.3314, Lon: -83.0458},
	"EL PASO FIELD OFFICE":       {City: "El Paso", State: "TX", Lat: 31.7619, Lon: -106.4850},
	"HOUSTON FIELD OFFICE":       {City: "Houston", State: "TX", Lat: 29.7604, Lon: -95.3698},
	"LAREDO FIELD OFFICE":        {City: "Laredo", State: "TX", Lat: 27.5306, Lon: -99.4803},
	"LOS ANGELES FIELD OFFICE":   {City: "Los Angeles", State: "CA", Lat: 34.0522, Lon: -118.2437},
	"MIAMI FIELD OFFICE":         {City: "Miami", State: "FL", Lat: 25.7617, Lon: -80.1918},
	"NEW ORLEANS FIELD OFFICE":   {City: "New Orleans", State: "LA", Lat: 29.9511, Lon: -90.0715},
	"NEW YORK FIELD OFFICE":      {City: "New York", State: "NY", Lat: 40.7128, Lon: -74.0060},
	"NOGALES FIELD OFFICE":       {City: "Nogales", State: "AZ", Lat: 31.3404, Lon: -110.9342},
	"PHILADELPHIA FIELD OFFICE":  {City: "Philadelphia", State: "PA", Lat: 39.9526, Lon: -75.1652},
	"PHOENIX FIELD OFFICE":       {City: "Phoenix", State: "AZ", Lat: 33.4484, Lon: -112.0740},
	"PORTLAND FIELD OFFICE":      {City: "Portland", State: "OR", Lat: 45.5152, Lon: -122.6784},
	"SAN DIEGO FIELD OFFICE":     {City: "San Diego", State: "CA", Lat: 32.7157, Lon: -117.1611},
	"SAN FRANCISCO FIELD OFFICE": {City: "San Francisco", State: "CA", Lat: 37.7749, Lon: -122.4194},
	"SAN JUAN FIELD OFFICE":      {City: "San Juan", State: "PR", Lat: 18.4655, Lon: -66.1057},
	"SEATTLE FIELD OFFICE":       {City: "Seattle", State: "WA", Lat: 47.6062, Lon: -122.3321},
	"TUCSON FIELD OFFICE":        {City: "Tucson", State: "AZ", Lat: 32.2226, Lon: -110.9747},
	"WASHINGTON FIELD OFFICE":    {City: "Washington", State: "DC", Lat: 38.9072, Lon: -77.0369},
}
