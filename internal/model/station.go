package model

// Station is a named stop with a geographic position.  Station names
// are unique across the system.  Stations are reference data and are
// only changed through the admin CRUD endpoints.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique station name (e.g. "Kyiv").
//  Latitude  – latitude in decimal degrees.
//  Longitude – longitude in decimal degrees.
type Station struct {
    ID        uint64  // stations.id
    Name      string  // stations.name
    Latitude  float64 // stations.latitude
    Longitude float64 // stations.longitude
}
