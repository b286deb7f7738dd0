package model

// Route connects a source station to a destination station over a
// positive distance in kilometres.  Source and Destination are
// populated by repository queries that join the stations table and
// may be nil when only the foreign keys were loaded.
type Route struct {
    ID            uint64   // routes.id
    SourceID      uint64   // routes.source_id
    DestinationID uint64   // routes.destination_id
    Distance      int      // routes.distance
    Source        *Station // joined source station (optional)
    Destination   *Station // joined destination station (optional)
}

// Label renders the route as "Source - Destination".  When the stations
// were not joined it returns an empty string.
func (r Route) Label() string {
    if r.Source == nil || r.Destination == nil {
        return ""
    }
    return r.Source.Name + " - " + r.Destination.Name
}
