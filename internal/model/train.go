package model

// TrainType classifies trains (e.g. "Intercity", "Regional").  Names are
// unique.
type TrainType struct {
    ID   uint64 // train_types.id
    Name string // train_types.name
}

// Train describes the rolling stock used by a journey.  A train has
// CargoNum cars (cargos) and PlacesInCargo seats per car; both are
// positive.  Cars and seats are addressed with 1-based numbers.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name of the train.
//  CargoNum      – number of cars.
//  PlacesInCargo – seats per car.
//  TrainTypeID   – reference to train_types.
//  TrainType     – joined train type name (empty when not loaded).
//  ImageURL      – public URL of the uploaded image (nil if none).
type Train struct {
    ID            uint64  // trains.id
    Name          string  // trains.name
    CargoNum      int     // trains.cargo_num
    PlacesInCargo int     // trains.places_in_cargo
    TrainTypeID   uint64  // trains.train_type_id
    TrainType     string  // train_types.name
    ImageURL      *string // trains.image_url (nullable)
}

// Capacity returns the total number of seats on the train.
func (t Train) Capacity() int {
    return t.CargoNum * t.PlacesInCargo
}
