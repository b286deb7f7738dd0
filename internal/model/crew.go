package model

// Crew is a staff member that can be assigned to many journeys.
type Crew struct {
    ID        uint64 // crews.id
    FirstName string // crews.first_name
    LastName  string // crews.last_name
    // Journeys holds the journeys this member is assigned to when the
    // repository loads them; nil otherwise.
    Journeys []Journey
}

// FullName joins first and last name with a single space.
func (c Crew) FullName() string {
    return c.FirstName + " " + c.LastName
}
