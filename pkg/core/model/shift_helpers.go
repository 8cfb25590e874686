package model

// HasVolunteer reports whether userID is in the shift-wide signup set
func (s *VolunteerShift) HasVolunteer(userID string) bool {
	for _, id := range s.VolunteersSignedUp {
		if id == userID {
			return true
		}
	}
	return false
}

// RoleIndexOf returns the index of the role userID is assigned to, or -1
func (s *VolunteerShift) RoleIndexOf(userID string) int {
	for i, role := range s.Roles {
		for _, id := range role.VolunteersAssigned {
			if id == userID {
				return i
			}
		}
	}
	return -1
}

// AddVolunteer adds userID to the shift-wide signup set. Callers must have
// checked for duplicates first.
func (s *VolunteerShift) AddVolunteer(userID string) {
	s.VolunteersSignedUp = append(s.VolunteersSignedUp, userID)
}

// RemoveVolunteer removes userID from the shift-wide signup set and from any
// role assignment. It reports whether the member was signed up at all.
func (s *VolunteerShift) RemoveVolunteer(userID string) bool {
	found := false
	kept := s.VolunteersSignedUp[:0]
	for _, id := range s.VolunteersSignedUp {
		if id == userID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	s.VolunteersSignedUp = kept

	for i := range s.Roles {
		assigned := s.Roles[i].VolunteersAssigned[:0]
		for _, id := range s.Roles[i].VolunteersAssigned {
			if id == userID {
				continue
			}
			assigned = append(assigned, id)
		}
		s.Roles[i].VolunteersAssigned = assigned
	}

	return found
}

// RemainingCapacity returns how many more volunteers the shift needs
func (s *VolunteerShift) RemainingCapacity() int {
	remaining := s.VolunteersNeeded - len(s.VolunteersSignedUp)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// HasDeclined reports whether userID already declined this open request
func (r *ShiftSwapRequest) HasDeclined(userID string) bool {
	for _, id := range r.DeclinedByUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
