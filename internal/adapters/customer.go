package adapters

import (
	"strconv"

	"github.com/eugenek0529/reservation-system/internal/models"
)

const memberSinceLayout = "Jan 2006"

// ProfileIdentity tags a self-registered guest
func ProfileIdentity(p models.UserProfile) models.IdentityRecord {
	return models.IdentityRecord{Source: models.SourceUserProfile, Profile: &p}
}

// WalkInIdentity tags an admin-entered guest
func WalkInIdentity(c models.Customer) models.IdentityRecord {
	return models.IdentityRecord{Source: models.SourceCustomer, WalkIn: &c}
}

// CustomerFromIdentity projects either identity variant into the directory view.
// Visits, last visit and status are placeholders until visit tracking exists.
func CustomerFromIdentity(rec models.IdentityRecord) models.CustomerView {
	view := models.CustomerView{
		Visits:    0,
		LastVisit: "Never",
		Status:    "New",
		Source:    rec.Source,
	}

	switch rec.Source {
	case models.SourceUserProfile:
		if p := rec.Profile; p != nil {
			view.ID = p.ID
			view.Name = p.Name
			view.Email = deref(p.Email, "")
			view.Phone = deref(p.Phone, "")
			view.MemberSince = p.CreatedAt.Format(memberSinceLayout)
		}
	case models.SourceCustomer:
		if c := rec.WalkIn; c != nil {
			view.ID = strconv.FormatInt(c.ID, 10)
			view.Name = c.Name
			view.Email = deref(c.Email, "")
			view.Phone = deref(c.Phone, "")
			view.MemberSince = c.CreatedAt.Format(memberSinceLayout)
		}
	}
	return view
}

// MergeCustomers lists self-registered profiles first, then admin-entered customers,
// each in the order given.
func MergeCustomers(profiles []models.UserProfile, customers []models.Customer) []models.CustomerView {
	views := make([]models.CustomerView, 0, len(profiles)+len(customers))
	for _, p := range profiles {
		views = append(views, CustomerFromIdentity(ProfileIdentity(p)))
	}
	for _, c := range customers {
		views = append(views, CustomerFromIdentity(WalkInIdentity(c)))
	}
	return views
}

// CustomerView is a shortcut for an admin-entered customer
func CustomerView(c models.Customer) models.CustomerView {
	return CustomerFromIdentity(WalkInIdentity(c))
}
