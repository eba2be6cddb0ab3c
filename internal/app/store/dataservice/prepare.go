package dataservice

import "github.com/dalemusser/photoshare/internal/domain/models"

// The Prepare* helpers run the create-time normalization both
// implementations share: fill a missing id, repair membership, validate.

// PrepareUser returns u ready for insertion.
func PrepareUser(u models.User, newID func() string) (models.User, error) {
	u = u.Clone()
	if u.ID == "" {
		u.ID = newID()
	}
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// PreparePost returns p ready for insertion.
func PreparePost(p models.Post, newID func() string) (models.Post, error) {
	p = p.Clone()
	if p.ID == "" {
		p.ID = newID()
	}
	if err := p.Validate(); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// PrepareGroup returns g ready for insertion with its creator as a member.
func PrepareGroup(g models.Group, newID func() string) (models.Group, error) {
	g = g.Clone()
	if g.ID == "" {
		g.ID = newID()
	}
	if g.Visibility == "" {
		g.Visibility = models.VisibilityPublic
	}
	if g.CreatorID != "" {
		g.EnsureCreatorMember()
	}
	if err := g.Validate(); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// PrepareEvent returns e ready for insertion with its creator as a
// participant.
func PrepareEvent(e models.Event, newID func() string) (models.Event, error) {
	e = e.Clone()
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Visibility == "" {
		e.Visibility = models.VisibilityPublic
	}
	if e.CreatorID != "" {
		e.EnsureCreatorParticipant()
	}
	if err := e.Validate(); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// PrepareRelationship returns r ready for insertion.
func PrepareRelationship(r models.Relationship, newID func() string) (models.Relationship, error) {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.Status == "" {
		r.Status = models.RelationshipPending
	}
	if err := r.Validate(); err != nil {
		return models.Relationship{}, err
	}
	return r, nil
}
