// Package seed holds the fixed dataset the local store starts from and the
// migration routine copies into the document store.
package seed

import (
	"time"

	"github.com/dalemusser/photoshare/internal/domain/models"
)

// Dataset is one snapshot of every collection.
type Dataset struct {
	Users         []models.User
	Posts         []models.Post
	Groups        []models.Group
	Events        []models.Event
	Relationships []models.Relationship
}

// Clone returns a deep copy so callers can mutate it freely.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Users:         make([]models.User, 0, len(d.Users)),
		Posts:         make([]models.Post, 0, len(d.Posts)),
		Groups:        make([]models.Group, 0, len(d.Groups)),
		Events:        make([]models.Event, 0, len(d.Events)),
		Relationships: make([]models.Relationship, 0, len(d.Relationships)),
	}
	for _, u := range d.Users {
		out.Users = append(out.Users, u.Clone())
	}
	for _, p := range d.Posts {
		out.Posts = append(out.Posts, p.Clone())
	}
	for _, g := range d.Groups {
		out.Groups = append(out.Groups, g.Clone())
	}
	for _, e := range d.Events {
		out.Events = append(out.Events, e.Clone())
	}
	for _, r := range d.Relationships {
		out.Relationships = append(out.Relationships, r.Clone())
	}
	return out
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic("seed: bad timestamp " + s)
	}
	return t
}

func tp(s string) *time.Time {
	t := ts(s)
	return &t
}

// Default returns a fresh copy of the built-in dataset.
//
// event002 lists its creator abc123 among the participants so every seeded
// record satisfies Event.Validate.
func Default() Dataset {
	return Dataset{
		Users: []models.User{
			{
				ID:             "testUser",
				Username:       "juanperez",
				Email:          "juan@example.com",
				ProfilePicture: models.StringPtr("https://example.com/juan.jpg"),
				CreatedAt:      ts("2025-04-07T10:00:00Z"),
				Groups:         []string{"group001"},
			},
			{
				ID:             "def456",
				Username:       "anarodriguez",
				Email:          "ana@example.com",
				ProfilePicture: models.StringPtr("https://example.com/ana.jpg"),
				CreatedAt:      ts("2025-04-07T11:00:00Z"),
				Groups:         []string{"group001"},
			},
		},
		Posts: []models.Post{
			{
				ID:             "post001",
				UserID:         "abc123",
				Content:        "¡Este post desaparecerá pronto!",
				CreatedAt:      ts("2025-04-07T12:00:00Z"),
				ExpirationTime: ts("2025-04-08T12:00:00Z"),
				Visibility:     models.VisibilityPublic,
				Likes:          []string{"testUser", "def456", "ghi789"},
			},
		},
		Groups: []models.Group{
			{
				ID:           "group001",
				Name:         "Amigos de Viaje",
				Description:  "Para planear nuestras aventuras",
				CreatorID:    "abc123",
				CreatedAt:    ts("2025-04-07T15:00:00Z"),
				Members:      []string{"abc123", "def456"},
				Visibility:   models.VisibilityPrivate,
				GroupPicture: models.StringPtr("https://example.com/group.jpg"),
			},
		},
		Events: []models.Event{
			{
				ID:           "event001",
				Name:         "Fiesta de Cumpleaños",
				Description:  "¡Trae tu mejor energía!",
				CreatorID:    "testUser",
				CreatedAt:    ts("2025-04-07T15:00:00Z"),
				StartTime:    ts("2025-04-10T20:00:00Z"),
				EndTime:      tp("2025-04-11T02:00:00Z"),
				Location:     "Calle Falsa 123",
				Participants: []string{"testUser", "abc123"},
				Visibility:   models.VisibilityPrivate,
				EventPicture: models.StringPtr("https://example.com/event.jpg"),
				Photos:       []string{},
			},
			{
				ID:           "event002",
				Name:         "Reunión de Amigos",
				Description:  "Cena y juegos de mesa",
				CreatorID:    "abc123",
				CreatedAt:    ts("2025-04-08T10:00:00Z"),
				StartTime:    ts("2025-04-12T18:00:00Z"),
				Location:     "Av. Siempre Viva 742",
				Participants: []string{"abc123", "testUser"},
				Visibility:   models.VisibilityPrivate,
				GroupID:      models.StringPtr("group001"),
				Photos:       []string{},
			},
		},
		Relationships: []models.Relationship{
			{
				ID:           "rel001",
				UserID:       "abc123",
				TargetUserID: "def456",
				Status:       models.RelationshipAccepted,
				CreatedAt:    ts("2025-04-07T14:00:00Z"),
			},
		},
	}
}
