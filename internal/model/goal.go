package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goal is the aggregate root. Comments and information entries are embedded
// in the goal document and are written together with it.
//
// AuthorID is what gets stored; Author is filled in at read time so clients
// receive the full user instead of a bare reference.
type Goal struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	StartingDetails string             `bson:"startingDetails" json:"startingDetails"`
	Picture         string             `bson:"picture,omitempty" json:"picture,omitempty"`
	AuthorID        primitive.ObjectID `bson:"author" json:"-"`
	Author          *User              `bson:"-" json:"author"`
	Comments        []*Comment         `bson:"comments" json:"comments"`
	Information     []*Information     `bson:"information" json:"information"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	AuthorID  primitive.ObjectID `bson:"author" json:"-"`
	Author    *User              `bson:"-" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Information is a progress update posted on a goal.
type Information struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Text      string             `bson:"text" json:"text"`
	Picture   string             `bson:"picture,omitempty" json:"picture,omitempty"`
	AuthorID  primitive.ObjectID `bson:"author" json:"-"`
	Author    *User              `bson:"-" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// GoalUpdate carries the fields a PUT may overwrite. Nil means "leave as is".
type GoalUpdate struct {
	Title           *string
	StartingDetails *string
	Picture         *string
}

func (u GoalUpdate) Empty() bool {
	return u.Title == nil && u.StartingDetails == nil && u.Picture == nil
}

func (g *Goal) Comment(id primitive.ObjectID) *Comment {
	for _, c := range g.Comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (g *Goal) InformationEntry(id primitive.ObjectID) *Information {
	for _, info := range g.Information {
		if info.ID == id {
			return info
		}
	}
	return nil
}

// AuthorIDs lists every user referenced by the goal, its comments and its
// information entries, without duplicates.
func (g *Goal) AuthorIDs() []primitive.ObjectID {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if id.IsZero() || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}

	add(g.AuthorID)
	for _, c := range g.Comments {
		add(c.AuthorID)
	}
	for _, info := range g.Information {
		add(info.AuthorID)
	}
	return ids
}
