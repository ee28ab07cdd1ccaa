package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseType is an opaque classification of an exercise. REHABILITATION is
// the high-risk type that triggers medical review during publishing.
type ExerciseType string

const (
	TypeStrength       ExerciseType = "STRENGTH"
	TypeCardio         ExerciseType = "CARDIO"
	TypeFlexibility    ExerciseType = "FLEXIBILITY"
	TypeBalance        ExerciseType = "BALANCE"
	TypeRehabilitation ExerciseType = "REHABILITATION"
)

// IsHighRisk reports whether the type requires extra compliance scrutiny.
func (t ExerciseType) IsHighRisk() bool {
	return t == TypeRehabilitation
}

// MuscleGroup identifies a muscle an exercise targets. The taxonomy is open;
// only the injury-prone groups are named here because compliance checks them.
type MuscleGroup string

const (
	MuscleNeck      MuscleGroup = "NECK"
	MuscleLowerBack MuscleGroup = "LOWER_BACK"
	MuscleKnee      MuscleGroup = "KNEE"
)

// IsHighRisk reports whether targeting this muscle demands contraindications.
func (m MuscleGroup) IsHighRisk() bool {
	return m == MuscleNeck || m == MuscleLowerBack || m == MuscleKnee
}

// Exercise is the aggregate root for a piece of user-authored exercise
// content. Instances are immutable snapshots: every mutator returns a new
// value and never touches the receiver, so a snapshot handed to a rule
// pipeline or a concurrent reader stays stable.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID     primitive.ObjectID `bson:"ownerId" json:"ownerId"` // Trainer who authored the content
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Type       ExerciseType `bson:"type" json:"type"`
	Difficulty Difficulty   `bson:"difficulty" json:"difficulty"`

	PrimaryMuscles    []MuscleGroup  `bson:"primaryMuscles" json:"primaryMuscles"`
	SecondaryMuscles  []MuscleGroup  `bson:"secondaryMuscles,omitempty" json:"secondaryMuscles,omitempty"`
	Equipment         []string       `bson:"equipment,omitempty" json:"equipment,omitempty"`
	Instructions      []string       `bson:"instructions" json:"instructions"` // Ordered steps
	Progressions      []string       `bson:"progressions,omitempty" json:"progressions,omitempty"`
	Contraindications []string       `bson:"contraindications,omitempty" json:"contraindications,omitempty"`
	Prerequisites     []Prerequisite `bson:"prerequisites,omitempty" json:"prerequisites,omitempty"`

	// EstimatedDuration is the expected session length in minutes; it feeds
	// the availableTime criterion during recommendation scoring.
	EstimatedDuration int    `bson:"estimatedDuration,omitempty" json:"estimatedDuration,omitempty"`
	VideoURL          string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	// MediaObjectKey locates the uploaded demo media in object storage.
	// Clients only ever see presigned URLs, never the key itself.
	MediaObjectKey string `bson:"mediaObjectKey,omitempty" json:"-"`

	IsDraft     bool                `bson:"isDraft" json:"isDraft"`
	PublishedAt *time.Time          `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewedBy,omitempty" json:"reviewedBy,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Publication invariants on the entity itself. The validation facade applies
// the full rule set; these are the hard floor Publish re-checks.
const (
	MinNameLength        = 3
	MinDescriptionLength = 10
)

// clone returns a deep copy so mutators never alias the receiver's slices.
func (e Exercise) clone() Exercise {
	c := e
	c.PrimaryMuscles = append([]MuscleGroup(nil), e.PrimaryMuscles...)
	c.SecondaryMuscles = append([]MuscleGroup(nil), e.SecondaryMuscles...)
	c.Equipment = append([]string(nil), e.Equipment...)
	c.Instructions = append([]string(nil), e.Instructions...)
	c.Progressions = append([]string(nil), e.Progressions...)
	c.Contraindications = append([]string(nil), e.Contraindications...)
	c.Prerequisites = append([]Prerequisite(nil), e.Prerequisites...)
	if e.PublishedAt != nil {
		t := *e.PublishedAt
		c.PublishedAt = &t
	}
	if e.ReviewedBy != nil {
		id := *e.ReviewedBy
		c.ReviewedBy = &id
	}
	return c
}

// IsPublished reports whether the exercise has left the draft stage.
func (e Exercise) IsPublished() bool {
	return !e.IsDraft && e.PublishedAt != nil
}

// IsReviewed reports whether a published exercise carries a reviewer.
func (e Exercise) IsReviewed() bool {
	return e.IsPublished() && e.ReviewedBy != nil
}

// CheckPublishable verifies the publication invariants: name of at least
// MinNameLength characters, description of at least MinDescriptionLength,
// at least one primary muscle and at least one instruction step.
func (e Exercise) CheckPublishable() error {
	switch {
	case len(e.Name) < MinNameLength:
		return &Error{Field: "name", Value: e.Name, Code: CodeInvalidField,
			Message: "exercise name must be at least 3 characters"}
	case len(e.Description) < MinDescriptionLength:
		return &Error{Field: "description", Value: e.Description, Code: CodeInvalidField,
			Message: "exercise description must be at least 10 characters"}
	case len(e.PrimaryMuscles) == 0:
		return &Error{Field: "primaryMuscles", Code: CodeInvalidField,
			Message: "at least one primary muscle is required"}
	case len(e.Instructions) == 0:
		return &Error{Field: "instructions", Code: CodeInvalidField,
			Message: "at least one instruction step is required"}
	}
	return nil
}

// Publish returns a published copy of a draft. It re-validates the
// publication invariants and stamps PublishedAt. Publication is one-way:
// there is no transition back to draft.
func (e Exercise) Publish(now time.Time) (Exercise, error) {
	if e.IsPublished() {
		return Exercise{}, &Error{Field: "id", Value: e.ID.Hex(), Code: CodeAlreadyPublished,
			Message: "exercise is already published"}
	}
	if err := e.CheckPublishable(); err != nil {
		return Exercise{}, err
	}
	c := e.clone()
	c.IsDraft = false
	t := now.UTC()
	c.PublishedAt = &t
	c.UpdatedAt = t
	return c, nil
}

// Review returns a copy with the reviewer recorded, moving a published
// exercise to the reviewed stage.
func (e Exercise) Review(reviewerID primitive.ObjectID, now time.Time) (Exercise, error) {
	if !e.IsPublished() {
		return Exercise{}, &Error{Field: "id", Value: e.ID.Hex(), Code: CodeNotPublished,
			Message: "only a published exercise can be reviewed"}
	}
	c := e.clone()
	c.ReviewedBy = &reviewerID
	c.UpdatedAt = now.UTC()
	return c, nil
}

// AttachMedia returns a copy recording the storage key of the uploaded
// demo media.
func (e Exercise) AttachMedia(objectKey string, now time.Time) Exercise {
	c := e.clone()
	c.MediaObjectKey = objectKey
	c.UpdatedAt = now.UTC()
	return c
}

// AddInstruction returns a copy with one more instruction step appended.
func (e Exercise) AddInstruction(step string) Exercise {
	c := e.clone()
	c.Instructions = append(c.Instructions, step)
	return c
}

// AddProgression returns a copy with a progression appended.
func (e Exercise) AddProgression(progression string) Exercise {
	c := e.clone()
	c.Progressions = append(c.Progressions, progression)
	return c
}

// AddContraindication returns a copy with a contraindication appended.
func (e Exercise) AddContraindication(note string) Exercise {
	c := e.clone()
	c.Contraindications = append(c.Contraindications, note)
	return c
}

// AddPrerequisite returns a copy with a prerequisite appended.
func (e Exercise) AddPrerequisite(p Prerequisite) Exercise {
	c := e.clone()
	c.Prerequisites = append(c.Prerequisites, p)
	return c
}

// RequiresEquipment reports whether any listed equipment matches name.
func (e Exercise) RequiresEquipment(name string) bool {
	for _, eq := range e.Equipment {
		if eq == name {
			return true
		}
	}
	return false
}

// TargetsMuscle reports whether muscle appears in the primary set.
func (e Exercise) TargetsMuscle(muscle MuscleGroup) bool {
	for _, m := range e.PrimaryMuscles {
		if m == muscle {
			return true
		}
	}
	return false
}
