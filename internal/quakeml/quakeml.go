// Package quakeml holds the in-memory seismic event object model used on
// the catalog side of the solver marshalling layer: events aggregating
// origins, picks, magnitudes and focal mechanisms, following the QuakeML
// naming for entities and fields.
//
// The model is plain data. Callers own the Event they pass around; nothing
// in this package retains state between calls. Optional numeric fields are
// pointers so that "absent" is distinguishable from zero.
package quakeml

import (
	"time"

	"github.com/google/uuid"
)

// ResourceID identifies an object within an event. IDs are opaque strings;
// deterministic IDs are built by the marshalling layer from version numbers,
// while NewResourceID mints a random one for objects created without an
// explicit identity.
type ResourceID string

// AutoIDPrefix is the authority prefix for randomly generated resource IDs.
const AutoIDPrefix = "smi:local"

// NewResourceID returns a fresh, globally unique resource identifier.
func NewResourceID() ResourceID {
	return ResourceID(AutoIDPrefix + "/" + uuid.NewString())
}

// String returns the identifier as a plain string.
func (r ResourceID) String() string { return string(r) }

// Polarity is the first-motion direction observed on a pick.
type Polarity string

const (
	PolarityPositive    Polarity = "positive"
	PolarityNegative    Polarity = "negative"
	PolarityUndecidable Polarity = "undecidable"
	PolarityUnset       Polarity = ""
)

// Onset describes how sharply a phase arrival emerges from the noise.
type Onset string

const (
	OnsetImpulsive    Onset = "impulsive"
	OnsetEmergent     Onset = "emergent"
	OnsetQuestionable Onset = "questionable"
	OnsetUnset        Onset = ""
)

// CreationInfo records provenance for a catalog object. Version carries the
// integer sequence number that deterministic resource IDs are derived from.
type CreationInfo struct {
	Author       string
	AgencyID     string
	CreationTime time.Time
	Version      int64
}

// WaveformStreamID identifies the recording channel a pick was made on.
type WaveformStreamID struct {
	NetworkCode  string
	StationCode  string
	LocationCode string
	ChannelCode  string
}

// QuantityError is the uncertainty attached to a measured quantity.
// A nil Uncertainty means no estimate is available.
type QuantityError struct {
	Uncertainty *float64
}

// ConfidenceEllipsoid describes an origin's 3-D confidence region.
// Axis lengths are in meters.
type ConfidenceEllipsoid struct {
	SemiMajorAxisLength        float64
	SemiMinorAxisLength        float64
	SemiIntermediateAxisLength float64
	MajorAxisPlunge            float64
	MajorAxisAzimuth           float64
	MajorAxisRotation          float64
}

// OriginUncertainty is the horizontal location uncertainty of an origin,
// either as a scalar radius or as a full confidence ellipsoid. Both fields
// are in meters and both may be absent.
type OriginUncertainty struct {
	HorizontalUncertainty *float64
	ConfidenceEllipsoid   *ConfidenceEllipsoid
}

// Pick is a single-station phase detection.
type Pick struct {
	ResourceID   ResourceID
	Time         time.Time
	WaveformID   WaveformStreamID
	PhaseHint    string
	Polarity     Polarity
	Onset        Onset
	CreationInfo CreationInfo
}

// Arrival associates a pick with an origin, carrying the source-receiver
// geometry for that association. Azimuth and TakeoffAngle are in degrees;
// Distance is epicentral distance in degrees. All three may be absent.
type Arrival struct {
	ResourceID   ResourceID
	PickID       ResourceID
	Phase        string
	Azimuth      *float64
	Distance     *float64
	TakeoffAngle *float64
	TimeResidual *float64
	CreationInfo CreationInfo
}

// Origin is a hypothesized event location and time. Depth is in meters.
type Origin struct {
	ResourceID        ResourceID
	Time              time.Time
	Latitude          float64
	Longitude         float64
	Depth             float64
	DepthErrors       QuantityError
	OriginUncertainty *OriginUncertainty
	Arrivals          []*Arrival
	CreationInfo      CreationInfo
}

// Magnitude is a network magnitude estimate for an event.
type Magnitude struct {
	ResourceID   ResourceID
	Mag          float64
	Type         string
	OriginID     ResourceID
	CreationInfo CreationInfo
}

// NodalPlane is one nodal plane of a double-couple solution, in degrees.
type NodalPlane struct {
	Strike float64
	Dip    float64
	Rake   float64
}

// NodalPlanes couples the two nodal planes of a focal mechanism.
type NodalPlanes struct {
	NodalPlane1 *NodalPlane
	NodalPlane2 *NodalPlane
}

// Axis is a principal axis orientation, in degrees.
type Axis struct {
	Azimuth float64
	Plunge  float64
	Length  float64
}

// PrincipalAxes holds the tension, pressure and null axes of a mechanism.
type PrincipalAxes struct {
	TAxis *Axis
	PAxis *Axis
	NAxis *Axis
}

// Comment is a free-text annotation attached to a catalog object.
type Comment struct {
	Text       string
	ResourceID ResourceID
}

// FocalMechanism is a fault-plane solution derived from first-motion
// polarities: nodal planes, principal axes, and the quality measures the
// solver reports alongside them.
type FocalMechanism struct {
	ResourceID               ResourceID
	TriggeringOriginID       ResourceID
	MethodID                 ResourceID
	NodalPlanes              *NodalPlanes
	PrincipalAxes            *PrincipalAxes
	StationPolarityCount     int
	AzimuthalGap             float64
	Misfit                   float64
	StationDistributionRatio float64
	Comments                 []Comment
	CreationInfo             CreationInfo
}

// Event aggregates everything known about one seismic event. The
// Preferred*ID fields select the authoritative origin, magnitude and
// mechanism among possibly several candidates.
type Event struct {
	ResourceID                ResourceID
	PreferredOriginID         ResourceID
	PreferredMagnitudeID      ResourceID
	PreferredFocalMechanismID ResourceID
	Origins                   []*Origin
	Magnitudes                []*Magnitude
	Picks                     []*Pick
	FocalMechanisms           []*FocalMechanism
}

// PreferredOrigin returns the origin selected by PreferredOriginID, or nil
// if the ID is unset or matches no origin.
func (e *Event) PreferredOrigin() *Origin {
	for _, o := range e.Origins {
		if o.ResourceID == e.PreferredOriginID {
			return o
		}
	}
	return nil
}

// PreferredMagnitude returns the magnitude selected by PreferredMagnitudeID,
// or nil if the ID is unset or matches no magnitude.
func (e *Event) PreferredMagnitude() *Magnitude {
	for _, m := range e.Magnitudes {
		if m.ResourceID == e.PreferredMagnitudeID {
			return m
		}
	}
	return nil
}

// PreferredFocalMechanism returns the mechanism selected by
// PreferredFocalMechanismID, or nil if the ID is unset or matches nothing.
func (e *Event) PreferredFocalMechanism() *FocalMechanism {
	for _, fm := range e.FocalMechanisms {
		if fm.ResourceID == e.PreferredFocalMechanismID {
			return fm
		}
	}
	return nil
}
