// Package hash marshals seismic event records in and out of the flat
// numeric buffers a HASH-style focal-mechanism solver consumes.
//
// The solver itself is a black box: it reads the per-station input arrays
// of a Workspace, runs its grid search, and fills the per-solution output
// arrays. This package only does the field mapping, unit conversion and
// pick filtering on either side of that call.
package hash

import (
	"fmt"

	"github.com/quake-data/focalmech/internal/version"
)

// NPick0 is the station slot capacity of the solver input arrays.
const NPick0 = 1000

// Workspace holds the flat buffers exchanged with the solver: fixed
// capacity parallel input arrays indexed by station slot, the scalar
// hypocenter fields, and the per-candidate output arrays the solver fills.
//
// Distances and location errors are in kilometers on this side of the
// boundary; the event model uses meters.
type Workspace struct {
	// Scalar hypocenter fields.
	TStamp float64 // origin time, Unix seconds
	QLat   float64 // latitude, degrees
	QLon   float64 // longitude, degrees
	QDep   float64 // depth, km
	ICusp  int64   // origin identifier, from the origin's version number
	SEH    float64 // horizontal location error, km
	SEZ    float64 // vertical location error, km
	QMag   float64 // preferred magnitude
	HasMag bool    // QMag is only meaningful when set

	// Per-slot input arrays, parallel, indexed by station slot.
	SName []string  // station codes
	SNet  []string  // network codes
	SComp []string  // channel codes
	Arid  []int64   // arrival identifiers, from pick version numbers
	QAzi  []float64 // source-station azimuth, degrees in [0,360)
	Dist  []float64 // epicentral distance, km
	PPol  []int     // polarity sign: +1 positive, -1 negative
	PQual []int     // onset quality: 0 impulsive, 1 emergent/questionable

	// NPol is the number of filled slots. It is the authoritative count of
	// usable polarity observations and bounds all per-slot iteration.
	NPol int

	// PIndex records, per filled slot, the position of the source arrival
	// in the preferred origin's arrival list, for output-side correlation.
	PIndex []int

	// DelMax is the maximum epicentral distance (km) accepted on import.
	DelMax float64

	// Solver outputs, one entry per candidate solution.
	NMult  int       // number of candidate solutions
	StrAvg []float64 // trial-averaged strike, degrees
	DipAvg []float64 // trial-averaged dip, degrees
	RakAvg []float64 // trial-averaged rake, degrees
	Qual   []string  // solution quality grade
	MFrac  []float64 // weighted fraction of misfit polarities
	STDR   []float64 // station distribution ratio

	// MAGap is the maximum azimuthal gap over the used stations.
	MAGap float64

	// PAziMC and PTheMC hold per-slot azimuth and takeoff angle across the
	// solver's hypocenter perturbation trials. Column 0 is the unperturbed
	// geometry used on export.
	PAziMC [][]float64
	PTheMC [][]float64

	// BestQualityIndex selects the preferred candidate among the outputs.
	BestQualityIndex int

	// SettingsStr describes the active tuning and is recorded on exported
	// mechanisms as provenance.
	SettingsStr string
	// Author is stamped on exported focal mechanisms.
	Author string
	// IDPrefix is the authority prefix for deterministic resource IDs;
	// empty selects DefaultPrefix.
	IDPrefix string

	// defaultUncertaintyM substitutes for missing origin location errors
	// on import, in meters.
	defaultUncertaintyM float64
}

// NewWorkspace allocates a Workspace sized for NPick0 station slots.
// A nil cfg selects the built-in tuning defaults.
func NewWorkspace(cfg *TuningConfig) *Workspace {
	trials := cfg.GetNumTrials()

	w := &Workspace{
		SName:  make([]string, NPick0),
		SNet:   make([]string, NPick0),
		SComp:  make([]string, NPick0),
		Arid:   make([]int64, NPick0),
		QAzi:   make([]float64, NPick0),
		Dist:   make([]float64, NPick0),
		PPol:   make([]int, NPick0),
		PQual:  make([]int, NPick0),
		PAziMC: make([][]float64, NPick0),
		PTheMC: make([][]float64, NPick0),

		DelMax:   cfg.GetMaxDistanceKm(),
		Author:   cfg.GetAuthor(),
		IDPrefix: cfg.GetIDPrefix(),

		defaultUncertaintyM: cfg.GetDefaultUncertaintyM(),
	}
	for i := range w.PAziMC {
		w.PAziMC[i] = make([]float64, trials)
		w.PTheMC[i] = make([]float64, trials)
	}
	w.SettingsStr = fmt.Sprintf("hashgo %s delmax=%.1fkm trials=%d", version.Version, w.DelMax, trials)
	return w
}

// Trials returns the number of perturbation trial columns allocated per slot.
func (w *Workspace) Trials() int {
	if len(w.PAziMC) == 0 {
		return 0
	}
	return len(w.PAziMC[0])
}
