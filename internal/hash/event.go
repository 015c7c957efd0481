package hash

import (
	"fmt"
	"math"
	"time"

	"github.com/quake-data/focalmech/internal/doublecouple"
	"github.com/quake-data/focalmech/internal/quakeml"
	"github.com/quake-data/focalmech/internal/units"
)

// DefaultPrefix is the authority prefix applied to deterministic resource
// identifiers when no other prefix is configured.
const DefaultPrefix = "smi:local.hashserver"

// RID builds a namespaced resource identifier from a local identifier.
// An empty prefix falls back to DefaultPrefix; use LocalRID when no
// prefixing is wanted at all.
func RID(local, prefix string) quakeml.ResourceID {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return quakeml.ResourceID(prefix + "/" + local)
}

// LocalRID builds a resource identifier with no authority prefix.
func LocalRID(local string) quakeml.ResourceID {
	return quakeml.ResourceID(local)
}

// FindPick resolves the pick an arrival references. It first matches the
// arrival's PickID against the picks' own identifiers, then falls back to
// a positional lookup in the supplied ordered identifier list. Returns nil
// when neither path matches; callers skip the arrival rather than fail.
func FindPick(arr *quakeml.Arrival, picks []*quakeml.Pick, pickIDs []quakeml.ResourceID) *quakeml.Pick {
	for _, p := range picks {
		if p.ResourceID == arr.PickID {
			return p
		}
	}
	for i, id := range pickIDs {
		if id == arr.PickID && i < len(picks) {
			return picks[i]
		}
	}
	return nil
}

// ImportEvent loads the preferred origin, arrivals and picks of an event
// into the workspace input buffers.
//
// Arrivals are walked in their original order. An arrival fills the next
// free station slot only if its pick resolves, its distance is within
// DelMax, its phase is P, and its polarity is determinate; anything else
// is skipped with a diag-stream note, never an error. PIndex records the
// arrival positions that survived, and NPol is the final slot count.
func (w *Workspace) ImportEvent(ev *quakeml.Event) error {
	origin := ev.PreferredOrigin()
	if origin == nil {
		return fmt.Errorf("event %s has no preferred origin", ev.ResourceID)
	}
	mag := ev.PreferredMagnitude()

	pickIDs := make([]quakeml.ResourceID, len(ev.Picks))
	for i, p := range ev.Picks {
		pickIDs[i] = p.ResourceID
	}

	w.TStamp = float64(origin.Time.UnixNano()) / 1e9
	w.QLat = origin.Latitude
	w.QLon = origin.Longitude
	w.QDep = units.MetersToKm(origin.Depth)
	w.ICusp = origin.CreationInfo.Version

	defaultM := w.defaultUncertaintyM
	if defaultM == 0 {
		defaultM = DefaultUncertaintyMeters
	}
	seh := defaultM
	uncert := origin.OriginUncertainty
	switch {
	case uncert != nil && uncert.HorizontalUncertainty != nil && *uncert.HorizontalUncertainty != 0:
		seh = *uncert.HorizontalUncertainty
	case uncert != nil && uncert.ConfidenceEllipsoid != nil && uncert.ConfidenceEllipsoid.SemiMajorAxisLength != 0:
		seh = uncert.ConfidenceEllipsoid.SemiMajorAxisLength
	}
	w.SEH = units.MetersToKm(seh)

	sez := defaultM
	if origin.DepthErrors.Uncertainty != nil {
		sez = *origin.DepthErrors.Uncertainty
	}
	w.SEZ = units.MetersToKm(sez)

	w.HasMag = mag != nil
	w.QMag = 0
	if mag != nil {
		w.QMag = mag.Mag
	}

	w.PIndex = w.PIndex[:0]
	k := 0
	for i, arr := range origin.Arrivals {
		if k >= len(w.SName) {
			Opsf("input slots exhausted after %d observations, dropping remaining arrivals", k)
			break
		}
		pick := FindPick(arr, ev.Picks, pickIDs)
		if pick == nil {
			Diagf("arrival %d: no matching pick, skipping", i)
			continue
		}
		w.SName[k] = pick.WaveformID.StationCode
		w.SNet[k] = pick.WaveformID.NetworkCode
		w.SComp[k] = pick.WaveformID.ChannelCode
		w.Arid[k] = pick.CreationInfo.Version

		if arr.Azimuth == nil || arr.Distance == nil {
			Diagf("arrival %d: missing azimuth or distance, skipping", i)
			continue
		}
		w.QAzi[k] = units.NormalizeAzimuth(*arr.Azimuth)
		w.Dist[k] = units.DegreesToKm(*arr.Distance)
		if w.Dist[k] > w.DelMax {
			Diagf("arrival %d: distance %.1f km beyond limit %.1f km, skipping", i, w.Dist[k], w.DelMax)
			continue
		}
		if arr.Phase != "P" && arr.Phase != "p" {
			Diagf("arrival %d: phase %q is not P, skipping", i, arr.Phase)
			continue
		}
		switch pick.Polarity {
		case quakeml.PolarityPositive:
			w.PPol[k] = 1
		case quakeml.PolarityNegative:
			w.PPol[k] = -1
		default:
			Diagf("arrival %d: polarity %q is not usable, skipping", i, pick.Polarity)
			continue
		}
		switch pick.Onset {
		case quakeml.OnsetImpulsive:
			w.PQual[k] = 0
		case quakeml.OnsetEmergent, quakeml.OnsetQuestionable:
			w.PQual[k] = 1
		default:
			w.PQual[k] = 0
		}
		w.PIndex = append(w.PIndex, i)
		k++
	}
	w.NPol = k
	return nil
}

// ExportEvent converts the solver outputs back into an event record.
//
// With a nil event it builds a fresh one: an origin from the scalar
// hypocenter fields and one pick/arrival pair per filled slot, carrying
// the observed polarity and the solved takeoff geometry. With an existing
// event it only updates takeoff angles on the arrivals recorded in PIndex;
// onlyMechanismPicks additionally replaces the origin's arrival list and
// the event's pick list with exactly the used subset.
//
// Every candidate solution becomes a FocalMechanism with nodal planes and
// principal axes from the double-couple decomposition; the candidate at
// BestQualityIndex becomes the event's preferred mechanism.
func (w *Workspace) ExportEvent(ev *quakeml.Event, onlyMechanismPicks bool) (*quakeml.Event, error) {
	if w.NMult > len(w.StrAvg) || w.NMult > len(w.DipAvg) || w.NMult > len(w.RakAvg) ||
		w.NMult > len(w.Qual) || w.NMult > len(w.MFrac) || w.NMult > len(w.STDR) {
		return nil, fmt.Errorf("workspace reports %d candidate solutions but output arrays are shorter", w.NMult)
	}
	n := w.NPol
	if n > len(w.PAziMC) || n > len(w.PTheMC) {
		return nil, fmt.Errorf("workspace reports %d filled slots but trial arrays are shorter", n)
	}

	var origin *quakeml.Origin
	if ev == nil {
		ev = &quakeml.Event{ResourceID: quakeml.NewResourceID()}
		origin = &quakeml.Origin{
			ResourceID:   RID(fmt.Sprintf("Origin/%d", w.ICusp), w.IDPrefix),
			Time:         time.Unix(0, int64(math.Round(w.TStamp*1e9))).UTC(),
			Latitude:     w.QLat,
			Longitude:    w.QLon,
			Depth:        units.KmToMeters(w.QDep),
			CreationInfo: quakeml.CreationInfo{Version: w.ICusp},
		}
		for i := 0; i < n; i++ {
			p := &quakeml.Pick{
				ResourceID:   RID(fmt.Sprintf("Pick/%d", w.Arid[i]), w.IDPrefix),
				CreationInfo: quakeml.CreationInfo{Version: w.Arid[i]},
				WaveformID: quakeml.WaveformStreamID{
					NetworkCode: w.SNet[i],
					StationCode: w.SName[i],
					ChannelCode: w.SComp[i],
				},
			}
			if w.PPol[i] > 0 {
				p.Polarity = quakeml.PolarityPositive
			} else {
				p.Polarity = quakeml.PolarityNegative
			}
			azimuth := w.PAziMC[i][0]
			takeoff := 180.0 - w.PTheMC[i][0]
			distance := units.KmToDegrees(w.Dist[i])
			a := &quakeml.Arrival{
				ResourceID:   RID(fmt.Sprintf("Arrival/%d", w.Arid[i]), w.IDPrefix),
				CreationInfo: quakeml.CreationInfo{Version: w.Arid[i]},
				PickID:       p.ResourceID,
				Phase:        "P",
				Azimuth:      &azimuth,
				Distance:     &distance,
				TakeoffAngle: &takeoff,
			}
			origin.Arrivals = append(origin.Arrivals, a)
			ev.Picks = append(ev.Picks, p)
		}
		ev.Origins = append(ev.Origins, origin)
		ev.PreferredOriginID = origin.ResourceID
	} else {
		origin = ev.PreferredOrigin()
		if origin == nil {
			return nil, fmt.Errorf("event %s has no preferred origin", ev.ResourceID)
		}
		if n > len(w.PIndex) {
			return nil, fmt.Errorf("workspace reports %d filled slots but only %d arrival indices were recorded", n, len(w.PIndex))
		}
		pickIDs := make([]quakeml.ResourceID, len(ev.Picks))
		for i, p := range ev.Picks {
			pickIDs[i] = p.ResourceID
		}
		picks := make([]*quakeml.Pick, 0, n)
		arrivals := make([]*quakeml.Arrival, 0, n)
		for i := 0; i < n; i++ {
			ind := w.PIndex[i]
			if ind < 0 || ind >= len(origin.Arrivals) {
				return nil, fmt.Errorf("recorded arrival index %d out of range for %d arrivals", ind, len(origin.Arrivals))
			}
			a := origin.Arrivals[ind]
			takeoff := 180.0 - w.PTheMC[i][0]
			a.TakeoffAngle = &takeoff
			arrivals = append(arrivals, a)
			if p := FindPick(a, ev.Picks, pickIDs); p != nil {
				picks = append(picks, p)
			}
		}
		if onlyMechanismPicks {
			origin.Arrivals = arrivals
			ev.Picks = picks
		}
	}

	for s := 0; s < w.NMult; s++ {
		sol := doublecouple.Decompose(w.StrAvg[s], w.DipAvg[s], w.RakAvg[s])
		fmid := fmt.Sprintf("FocalMechanism/%d-%d", w.ICusp, s+1)
		fm := &quakeml.FocalMechanism{
			ResourceID:         RID(fmid, w.IDPrefix),
			TriggeringOriginID: origin.ResourceID,
			MethodID:           RID("Method/HASH", w.IDPrefix),
			NodalPlanes: &quakeml.NodalPlanes{
				NodalPlane1: &quakeml.NodalPlane{Strike: sol.Plane1.Strike, Dip: sol.Plane1.Dip, Rake: sol.Plane1.Rake},
				NodalPlane2: &quakeml.NodalPlane{Strike: sol.Plane2.Strike, Dip: sol.Plane2.Dip, Rake: sol.Plane2.Rake},
			},
			PrincipalAxes: &quakeml.PrincipalAxes{
				TAxis: &quakeml.Axis{Azimuth: sol.T.Azimuth, Plunge: sol.T.Plunge},
				PAxis: &quakeml.Axis{Azimuth: sol.P.Azimuth, Plunge: sol.P.Plunge},
			},
			StationPolarityCount:     n,
			AzimuthalGap:             w.MAGap,
			Misfit:                   w.MFrac[s],
			StationDistributionRatio: w.STDR[s],
			Comments: []quakeml.Comment{
				{Text: w.SettingsStr, ResourceID: RID(fmid+"#hash-settings", w.IDPrefix)},
				{Text: w.Qual[s], ResourceID: RID(fmid+"#hash-qual", w.IDPrefix)},
			},
			CreationInfo: quakeml.CreationInfo{Author: w.Author, CreationTime: time.Now().UTC()},
		}
		ev.FocalMechanisms = append(ev.FocalMechanisms, fm)
		if s == w.BestQualityIndex {
			ev.PreferredFocalMechanismID = fm.ResourceID
		}
	}
	return ev, nil
}
