package roles

// Style axis names.
const (
	AxisDepth       = "depth"
	AxisAssociation = "association"
	AxisWidth       = "width"
	AxisProgression = "progression"
	AxisCreativity  = "creativity"
	AxisPressing    = "pressing"
	AxisDanger      = "danger"
	AxisAerial      = "aerial"
)

// Position families used as peer groups for quantile normalization.
const (
	FamilyGoalkeeper = "GK"
	FamilyFullback   = "FB"
	FamilyCenterBack = "CB"
	FamilyMidfielder = "CM"
	FamilyWinger     = "W"
	FamilyForward    = "F"
	FamilySubstitute = "SUB"
)

// AxisNames returns the eight axes in display order.
func AxisNames() []string {
	return []string{
		AxisDepth,
		AxisAssociation,
		AxisWidth,
		AxisProgression,
		AxisCreativity,
		AxisPressing,
		AxisDanger,
		AxisAerial,
	}
}

// axesDefinition maps each axis to the convex combination of style
// ratios that composes it. Weights sum to 1 per axis.
var axesDefinition = map[string]map[string]float64{ //nolint:gochecknoglobals // fixed model coefficients
	AxisDepth: {
		"depth_runs_ratio":           0.7,
		"open_space_reception_ratio": 0.3,
	},
	AxisAssociation: {
		"association_run_ratio":       0.45,
		"quick_pass_ratio":            0.2,
		"tight_space_reception_ratio": 0.35,
	},
	AxisWidth: {
		"width_ratio": 1.0,
	},
	AxisProgression: {
		"progressive_pass_ratio": 0.5,
		"line_break_pass_ratio":  0.5,
	},
	AxisCreativity: {
		"last_line_break_ratio":         0.4,
		"opponents_bypassed_ratio":      0.3,
		"defensive_line_movement_ratio": 0.3,
	},
	AxisPressing: {
		"defensive_activity_rate": 1.0,
	},
	AxisDanger: {
		"shot_frequency":         0.6,
		"dangerous_action_ratio": 0.4,
	},
	AxisAerial: {
		"aerial_involvement_ratio": 1.0,
	},
}

// positionFamilyMap collapses raw position codes to peer families.
var positionFamilyMap = map[string]string{ //nolint:gochecknoglobals // fixed model table
	"GK":  FamilyGoalkeeper,
	"LB":  FamilyFullback,
	"RB":  FamilyFullback,
	"LWB": FamilyFullback,
	"RWB": FamilyFullback,
	"RCB": FamilyCenterBack,
	"LCB": FamilyCenterBack,
	"CB":  FamilyCenterBack,
	"DM":  FamilyMidfielder,
	"LDM": FamilyMidfielder,
	"RDM": FamilyMidfielder,
	"AM":  FamilyMidfielder,
	"LM":  FamilyWinger,
	"RM":  FamilyWinger,
	"LW":  FamilyWinger,
	"RW":  FamilyWinger,
	"LF":  FamilyForward,
	"RF":  FamilyForward,
	"CF":  FamilyForward,
	"SUB": FamilySubstitute,
}

// PositionFamily maps a raw position code to its family. Unmapped codes
// are treated as substitutes.
func PositionFamily(position string) string {
	if family, ok := positionFamilyMap[position]; ok {
		return family
	}
	return FamilySubstitute
}

// uniformProfile gives every axis equal weight; it is the single role
// used for goalkeepers and substitutes.
func uniformProfile() map[string]float64 {
	profile := make(map[string]float64, 8)
	for _, axis := range AxisNames() {
		profile[axis] = 0.125
	}
	return profile
}

// roleProfiles holds, per position family, the coefficient vector of
// each named tactical role over the eight axes. Positive coefficients
// mean the axis supports the role, negative that it contradicts it.
var roleProfiles = map[string]map[string]map[string]float64{ //nolint:gochecknoglobals // fixed model table
	FamilyForward: {
		"Deep Forward": {
			AxisDepth:       1.0,
			AxisDanger:      1.0,
			AxisWidth:       0.2,
			AxisCreativity:  0.2,
			AxisProgression: 0.1,
			AxisAerial:      0.0,
			AxisPressing:    -0.8,
			AxisAssociation: -0.7,
		},
		"False 9": {
			AxisAssociation: 1.0,
			AxisCreativity:  0.8,
			AxisProgression: 0.6,
			AxisDanger:      0.3,
			AxisPressing:    0.0,
			AxisWidth:       -0.4,
			AxisAerial:      -0.5,
			AxisDepth:       -0.8,
		},
		"Target Man": {
			AxisAerial:      1.0,
			AxisAssociation: 0.8,
			AxisPressing:    0.4,
			AxisDanger:      0.4,
			AxisDepth:       -0.4,
			AxisCreativity:  -0.3,
			AxisWidth:       -0.6,
			AxisProgression: -0.3,
		},
		"Pressing Forward": {
			AxisPressing:    1.0,
			AxisDepth:       0.2,
			AxisAerial:      0.2,
			AxisDanger:      0.1,
			AxisWidth:       0.1,
			AxisAssociation: -0.2,
			AxisCreativity:  -0.2,
			AxisProgression: -0.2,
		},
		"Complete Forward": {
			AxisDepth:       0.2,
			AxisAssociation: 0.2,
			AxisCreativity:  0.2,
			AxisDanger:      0.2,
			AxisPressing:    0.0,
			AxisAerial:      0.1,
			AxisProgression: 0.1,
			AxisWidth:       0.0,
		},
	},
	FamilyWinger: {
		"Wide Winger": {
			AxisWidth:       1.0,
			AxisDepth:       0.5,
			AxisDanger:      0.4,
			AxisCreativity:  0.2,
			AxisProgression: 0.2,
			AxisAerial:      -0.4,
			AxisPressing:    -0.4,
			AxisAssociation: -0.5,
		},
		"Inverted Winger": {
			AxisDanger:      0.7,
			AxisCreativity:  0.6,
			AxisAssociation: 0.3,
			AxisProgression: 0.4,
			AxisWidth:       -1.0,
			AxisDepth:       0.0,
			AxisPressing:    0.0,
			AxisAerial:      0.0,
		},
		"Playmaking Winger": {
			AxisCreativity:  0.8,
			AxisAssociation: 0.7,
			AxisProgression: 0.6,
			AxisDanger:      0.1,
			AxisWidth:       0.0,
			AxisDepth:       -0.5,
			AxisPressing:    -0.3,
			AxisAerial:      -0.4,
		},
		"Defensive Winger": {
			AxisPressing:    1.0,
			AxisAerial:      0.6,
			AxisWidth:       0.2,
			AxisAssociation: 0.3,
			AxisDepth:       0.1,
			AxisDanger:      -0.5,
			AxisCreativity:  -0.4,
			AxisProgression: -0.3,
		},
		"Complete Winger": {
			AxisDanger:      0.3,
			AxisCreativity:  0.3,
			AxisPressing:    0.0,
			AxisDepth:       0.2,
			AxisAssociation: 0.1,
			AxisProgression: 0.2,
			AxisAerial:      0.0,
			AxisWidth:       0.1,
		},
	},
	FamilyMidfielder: {
		"Defensive Midfielder": {
			AxisPressing:    1.0,
			AxisProgression: 0.6,
			AxisAssociation: 0.4,
			AxisAerial:      0.7,
			AxisDanger:      -0.5,
			AxisCreativity:  -0.4,
			AxisDepth:       -0.5,
			AxisWidth:       -0.3,
		},
		"Box-to-box": {
			AxisProgression: 0.4,
			AxisPressing:    0.4,
			AxisAssociation: 0.3,
			AxisCreativity:  0.0,
			AxisDanger:      0.1,
			AxisDepth:       0.0,
			AxisWidth:       0.0,
			AxisAerial:      -0.2,
		},
		"Playmaker": {
			AxisCreativity:  0.8,
			AxisAssociation: 0.6,
			AxisProgression: 0.6,
			AxisDanger:      0.2,
			AxisPressing:    -0.4,
			AxisAerial:      -0.4,
			AxisDepth:       -0.3,
			AxisWidth:       -0.1,
		},
		"Attacking Midfielder": {
			AxisCreativity:  0.7,
			AxisDanger:      0.7,
			AxisAssociation: 0.3,
			AxisProgression: 0.2,
			AxisDepth:       0.2,
			AxisWidth:       0.0,
			AxisPressing:    -0.8,
			AxisAerial:      -0.4,
		},
		"Complete Midfielder": {
			AxisProgression: 0.2,
			AxisAssociation: 0.2,
			AxisCreativity:  0.2,
			AxisPressing:    0.2,
			AxisDanger:      0.1,
			AxisAerial:      0.1,
			AxisDepth:       0.0,
			AxisWidth:       0.0,
		},
	},
	FamilyCenterBack: {
		"Ball-playing Defender": {
			AxisProgression: 0.6,
			AxisCreativity:  0.4,
			AxisAssociation: 0.5,
			AxisWidth:       0.3,
			AxisDepth:       0.2,
			AxisAerial:      -0.5,
			AxisDanger:      0.1,
			AxisPressing:    -0.6,
		},
		"Aggressive Defender": {
			AxisPressing:    1.0,
			AxisAerial:      0.7,
			AxisAssociation: 0.3,
			AxisDanger:      0.3,
			AxisCreativity:  -0.3,
			AxisProgression: -0.4,
			AxisWidth:       -0.2,
			AxisDepth:       -0.4,
		},
		"Cover Defender": {
			AxisAerial:      0.7,
			AxisPressing:    0.3,
			AxisAssociation: 0.6,
			AxisCreativity:  0.2,
			AxisDanger:      -0.3,
			AxisProgression: -0.2,
			AxisDepth:       -0.5,
			AxisWidth:       0.0,
		},
		"Aerial Dominator": {
			AxisAerial:      1.0,
			AxisDanger:      0.9,
			AxisPressing:    0.5,
			AxisProgression: 0.1,
			AxisCreativity:  -0.4,
			AxisAssociation: -0.2,
			AxisWidth:       -0.5,
			AxisDepth:       -0.4,
		},
		"Complete Defender": {
			AxisAerial:      0.2,
			AxisPressing:    0.2,
			AxisProgression: 0.2,
			AxisAssociation: 0.2,
			AxisCreativity:  0.1,
			AxisDanger:      0.1,
			AxisWidth:       0.0,
			AxisDepth:       0.0,
		},
	},
	FamilyFullback: {
		"Attacking Fullback": {
			AxisDepth:       0.6,
			AxisWidth:       0.4,
			AxisProgression: 0.5,
			AxisCreativity:  0.3,
			AxisAssociation: 0.2,
			AxisDanger:      0.3,
			AxisPressing:    -0.7,
			AxisAerial:      -0.6,
		},
		"Defensive Fullback": {
			AxisPressing:    1.0,
			AxisAerial:      0.8,
			AxisAssociation: 0.4,
			AxisWidth:       0.5,
			AxisDepth:       -0.3,
			AxisDanger:      -0.8,
			AxisCreativity:  -0.3,
			AxisProgression: -0.3,
		},
		"Wing-back": {
			AxisWidth:       1.0,
			AxisProgression: 0.4,
			AxisDepth:       0.0,
			AxisPressing:    0.1,
			AxisCreativity:  0.0,
			AxisAssociation: 0.0,
			AxisDanger:      0.0,
			AxisAerial:      -0.5,
		},
		"Inverted Fullback": {
			AxisProgression: 0.6,
			AxisCreativity:  0.5,
			AxisAssociation: 0.5,
			AxisPressing:    0.5,
			AxisDepth:       0.0,
			AxisWidth:       -1.0,
			AxisDanger:      -0.1,
			AxisAerial:      0.0,
		},
		"Complete Fullback": {
			AxisWidth:       0.2,
			AxisPressing:    0.2,
			AxisProgression: 0.2,
			AxisAssociation: 0.2,
			AxisDepth:       0.0,
			AxisCreativity:  0.1,
			AxisAerial:      0.1,
			AxisDanger:      0.0,
		},
	},
	FamilyGoalkeeper: {
		"Goalkeeper": uniformProfile(),
	},
	FamilySubstitute: {
		"Substitute": uniformProfile(),
	},
}

// RoleProfilesFor returns the role coefficient vectors for a family.
func RoleProfilesFor(family string) map[string]map[string]float64 {
	return roleProfiles[family]
}
