package core

import "sort"

// KeysVersion is bumped whenever a recognized key is renamed, removed, or
// changes meaning. Adding keys does not bump it.
const KeysVersion = 1

// Key names one value carried by a GameContext.
type Key string

// KeyKind says which of the context's stores a key lives in.
type KeyKind int

const (
	KindFeature KeyKind = iota
	KindInput
	KindOutput
)

func (k KeyKind) String() string {
	switch k {
	case KindFeature:
		return "feature"
	case KindInput:
		return "input"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Owner names used in the registry.
const (
	OwnerCaller      = "caller"
	OwnerFatigue     = "fatigue"
	OwnerLineup      = "lineup"
	OwnerMotivation  = "motivation"
	OwnerPace        = "pace"
	OwnerXPTS        = "xpts"
	OwnerExpected    = "expected"
	OwnerSimulation  = "simulation"
	OwnerProbability = "probability"
	OwnerValue       = "value"
)

// Caller-seeded features.
const (
	RatingHome   Key = "rating_home"
	RatingAway   Key = "rating_away"
	HomeCourtAdv Key = "home_court_adv"

	OddsHome Key = "odds_home"
	OddsAway Key = "odds_away"

	SpreadLine      Key = "spread_line"
	SpreadHomePrice Key = "spread_home_price"
	SpreadAwayPrice Key = "spread_away_price"

	TotalLine       Key = "total_line"
	TotalOverPrice  Key = "total_over_price"
	TotalUnderPrice Key = "total_under_price"

	TeamTotalHomeLine       Key = "team_total_home_line"
	TeamTotalHomeOverPrice  Key = "team_total_home_over_price"
	TeamTotalHomeUnderPrice Key = "team_total_home_under_price"
	TeamTotalAwayLine       Key = "team_total_away_line"
	TeamTotalAwayOverPrice  Key = "team_total_away_over_price"
	TeamTotalAwayUnderPrice Key = "team_total_away_under_price"
)

// Feature module outputs.
const (
	FatigueHome  Key = "fatigue_home"
	FatigueAway  Key = "fatigue_away"
	RestDaysHome Key = "rest_days_home"
	RestDaysAway Key = "rest_days_away"

	LineupHome Key = "lineup_home"
	LineupAway Key = "lineup_away"

	MotivationHome Key = "motivation_home"
	MotivationAway Key = "motivation_away"

	PaceHome      Key = "pace_home"
	PaceAway      Key = "pace_away"
	PaceMatch     Key = "pace_match"
	LeagueAvgPace Key = "league_avg_pace"

	XPTSOffHome      Key = "xpts_off_home"
	XPTSOffAway      Key = "xpts_off_away"
	XPTSDefHome      Key = "xpts_def_home"
	XPTSDefAway      Key = "xpts_def_away"
	XPTSMatchupHome  Key = "xpts_matchup_home"
	XPTSMatchupAway  Key = "xpts_matchup_away"
	ShotQualityDelta Key = "shot_quality_delta"
)

// Model keys.
const (
	ExpectedDiff Key = "expected_diff"
	EloDiff      Key = "elo_diff"
	BaseDiff     Key = "base_diff"
	PaceFactor   Key = "pace_factor"

	MCWinProbHome   Key = "mc_win_prob_home"
	MCWinProbAway   Key = "mc_win_prob_away"
	MCExpectedHome  Key = "mc_expected_home"
	MCExpectedAway  Key = "mc_expected_away"
	MCExpectedTotal Key = "mc_expected_total"
	MCExpectedDiff  Key = "mc_expected_diff"
	MCDistribution  Key = "mc_distribution"
	MCMeanHome      Key = "mc_mean_home"
	MCMeanAway      Key = "mc_mean_away"
	MCVariance      Key = "mc_variance_factor"

	WinProbLogistic Key = "win_prob_logistic"
	WinProbHome     Key = "win_prob_home"
	WinProbAway     Key = "win_prob_away"
	MCModelGap      Key = "mc_model_gap"
	LogisticSlope   Key = "logistic_slope"
	DiffStd         Key = "diff_std"

	EdgeHome  Key = "edge_home"
	EdgeAway  Key = "edge_away"
	KellyHome Key = "kelly_home"
	KellyAway Key = "kelly_away"

	ProbSpreadHome  Key = "prob_spread_home"
	ProbSpreadAway  Key = "prob_spread_away"
	EdgeSpreadHome  Key = "edge_spread_home"
	EdgeSpreadAway  Key = "edge_spread_away"
	KellySpreadHome Key = "kelly_spread_home"
	KellySpreadAway Key = "kelly_spread_away"

	ProbOver   Key = "prob_over"
	ProbUnder  Key = "prob_under"
	EdgeOver   Key = "edge_over"
	EdgeUnder  Key = "edge_under"
	KellyOver  Key = "kelly_over"
	KellyUnder Key = "kelly_under"

	ProbTTHomeOver   Key = "prob_tt_home_over"
	ProbTTHomeUnder  Key = "prob_tt_home_under"
	EdgeTTHomeOver   Key = "edge_tt_home_over"
	EdgeTTHomeUnder  Key = "edge_tt_home_under"
	KellyTTHomeOver  Key = "kelly_tt_home_over"
	KellyTTHomeUnder Key = "kelly_tt_home_under"
	ProbTTAwayOver   Key = "prob_tt_away_over"
	ProbTTAwayUnder  Key = "prob_tt_away_under"
	EdgeTTAwayOver   Key = "edge_tt_away_over"
	EdgeTTAwayUnder  Key = "edge_tt_away_under"
	KellyTTAwayOver  Key = "kelly_tt_away_over"
	KellyTTAwayUnder Key = "kelly_tt_away_under"

	OverroundML     Key = "overround_ml"
	OverroundSpread Key = "overround_spread"
	OverroundTotal  Key = "overround_total"
	OverroundTTHome Key = "overround_tt_home"
	OverroundTTAway Key = "overround_tt_away"

	ValueLines Key = "value_lines"
)

// KeySpec documents one recognized key.
type KeySpec struct {
	Key   Key     `json:"key"`
	Kind  KeyKind `json:"-"`
	Owner string  `json:"owner"`
	Doc   string  `json:"doc"`
}

var keySpecs = []KeySpec{
	{RatingHome, KindFeature, OwnerCaller, "home team rating"},
	{RatingAway, KindFeature, OwnerCaller, "away team rating"},
	{HomeCourtAdv, KindFeature, OwnerCaller, "home-court advantage in points"},
	{OddsHome, KindFeature, OwnerCaller, "moneyline decimal price, home"},
	{OddsAway, KindFeature, OwnerCaller, "moneyline decimal price, away"},
	{SpreadLine, KindFeature, OwnerCaller, "home handicap (negative when home is favored)"},
	{SpreadHomePrice, KindFeature, OwnerCaller, "spread decimal price, home"},
	{SpreadAwayPrice, KindFeature, OwnerCaller, "spread decimal price, away"},
	{TotalLine, KindFeature, OwnerCaller, "game total line"},
	{TotalOverPrice, KindFeature, OwnerCaller, "total over decimal price"},
	{TotalUnderPrice, KindFeature, OwnerCaller, "total under decimal price"},
	{TeamTotalHomeLine, KindFeature, OwnerCaller, "home team total line"},
	{TeamTotalHomeOverPrice, KindFeature, OwnerCaller, "home team total over price"},
	{TeamTotalHomeUnderPrice, KindFeature, OwnerCaller, "home team total under price"},
	{TeamTotalAwayLine, KindFeature, OwnerCaller, "away team total line"},
	{TeamTotalAwayOverPrice, KindFeature, OwnerCaller, "away team total over price"},
	{TeamTotalAwayUnderPrice, KindFeature, OwnerCaller, "away team total under price"},

	{FatigueHome, KindFeature, OwnerFatigue, "schedule fatigue adjustment, home"},
	{FatigueAway, KindFeature, OwnerFatigue, "schedule fatigue adjustment, away"},
	{RestDaysHome, KindFeature, OwnerFatigue, "days since previous game, home"},
	{RestDaysAway, KindFeature, OwnerFatigue, "days since previous game, away"},
	{LineupHome, KindFeature, OwnerLineup, "points lost to injuries, home"},
	{LineupAway, KindFeature, OwnerLineup, "points lost to injuries, away"},
	{MotivationHome, KindFeature, OwnerMotivation, "standings motivation, home"},
	{MotivationAway, KindFeature, OwnerMotivation, "standings motivation, away"},
	{PaceHome, KindFeature, OwnerPace, "possessions per game, home"},
	{PaceAway, KindFeature, OwnerPace, "possessions per game, away"},
	{PaceMatch, KindFeature, OwnerPace, "harmonic-mean match pace"},
	{LeagueAvgPace, KindFeature, OwnerPace, "league average pace"},
	{XPTSOffHome, KindFeature, OwnerXPTS, "offensive xPTS per game, home"},
	{XPTSOffAway, KindFeature, OwnerXPTS, "offensive xPTS per game, away"},
	{XPTSDefHome, KindFeature, OwnerXPTS, "defensive xPTS allowed per game, home"},
	{XPTSDefAway, KindFeature, OwnerXPTS, "defensive xPTS allowed per game, away"},
	{XPTSMatchupHome, KindFeature, OwnerXPTS, "home offense minus away defense"},
	{XPTSMatchupAway, KindFeature, OwnerXPTS, "away offense minus home defense"},
	{ShotQualityDelta, KindFeature, OwnerXPTS, "weighted matchup difference"},

	{EloDiff, KindInput, OwnerExpected, "logistic rating transform in points"},
	{BaseDiff, KindInput, OwnerExpected, "elo_diff plus home court"},
	{PaceFactor, KindInput, OwnerExpected, "pace multiplier applied to the sum"},
	{ExpectedDiff, KindOutput, OwnerExpected, "expected home minus away margin"},

	{MCMeanHome, KindInput, OwnerSimulation, "mean simulated home score"},
	{MCMeanAway, KindInput, OwnerSimulation, "mean simulated away score"},
	{MCVariance, KindInput, OwnerSimulation, "score standard deviation multiplier"},
	{MCWinProbHome, KindOutput, OwnerSimulation, "simulated home win fraction"},
	{MCWinProbAway, KindOutput, OwnerSimulation, "simulated away win fraction"},
	{MCExpectedHome, KindOutput, OwnerSimulation, "mean simulated home points"},
	{MCExpectedAway, KindOutput, OwnerSimulation, "mean simulated away points"},
	{MCExpectedTotal, KindOutput, OwnerSimulation, "mean simulated total"},
	{MCExpectedDiff, KindOutput, OwnerSimulation, "mean simulated differential"},
	{MCDistribution, KindOutput, OwnerSimulation, "per-trial score distribution"},

	{LogisticSlope, KindInput, OwnerProbability, "recalibrated logistic slope"},
	{DiffStd, KindInput, OwnerProbability, "sample std dev of simulated differential"},
	{WinProbLogistic, KindOutput, OwnerProbability, "unblended logistic home win probability"},
	{WinProbHome, KindOutput, OwnerProbability, "blended home win probability"},
	{WinProbAway, KindOutput, OwnerProbability, "blended away win probability"},
	{MCModelGap, KindOutput, OwnerProbability, "simulated minus logistic home probability"},

	{EdgeHome, KindOutput, OwnerValue, "moneyline edge %, home"},
	{EdgeAway, KindOutput, OwnerValue, "moneyline edge %, away"},
	{KellyHome, KindOutput, OwnerValue, "moneyline stake fraction, home"},
	{KellyAway, KindOutput, OwnerValue, "moneyline stake fraction, away"},
	{ProbSpreadHome, KindOutput, OwnerValue, "simulated home cover fraction"},
	{ProbSpreadAway, KindOutput, OwnerValue, "simulated away cover fraction"},
	{EdgeSpreadHome, KindOutput, OwnerValue, "spread edge %, home"},
	{EdgeSpreadAway, KindOutput, OwnerValue, "spread edge %, away"},
	{KellySpreadHome, KindOutput, OwnerValue, "spread stake fraction, home"},
	{KellySpreadAway, KindOutput, OwnerValue, "spread stake fraction, away"},
	{ProbOver, KindOutput, OwnerValue, "simulated fraction over the total"},
	{ProbUnder, KindOutput, OwnerValue, "simulated fraction under the total"},
	{EdgeOver, KindOutput, OwnerValue, "total over edge %"},
	{EdgeUnder, KindOutput, OwnerValue, "total under edge %"},
	{KellyOver, KindOutput, OwnerValue, "total over stake fraction"},
	{KellyUnder, KindOutput, OwnerValue, "total under stake fraction"},
	{ProbTTHomeOver, KindOutput, OwnerValue, "simulated fraction home over team total"},
	{ProbTTHomeUnder, KindOutput, OwnerValue, "simulated fraction home under team total"},
	{EdgeTTHomeOver, KindOutput, OwnerValue, "home team total over edge %"},
	{EdgeTTHomeUnder, KindOutput, OwnerValue, "home team total under edge %"},
	{KellyTTHomeOver, KindOutput, OwnerValue, "home team total over stake fraction"},
	{KellyTTHomeUnder, KindOutput, OwnerValue, "home team total under stake fraction"},
	{ProbTTAwayOver, KindOutput, OwnerValue, "simulated fraction away over team total"},
	{ProbTTAwayUnder, KindOutput, OwnerValue, "simulated fraction away under team total"},
	{EdgeTTAwayOver, KindOutput, OwnerValue, "away team total over edge %"},
	{EdgeTTAwayUnder, KindOutput, OwnerValue, "away team total under edge %"},
	{KellyTTAwayOver, KindOutput, OwnerValue, "away team total over stake fraction"},
	{KellyTTAwayUnder, KindOutput, OwnerValue, "away team total under stake fraction"},
	{OverroundML, KindOutput, OwnerValue, "moneyline implied probability sum"},
	{OverroundSpread, KindOutput, OwnerValue, "spread implied probability sum"},
	{OverroundTotal, KindOutput, OwnerValue, "total implied probability sum"},
	{OverroundTTHome, KindOutput, OwnerValue, "home team total implied probability sum"},
	{OverroundTTAway, KindOutput, OwnerValue, "away team total implied probability sum"},
	{ValueLines, KindOutput, OwnerValue, "every evaluated market leg"},
}

var keyIndex = func() map[Key]KeySpec {
	m := make(map[Key]KeySpec, len(keySpecs))
	for _, s := range keySpecs {
		m[s.Key] = s
	}
	return m
}()

// Spec returns the registry entry for k.
func Spec(k Key) (KeySpec, bool) {
	s, ok := keyIndex[k]
	return s, ok
}

// Known reports whether k is a recognized key.
func Known(k Key) bool {
	_, ok := keyIndex[k]
	return ok
}

// AllKeys returns every recognized key sorted by owner, then name.
func AllKeys() []KeySpec {
	out := make([]KeySpec, len(keySpecs))
	copy(out, keySpecs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Owner != out[j].Owner {
			return out[i].Owner < out[j].Owner
		}
		return out[i].Key < out[j].Key
	})
	return out
}
