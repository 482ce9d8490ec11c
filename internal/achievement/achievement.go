// Package achievement lists the game's achievements and decides which
// ones a finished run earns.
package achievement

// ID identifies an achievement. Values are stable and stored on disk.
type ID string

const (
	BeginTheTilt             ID = "begin_the_tilt"
	OohThatsGottaHurt        ID = "ooh_thats_gotta_hurt"
	ObstacleSmash            ID = "obstacle_smash"
	BanishedToTheShadowRealm ID = "banished_to_the_shadow_realm"
	YayYouDidIt              ID = "yay_you_did_it"
	ThisGameIsActuallyHard   ID = "this_game_is_actually_hard"
	SoSoClose                ID = "so_so_close"
	TooEZ                    ID = "too_ez"
	NoStressNoMess           ID = "no_stress_no_mess"
	InstructionsUnclear      ID = "instructions_unclear_got_stuck_in_a_cube"
)

// Info describes an achievement for display.
type Info struct {
	ID          ID
	Title       string
	Description string
}

// All lists every achievement in display order.
var All = []Info{
	{BeginTheTilt, "Begin the Tilt", "Start playing for the first time"},
	{OohThatsGottaHurt, "Ooh, That's Gotta Hurt", "Hit a spike"},
	{ObstacleSmash, "Obstacle Smash", "Get crushed by a moving obstacle"},
	{BanishedToTheShadowRealm, "Banished to the Shadow Realm", "Fall out of the map"},
	{YayYouDidIt, "Yay, You Did It!", "Complete the first level"},
	{ThisGameIsActuallyHard, "This Game Is Actually Hard", "Try a level 20 times"},
	{SoSoClose, "So, So Close", "Fail within 10 m of the flag"},
	{TooEZ, "Too EZ", "Complete a level on the first try"},
	{NoStressNoMess, "No Stress, No Mess", "Complete the last level"},
	{InstructionsUnclear, "Instructions Unclear, Got Stuck in a Cube", "Roll inside a block"},
}

// Lookup returns the display info for id.
func Lookup(id ID) (Info, bool) {
	for _, info := range All {
		if info.ID == id {
			return info, true
		}
	}
	return Info{}, false
}

const (
	hardTries      = 20
	closeDistance  = 10
	firstLevel     = 1
	firstTryNumber = 1
)

// Outcome summarizes a finished run.
type Outcome struct {
	Completed     bool
	Tries         int
	Level         int
	MaxLevel      int
	Distance      float64
	TotalDistance float64
}

// Earned returns the achievements a finished run qualifies for, in the
// order they are checked.
func Earned(o Outcome) []ID {
	var ids []ID
	if o.Completed && o.Tries == firstTryNumber {
		ids = append(ids, TooEZ)
	}
	if !o.Completed && o.TotalDistance-o.Distance <= closeDistance {
		ids = append(ids, SoSoClose)
	}
	if o.Completed && o.Level == o.MaxLevel {
		ids = append(ids, NoStressNoMess)
	}
	if o.Completed && o.Level == firstLevel {
		ids = append(ids, YayYouDidIt)
	}
	if o.Tries >= hardTries {
		ids = append(ids, ThisGameIsActuallyHard)
	}
	return ids
}
