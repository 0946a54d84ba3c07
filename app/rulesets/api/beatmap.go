package api

import "fmt"

// BeatmapAttributes are effective beatmap values after mods and clock rate
type BeatmapAttributes struct {
	AR float64 `json:"ar"`
	OD float64 `json:"od"`
	CS float64 `json:"cs"`
	HP float64 `json:"hp"`

	ClockRate float64 `json:"clockRate"`

	// Windows in wall-clock milliseconds
	ARHitWindow      float64 `json:"arHitWindow"`
	ODGreatHitWindow float64 `json:"odGreatHitWindow"`
	ODOkHitWindow    float64 `json:"odOkHitWindow"`
	ODMehHitWindow   float64 `json:"odMehHitWindow,omitempty"`
}

func (attr BeatmapAttributes) String() string {
	return fmt.Sprintf("AR %.2f OD %.2f CS %.2f HP %.2f @%.2fx (preempt %.1fms, great %.1fms, ok %.1fms)",
		attr.AR, attr.OD, attr.CS, attr.HP, attr.ClockRate, attr.ARHitWindow, attr.ODGreatHitWindow, attr.ODOkHitWindow)
}
