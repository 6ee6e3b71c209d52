package roadgen

// RoadMarkType is the painted pattern on the outer border of a lane
type RoadMarkType uint16

const (
	ROADMARK_NONE = RoadMarkType(iota + 1)
	ROADMARK_SOLID
	ROADMARK_BROKEN
	ROADMARK_SOLID_SOLID
	ROADMARK_SOLID_BROKEN
	ROADMARK_BROKEN_SOLID
	ROADMARK_BROKEN_BROKEN
)

func (iotaIdx RoadMarkType) String() string {
	return [...]string{"undefined", "none", "solid", "broken", "solid solid", "solid broken", "broken solid", "broken broken"}[iotaIdx]
}

const (
	roadMarkWidth       = 0.2
	roadMarkLineWidth   = 0.15
	roadMarkColor       = "standard"
	roadMarkDoubleShift = 0.2
)

// RoadLine is one painted line of a road mark. Length and Space are zero for continuous lines
type RoadLine struct {
	Width   float64
	Length  float64
	Space   float64
	TOffset float64
	SOffset float64
}

// RoadMark describes marking of a lane border
type RoadMark struct {
	Type  RoadMarkType
	Width float64
	Color string
	Lines []RoadLine
}

// StdRoadMarkSolid returns single continuous line
func StdRoadMarkSolid() RoadMark {
	return RoadMark{Type: ROADMARK_SOLID, Width: roadMarkWidth, Color: roadMarkColor}
}

// StdRoadMarkBroken returns dashed line with 3m strokes and 9m gaps
func StdRoadMarkBroken() RoadMark {
	return RoadMark{
		Type:  ROADMARK_BROKEN,
		Width: roadMarkWidth,
		Color: roadMarkColor,
		Lines: []RoadLine{{Width: roadMarkLineWidth, Length: 3, Space: 9}},
	}
}

// StdRoadMarkBrokenLong returns dashed line with 9m strokes and 3m gaps
func StdRoadMarkBrokenLong() RoadMark {
	return RoadMark{
		Type:  ROADMARK_BROKEN,
		Width: roadMarkWidth,
		Color: roadMarkColor,
		Lines: []RoadLine{{Width: roadMarkLineWidth, Length: 9, Space: 3}},
	}
}

// StdRoadMarkBrokenTight returns dashed line with equal 3m strokes and gaps
func StdRoadMarkBrokenTight() RoadMark {
	return RoadMark{
		Type:  ROADMARK_BROKEN,
		Width: roadMarkWidth,
		Color: roadMarkColor,
		Lines: []RoadLine{{Width: roadMarkLineWidth, Length: 3, Space: 3}},
	}
}

// StdRoadMarkBrokenBroken returns two parallel dashed lines
func StdRoadMarkBrokenBroken() RoadMark {
	return doubleRoadMark(ROADMARK_BROKEN_BROKEN, true, true)
}

// StdRoadMarkSolidSolid returns two parallel continuous lines
func StdRoadMarkSolidSolid() RoadMark {
	return doubleRoadMark(ROADMARK_SOLID_SOLID, false, false)
}

// StdRoadMarkSolidBroken returns continuous line on the left and dashed line on the right
func StdRoadMarkSolidBroken() RoadMark {
	return doubleRoadMark(ROADMARK_SOLID_BROKEN, false, true)
}

// StdRoadMarkBrokenSolid returns dashed line on the left and continuous line on the right
func StdRoadMarkBrokenSolid() RoadMark {
	return doubleRoadMark(ROADMARK_BROKEN_SOLID, true, false)
}

func doubleRoadMark(markType RoadMarkType, leftBroken, rightBroken bool) RoadMark {
	line := func(broken bool, tOffset float64) RoadLine {
		rl := RoadLine{Width: roadMarkWidth, TOffset: tOffset}
		if broken {
			rl.Length = 3
			rl.Space = 3
		}
		return rl
	}
	return RoadMark{
		Type:  markType,
		Width: roadMarkWidth,
		Color: roadMarkColor,
		Lines: []RoadLine{
			line(leftBroken, roadMarkDoubleShift),
			line(rightBroken, -roadMarkDoubleShift),
		},
	}
}
