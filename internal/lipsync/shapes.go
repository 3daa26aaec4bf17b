package lipsync

// MouthShape is one of the canonical mouth shapes the renderer knows how to
// display. "X" is the closed/silence shape; the letters follow the Azure
// viseme catalogue order.
type MouthShape string

const (
	ShapeSilence MouthShape = "X"
	ShapeA       MouthShape = "A"
	ShapeB       MouthShape = "B"
	ShapeC       MouthShape = "C"
	ShapeD       MouthShape = "D"
	ShapeE       MouthShape = "E"
	ShapeF       MouthShape = "F"
	ShapeG       MouthShape = "G"
	ShapeH       MouthShape = "H"
	ShapeI       MouthShape = "I"
	ShapeJ       MouthShape = "J"
	ShapeK       MouthShape = "K"
	ShapeL       MouthShape = "L"
	ShapeM       MouthShape = "M"
	ShapeN       MouthShape = "N"
	ShapeO       MouthShape = "O"
	ShapeP       MouthShape = "P"
	ShapeQ       MouthShape = "Q"
	ShapeR       MouthShape = "R"
	ShapeS       MouthShape = "S"
	ShapeT       MouthShape = "T"
)

// visemeIDToShape maps the synthesis engine's numeric viseme ids to mouth
// shapes. Azure emits ids 0-21; id 0 is silence.
var visemeIDToShape = map[int]MouthShape{
	0: ShapeSilence,
	1: ShapeA, 2: ShapeB, 3: ShapeC, 4: ShapeD, 5: ShapeE,
	6: ShapeF, 7: ShapeG, 8: ShapeH, 9: ShapeI, 10: ShapeJ,
	11: ShapeK, 12: ShapeL, 13: ShapeM, 14: ShapeN, 15: ShapeO,
	16: ShapeP, 17: ShapeQ, 18: ShapeR, 19: ShapeS, 20: ShapeT,
}

// ShapeForVisemeID resolves a raw viseme id to a mouth shape. The mapping is
// total: ids outside the known range resolve to the silence shape.
func ShapeForVisemeID(id int) MouthShape {
	if shape, ok := visemeIDToShape[id]; ok {
		return shape
	}
	return ShapeSilence
}
